package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Positions accepted by InsertAdjacentHTML.
const (
	BeforeBegin = "beforebegin"
	AfterBegin  = "afterbegin"
	BeforeEnd   = "beforeend"
	AfterEnd    = "afterend"
)

// ParseFragment parses markup as the content of a block element and returns
// detached nodes owned by d. Comments and doctypes are dropped.
func (d *Document) ParseFragment(markup string) ([]*Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	parsed, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}
	nodes := make([]*Node, 0, len(parsed))
	for _, hn := range parsed {
		if n := d.fromHTML(hn); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}

func (d *Document) fromHTML(hn *html.Node) *Node {
	switch hn.Type {
	case html.TextNode:
		return d.CreateTextNode(hn.Data)
	case html.ElementNode:
		n := d.CreateElement(hn.Data)
		for _, a := range hn.Attr {
			n.Attr = append(n.Attr, Attribute{Key: a.Key, Val: a.Val})
		}
		for c := hn.FirstChild; c != nil; c = c.NextSibling {
			if child := d.fromHTML(c); child != nil {
				child.parent = n
				n.children = append(n.children, child)
			}
		}
		return n
	default:
		return nil
	}
}

func toHTML(n *Node) *html.Node {
	if n.IsText() {
		return &html.Node{Type: html.TextNode, Data: n.value}
	}
	hn := &html.Node{Type: html.ElementNode, Data: n.Tag, DataAtom: atom.Lookup([]byte(n.Tag))}
	for _, a := range n.Attr {
		hn.Attr = append(hn.Attr, html.Attribute{Key: a.Key, Val: a.Val})
	}
	for _, c := range n.children {
		hn.AppendChild(toHTML(c))
	}
	return hn
}

// OuterHTML serializes n including its own tag.
func (n *Node) OuterHTML() string {
	var b strings.Builder
	if err := html.Render(&b, toHTML(n)); err != nil {
		return ""
	}
	return b.String()
}

// InnerHTML serializes the children of n.
func (n *Node) InnerHTML() string {
	var b strings.Builder
	for _, c := range n.children {
		b.WriteString(c.OuterHTML())
	}
	return b.String()
}

// SetOuterHTML replaces n with the nodes parsed from markup in one mutation.
func (n *Node) SetOuterHTML(markup string) ([]*Node, error) {
	if n.parent == nil {
		return nil, ErrNotAttached
	}
	nodes, err := n.doc.ParseFragment(markup)
	if err != nil {
		return nil, err
	}
	if err := n.ReplaceWith(nodes...); err != nil {
		return nil, err
	}
	return nodes, nil
}

// SetInnerHTML replaces all children of n with the nodes parsed from markup.
func (n *Node) SetInnerHTML(markup string) error {
	nodes, err := n.doc.ParseFragment(markup)
	if err != nil {
		return err
	}
	for len(n.children) > 0 {
		n.removeAt(len(n.children) - 1)
	}
	return n.insertAt(0, nodes...)
}

// InsertAdjacentHTML parses markup and inserts the result relative to n.
func (n *Node) InsertAdjacentHTML(position, markup string) ([]*Node, error) {
	nodes, err := n.doc.ParseFragment(markup)
	if err != nil {
		return nil, err
	}
	switch position {
	case BeforeBegin:
		if n.parent == nil {
			return nil, ErrNotAttached
		}
		err = n.parent.insertAt(n.Index(), nodes...)
	case AfterBegin:
		err = n.insertAt(0, nodes...)
	case BeforeEnd:
		err = n.insertAt(len(n.children), nodes...)
	case AfterEnd:
		err = n.After(nodes...)
	default:
		err = fmt.Errorf("dom: invalid adjacent position %q", position)
	}
	if err != nil {
		return nil, err
	}
	return nodes, nil
}
