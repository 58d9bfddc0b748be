// Package dom implements the live document tree the editing core mutates.
//
// The model mirrors the subset of the browser DOM a contenteditable editor relies
// on: element and text nodes, child enumeration by node and by element, markup
// serialization through outerHTML, and structural mutation. Every mutation is
// reported to registered MutationObservers asynchronously, which is what the
// mutation synchronizer waits on.
package dom

import (
	"errors"
	"strings"
	"sync"
	"unicode/utf8"
)

var (
	// ErrHierarchy is returned when an insertion would create a cycle or put
	// children under a text node.
	ErrHierarchy = errors.New("dom: hierarchy request error")
	// ErrNotAttached is returned by operations that need a parent.
	ErrNotAttached = errors.New("dom: node has no parent")
)

// NodeType distinguishes element nodes from text nodes.
type NodeType int

const (
	ElementNode NodeType = iota + 1
	TextNode
)

// Attribute is a single element attribute, kept in source order.
type Attribute struct {
	Key string
	Val string
}

// Node is an element or a text node of a Document.
type Node struct {
	Type NodeType
	Tag  string // lower-case, elements only
	Attr []Attribute

	value    string
	parent   *Node
	children []*Node
	doc      *Document
}

// Document owns a tree rooted at an editable container element, the caret
// and the observers watching the tree.
type Document struct {
	root      *Node
	selection *Range

	mu            sync.Mutex // guards registrations
	registrations []*registration
}

// NewDocument creates a document whose root container is an empty rootTag element.
func NewDocument(rootTag string) *Document {
	if rootTag == "" {
		rootTag = "div"
	}
	d := &Document{}
	d.root = d.CreateElement(rootTag)
	d.selection = &Range{StartContainer: d.root, EndContainer: d.root}
	return d
}

// Root returns the container element.
func (d *Document) Root() *Node { return d.root }

// CreateElement returns a detached element owned by d.
func (d *Document) CreateElement(tag string) *Node {
	return &Node{Type: ElementNode, Tag: strings.ToLower(tag), doc: d}
}

// CreateTextNode returns a detached text node owned by d.
func (d *Document) CreateTextNode(value string) *Node {
	return &Node{Type: TextNode, value: value, doc: d}
}

func (n *Node) Document() *Document { return n.doc }
func (n *Node) Parent() *Node       { return n.parent }
func (n *Node) IsText() bool        { return n != nil && n.Type == TextNode }
func (n *Node) IsElement() bool     { return n != nil && n.Type == ElementNode }

// NodeName returns the tag of an element or "#text".
func (n *Node) NodeName() string {
	if n.IsText() {
		return "#text"
	}
	return n.Tag
}

// Value returns the data of a text node.
func (n *Node) Value() string { return n.value }

// SetValue replaces the data of a text node. A characterData record is queued
// even when the value does not change.
func (n *Node) SetValue(value string) {
	if !n.IsText() {
		return
	}
	old := n.value
	n.value = value
	n.doc.queue(MutationRecord{Type: CharacterData, Target: n, OldValue: old})
}

// Len is the boundary-point length: runes for text, child nodes for elements.
func (n *Node) Len() int {
	if n.IsText() {
		return utf8.RuneCountInString(n.value)
	}
	return len(n.children)
}

// ChildNodes returns a copy of all children, text included.
func (n *Node) ChildNodes() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildCount returns the number of child nodes.
func (n *Node) ChildCount() int { return len(n.children) }

// ChildNode returns the child at index i, or nil when out of range.
func (n *Node) ChildNode(i int) *Node {
	if n == nil || i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Children returns the element children only.
func (n *Node) Children() []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.IsElement() {
			out = append(out, c)
		}
	}
	return out
}

// ElementCount returns the number of element children.
func (n *Node) ElementCount() int {
	count := 0
	for _, c := range n.children {
		if c.IsElement() {
			count++
		}
	}
	return count
}

// Child returns the element child at index i, or nil when out of range.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 {
		return nil
	}
	for _, c := range n.children {
		if !c.IsElement() {
			continue
		}
		if i == 0 {
			return c
		}
		i--
	}
	return nil
}

func (n *Node) FirstChild() *Node { return n.ChildNode(0) }
func (n *Node) LastChild() *Node  { return n.ChildNode(len(n.children) - 1) }

// LastElementChild returns the last element child or nil.
func (n *Node) LastElementChild() *Node {
	for i := len(n.children) - 1; i >= 0; i-- {
		if n.children[i].IsElement() {
			return n.children[i]
		}
	}
	return nil
}

// Index returns the position of n among its parent's child nodes, or -1.
func (n *Node) Index() int {
	if n.parent == nil {
		return -1
	}
	for i, c := range n.parent.children {
		if c == n {
			return i
		}
	}
	return -1
}

// ElementIndex returns the position of n among its parent's element children, or -1.
func (n *Node) ElementIndex() int {
	if n.parent == nil {
		return -1
	}
	i := 0
	for _, c := range n.parent.children {
		if c == n {
			return i
		}
		if c.IsElement() {
			i++
		}
	}
	return -1
}

func (n *Node) PreviousSibling() *Node {
	if n.parent == nil {
		return nil
	}
	return n.parent.ChildNode(n.Index() - 1)
}

func (n *Node) NextSibling() *Node {
	if n.parent == nil {
		return nil
	}
	return n.parent.ChildNode(n.Index() + 1)
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for c := other; c != nil; c = c.parent {
		if c == n {
			return true
		}
	}
	return false
}

// TextContent concatenates the values of all descendant text nodes.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.value
	}
	var b strings.Builder
	for _, t := range TextNodes(n) {
		b.WriteString(t.value)
	}
	return b.String()
}

// Clone copies n. A shallow clone of an element keeps its tag and attributes only.
func (n *Node) Clone(deep bool) *Node {
	c := &Node{Type: n.Type, Tag: n.Tag, value: n.value, doc: n.doc}
	if len(n.Attr) > 0 {
		c.Attr = append([]Attribute(nil), n.Attr...)
	}
	if deep {
		for _, child := range n.children {
			cc := child.Clone(true)
			cc.parent = c
			c.children = append(c.children, cc)
		}
	}
	return c
}

// AppendChild adds child as the last child of n.
func (n *Node) AppendChild(child *Node) error {
	return n.insertAt(len(n.children), child)
}

// Prepend adds child as the first child of n.
func (n *Node) Prepend(child *Node) error {
	return n.insertAt(0, child)
}

// InsertBefore inserts child before ref; a nil ref appends.
func (n *Node) InsertBefore(child, ref *Node) error {
	if ref == nil {
		return n.AppendChild(child)
	}
	if ref.parent != n {
		return ErrHierarchy
	}
	return n.insertAt(ref.Index(), child)
}

// After inserts nodes right after n in its parent.
func (n *Node) After(nodes ...*Node) error {
	if n.parent == nil {
		return ErrNotAttached
	}
	return n.parent.insertAt(n.Index()+1, nodes...)
}

// RemoveChild detaches child from n.
func (n *Node) RemoveChild(child *Node) error {
	if child == nil || child.parent != n {
		return ErrHierarchy
	}
	n.removeAt(child.Index())
	return nil
}

// Remove detaches n from its parent.
func (n *Node) Remove() error {
	if n.parent == nil {
		return ErrNotAttached
	}
	return n.parent.RemoveChild(n)
}

// ReplaceWith swaps n for nodes in a single childList mutation.
func (n *Node) ReplaceWith(nodes ...*Node) error {
	p := n.parent
	if p == nil {
		return ErrNotAttached
	}
	for _, c := range nodes {
		if err := p.checkInsert(c); err != nil {
			return err
		}
	}
	for _, c := range nodes {
		c.detach()
	}
	// n may have moved if one of nodes was an earlier sibling.
	idx := n.Index()
	n.parent = nil
	rest := append([]*Node(nil), p.children[idx+1:]...)
	p.children = append(p.children[:idx], nodes...)
	p.children = append(p.children, rest...)
	for _, c := range nodes {
		c.parent = p
	}
	p.doc.queue(MutationRecord{Type: ChildList, Target: p, AddedNodes: nodes, RemovedNodes: []*Node{n}})
	return nil
}

func (n *Node) checkInsert(child *Node) error {
	if child == nil || n.IsText() || child.Contains(n) {
		return ErrHierarchy
	}
	return nil
}

// detach unlinks n from its old parent, reporting the removal there.
func (n *Node) detach() {
	if n.parent != nil {
		n.parent.removeAt(n.Index())
	}
}

func (n *Node) insertAt(idx int, nodes ...*Node) error {
	for _, c := range nodes {
		if err := n.checkInsert(c); err != nil {
			return err
		}
	}
	if len(nodes) == 0 {
		return nil
	}
	var ref *Node
	if idx >= 0 && idx < len(n.children) {
		ref = n.children[idx]
	}
	for _, c := range nodes {
		c.detach()
	}
	// Detaching may have shifted the reference position.
	idx = len(n.children)
	if ref != nil && ref.parent == n {
		idx = ref.Index()
	}
	rest := append([]*Node(nil), n.children[idx:]...)
	n.children = append(n.children[:idx], nodes...)
	n.children = append(n.children, rest...)
	for _, c := range nodes {
		c.parent = n
		c.adopt(n.doc)
	}
	n.doc.queue(MutationRecord{Type: ChildList, Target: n, AddedNodes: append([]*Node(nil), nodes...)})
	return nil
}

func (n *Node) removeAt(idx int) {
	if idx < 0 || idx >= len(n.children) {
		return
	}
	c := n.children[idx]
	n.children = append(n.children[:idx], n.children[idx+1:]...)
	c.parent = nil
	n.doc.queue(MutationRecord{Type: ChildList, Target: n, RemovedNodes: []*Node{c}})
}

func (n *Node) adopt(d *Document) {
	if n.doc == d || d == nil {
		return
	}
	n.doc = d
	for _, c := range n.children {
		c.adopt(d)
	}
}
