package history

import (
	"context"

	"github.com/bethropolis/stylo/internal/dom"
	"github.com/bethropolis/stylo/internal/logger"
	"github.com/bethropolis/stylo/internal/mutation"
)

// The helpers below address paragraphs by index, so each one waits for its
// mutation to be observed before the next index is resolved.

// clampIndex keeps index inside [0, count-1]. It returns -1 for an empty container.
func clampIndex(index, count int) int {
	if count == 0 {
		return -1
	}
	if index >= count {
		logger.DebugTagf("history", "index %d clamped to %d", index, count-1)
		return count - 1
	}
	if index < 0 {
		return 0
	}
	return index
}

// insertNode inserts outerHTML after the paragraph at index-1 and moves the
// caret to the end of the inserted paragraph. It reports false when outerHTML
// holds no nodes and the tree was left untouched.
func insertNode(ctx context.Context, container *dom.Node, index int, outerHTML string) (bool, error) {
	doc := container.Document()
	if nodes, err := doc.ParseFragment(outerHTML); err != nil || len(nodes) == 0 {
		logger.Warnf("History: nothing to insert at %d (%q)", index, outerHTML)
		return false, nil
	}

	var anchor *dom.Node
	if index > 0 {
		anchor = container.Child(clampIndex(index-1, container.ElementCount()))
	}

	records, err := mutation.Await(ctx, container, mutation.Structure, func() error {
		if anchor == nil {
			_, err := container.InsertAdjacentHTML(dom.AfterBegin, outerHTML)
			return err
		}
		_, err := anchor.InsertAdjacentHTML(dom.AfterEnd, outerHTML)
		return err
	})
	if err != nil {
		return false, err
	}
	doc.MoveCursorToEnd(mutation.AddedNode(records))
	return true, nil
}

// removeNode removes the paragraph at index, clamped to the last paragraph.
func removeNode(ctx context.Context, container *dom.Node, index int) error {
	paragraph := container.Child(clampIndex(index, container.ElementCount()))
	if paragraph == nil {
		logger.DebugTagf("history", "no paragraph to remove at %d", index)
		return nil
	}
	_, err := mutation.Await(ctx, container, mutation.Structure, paragraph.Remove)
	return err
}

// updateNode replaces the paragraph at index with outerHTML and returns the
// markup it replaced. When the container is empty the markup is inserted and
// the previous markup is empty.
func updateNode(ctx context.Context, container *dom.Node, index int, outerHTML string, moveCursor bool) (string, error) {
	paragraph := container.Child(clampIndex(index, container.ElementCount()))
	if paragraph == nil {
		_, err := insertNode(ctx, container, index, outerHTML)
		return "", err
	}

	previousOuterHTML := paragraph.OuterHTML()
	records, err := mutation.Await(ctx, container, mutation.Structure, func() error {
		_, err := paragraph.SetOuterHTML(outerHTML)
		return err
	})
	if err != nil {
		return "", err
	}
	if moveCursor {
		container.Document().MoveCursorToEnd(mutation.AddedNode(records))
	}
	return previousOuterHTML, nil
}

// updateNodeValue sets the value of text and returns the value it held.
func updateNodeValue(ctx context.Context, container, text *dom.Node, value string) (string, error) {
	previousValue := text.Value()
	_, err := mutation.Await(ctx, container, mutation.Text, func() error {
		text.SetValue(value)
		return nil
	})
	return previousValue, err
}

// prependText inserts an empty text node as the first child of parent.
func prependText(ctx context.Context, container, parent *dom.Node) (*dom.Node, error) {
	text := container.Document().CreateTextNode("")
	_, err := mutation.Await(ctx, container, mutation.Structure, func() error {
		return parent.Prepend(text)
	})
	if err != nil {
		return nil, err
	}
	return text, nil
}

// createLast adds an empty copy of the last element of paragraph after it, so
// a restored text keeps the styling of its siblings (list items notably).
// Without such an element a span is appended to paragraph.
func createLast(ctx context.Context, container, paragraph *dom.Node) (*dom.Node, error) {
	doc := container.Document()
	anchor := paragraph.LastElementChild()

	var parent *dom.Node
	mutate := func() error { return paragraph.AppendChild(parent) }
	if anchor != nil {
		parent = anchor.Clone(false)
		mutate = func() error { return anchor.After(parent) }
	} else {
		parent = doc.CreateElement("span")
	}

	if _, err := mutation.Await(ctx, container, mutation.Structure, mutate); err != nil {
		return nil, err
	}
	logger.DebugTagf("history", "synthesized <%s> under <%s>", parent.NodeName(), paragraph.NodeName())
	return parent, nil
}
