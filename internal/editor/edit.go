package editor

import (
	"context"
	"fmt"
	"strings"

	"github.com/bethropolis/stylo/internal/dom"
	"github.com/bethropolis/stylo/internal/event"
	"github.com/bethropolis/stylo/internal/history"
	"github.com/bethropolis/stylo/internal/input"
	"github.com/bethropolis/stylo/internal/logger"
)

// beforeInput runs the normalizer. It reports whether the default action
// still has to be applied.
func (e *Editor) beforeInput(ctx context.Context, typ input.InputType, data string) (bool, error) {
	ev := input.NewBeforeInputEvent(typ, data)
	if err := e.normalizer.OnBeforeInput(ctx, ev); err != nil {
		return false, err
	}
	if ev.DefaultPrevented() {
		e.modified = true
		e.caretMoved()
		return false, nil
	}
	return true, nil
}

// InsertText types text at the caret.
func (e *Editor) InsertText(ctx context.Context, text string) error {
	return e.insert(ctx, input.InsertText, text)
}

// Paste inserts clipboard text at the caret as a single edit. Line breaks
// become spaces; paragraphs are not created from pasted text.
func (e *Editor) Paste(ctx context.Context, text string) error {
	text = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(text)
	if text == "" {
		return nil
	}
	return e.insert(ctx, input.InsertFromPaste, text)
}

func (e *Editor) insert(ctx context.Context, typ input.InputType, text string) error {
	if text == "" {
		return nil
	}
	apply, err := e.beforeInput(ctx, typ, text)
	if err != nil || !apply {
		return err
	}

	node, offset := e.doc.Caret()
	if node == e.container {
		// Caret before a text paragraph: type at its start.
		e.doc.MoveCursorToStart(e.container.ChildNode(offset))
		node, offset = e.doc.Caret()
	}
	paragraph := dom.FindParagraph(e.container, node)
	if !paragraph.IsElement() {
		logger.Warnf("Editor: no paragraph at caret, %q dropped", text)
		return nil
	}

	if !node.IsText() {
		return e.insertTextNode(paragraph, node, offset, text)
	}

	oldValue := node.Value()
	runes := []rune(oldValue)
	node.SetValue(string(runes[:offset]) + text + string(runes[offset:]))
	e.history.RecordInputChange(e.container, history.InputData{
		Index:       paragraph.ElementIndex(),
		IndexDepths: dom.Depths(paragraph, node),
		OldValue:    oldValue,
		Offset:      offset,
	})
	e.doc.MoveCursorToOffset(node, offset+len([]rune(text)))
	e.modifiedBy(event.SourceInput)
	return nil
}

// insertTextNode handles typing with the caret on an element, an empty
// paragraph mostly: the new text node is a structural change of the
// paragraph and is recorded as an update.
func (e *Editor) insertTextNode(paragraph, parent *dom.Node, offset int, text string) error {
	index := paragraph.ElementIndex()
	previousOuterHTML := paragraph.OuterHTML()

	node := e.doc.CreateTextNode(text)
	if err := parent.InsertBefore(node, parent.ChildNode(offset)); err != nil {
		return fmt.Errorf("inserting text: %w", err)
	}
	e.history.RecordUpdateChange(e.container, []history.ParagraphUpdate{{Index: index, OuterHTML: previousOuterHTML}})
	e.doc.MoveCursorToEnd(node)
	e.modifiedBy(event.SourceInput)
	return nil
}

// DeleteBackward removes the grapheme before the caret, the selection, or
// merges the paragraph into the previous one from a paragraph start.
func (e *Editor) DeleteBackward(ctx context.Context) error {
	apply, err := e.beforeInput(ctx, input.DeleteContentBackward, "")
	if err != nil || !apply {
		return err
	}

	r := e.doc.Selection()
	if !r.Collapsed() {
		return e.deleteSelection(r)
	}

	node, offset := e.doc.Caret()
	paragraph := dom.FindParagraph(e.container, node)
	if !paragraph.IsElement() {
		return nil
	}
	textOffset := dom.TextOffset(paragraph, node, offset)
	if textOffset == 0 {
		return e.mergeWithPrevious(paragraph)
	}
	if !node.IsText() || offset == 0 {
		// Step into the text node ending right before the caret.
		node, offset = dom.PositionAt(paragraph, textOffset)
	}

	oldValue := node.Value()
	runes := []rune(oldValue)
	n := lastGraphemeLen(string(runes[:offset]))
	node.SetValue(string(runes[:offset-n]) + string(runes[offset:]))
	e.history.RecordInputChange(e.container, history.InputData{
		Index:       paragraph.ElementIndex(),
		IndexDepths: dom.Depths(paragraph, node),
		OldValue:    oldValue,
		Offset:      offset,
	})
	e.doc.MoveCursorToOffset(node, offset-n)
	e.modifiedBy(event.SourceInput)
	return nil
}

// deleteSelection removes a selection the normalizer left to the default
// action. The touched paragraphs are recorded as replaced.
func (e *Editor) deleteSelection(r *dom.Range) error {
	first := dom.FindParagraph(e.container, r.StartContainer)
	last := dom.FindParagraph(e.container, r.EndContainer)
	if !first.IsElement() || !last.IsElement() {
		r.Collapse(true)
		return nil
	}
	from, to := first.ElementIndex(), last.ElementIndex()
	if err := e.replaceParagraphs(from, to, func() error {
		r.DeleteContents()
		return nil
	}); err != nil {
		return err
	}
	e.doc.MoveCursorToOffset(r.StartContainer, r.StartOffset)
	e.modifiedBy(event.SourceInput)
	return nil
}

// mergeWithPrevious moves the content of paragraph to the end of the
// paragraph before it.
func (e *Editor) mergeWithPrevious(paragraph *dom.Node) error {
	index := paragraph.ElementIndex()
	if index == 0 {
		return nil
	}
	previous := e.container.Child(index - 1)
	junction := len([]rune(previous.TextContent()))

	if err := e.replaceParagraphs(index-1, index, func() error {
		for _, child := range paragraph.ChildNodes() {
			if err := previous.AppendChild(child); err != nil {
				return err
			}
		}
		return paragraph.Remove()
	}); err != nil {
		return err
	}
	e.SetCaret(index-1, junction)
	e.modifiedBy(event.SourceInput)
	return nil
}

// InsertParagraph splits the caret paragraph in two, the caret moving to the
// start of the second half.
func (e *Editor) InsertParagraph(ctx context.Context) error {
	apply, err := e.beforeInput(ctx, input.InsertParagraph, "")
	if err != nil || !apply {
		return err
	}

	node, offset := e.doc.Caret()
	paragraph := dom.FindParagraph(e.container, node)
	if !paragraph.IsElement() {
		count := e.container.ElementCount()
		created := e.doc.CreateElement(e.cfg.DefaultParagraph)
		if err := e.replaceParagraphs(count, count-1, func() error {
			return e.container.AppendChild(created)
		}); err != nil {
			return err
		}
		e.doc.MoveCursorToStart(created)
		e.modifiedBy(event.SourceInput)
		return nil
	}

	tail := paragraph.Clone(true)
	tailNode := tail
	if node != paragraph {
		tailNode = dom.FindNodeAtDepths(tail, dom.Depths(paragraph, node))
	}

	if err := e.replaceParagraphs(paragraph.ElementIndex(), paragraph.ElementIndex(), func() error {
		head := &dom.Range{StartContainer: node, StartOffset: offset, EndContainer: paragraph, EndOffset: paragraph.ChildCount()}
		head.DeleteContents()
		rest := &dom.Range{StartContainer: tail, StartOffset: 0, EndContainer: tailNode, EndOffset: offset}
		rest.DeleteContents()
		return paragraph.After(tail)
	}); err != nil {
		return err
	}
	e.doc.MoveCursorToStart(tail)
	e.modifiedBy(event.SourceInput)
	return nil
}

// replaceParagraphs runs mutate, which turns the paragraphs from..to into a
// possibly different number of paragraphs starting at from, and records the
// swap: additions in descending index first, then the removals in ascending
// index, so replaying either direction never shifts a pending index.
func (e *Editor) replaceParagraphs(from, to int, mutate func() error) error {
	removed := make([]history.ParagraphMutation, 0, max(0, to-from+1))
	for i := from; i <= to; i++ {
		removed = append(removed, history.ParagraphMutation{
			OuterHTML: e.container.Child(i).OuterHTML(),
			Index:     i,
			Mutation:  history.Remove,
		})
	}
	count := e.container.ElementCount()

	if err := mutate(); err != nil {
		return fmt.Errorf("replacing paragraphs %d..%d: %w", from, to, err)
	}

	added := len(removed) + e.container.ElementCount() - count
	changes := make([]history.ParagraphMutation, 0, added+len(removed))
	for i := from + added - 1; i >= from; i-- {
		changes = append(changes, history.ParagraphMutation{
			OuterHTML: e.container.Child(i).OuterHTML(),
			Index:     i,
			Mutation:  history.Add,
		})
	}
	e.history.RecordParagraphChange(e.container, append(changes, removed...))
	return nil
}

func (e *Editor) modifiedBy(source event.Source) {
	e.modified = true
	e.eventManager.Dispatch(event.TypeDocumentModified, event.DocumentModifiedData{Source: source})
	e.caretMoved()
}
