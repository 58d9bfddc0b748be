package editor

import (
	"github.com/rivo/uniseg"

	"github.com/bethropolis/stylo/internal/dom"
	"github.com/bethropolis/stylo/internal/event"
)

// CaretPosition returns the caret as the element index of its paragraph and
// a rune offset into the paragraph text. The index is -1 when the caret is
// not inside a paragraph.
func (e *Editor) CaretPosition() (paragraph, offset int) {
	node, off := e.doc.Caret()
	p := dom.FindParagraph(e.container, node)
	if !p.IsElement() {
		return -1, 0
	}
	return p.ElementIndex(), dom.TextOffset(p, node, off)
}

// SetCaret moves the caret to offset in the paragraph at index, clamping both.
func (e *Editor) SetCaret(index, offset int) {
	count := e.container.ElementCount()
	if count == 0 {
		e.doc.MoveCursorToOffset(e.container, 0)
		e.caretMoved()
		return
	}
	index = max(0, min(index, count-1))
	node, off := dom.PositionAt(e.container.Child(index), offset)
	e.doc.MoveCursorToOffset(node, off)
	e.caretMoved()
}

// MoveLeft moves the caret one grapheme back, to the end of the previous
// paragraph from a paragraph start.
func (e *Editor) MoveLeft() {
	index, offset := e.CaretPosition()
	if index < 0 {
		return
	}
	if offset > 0 {
		text := []rune(e.container.Child(index).TextContent())
		e.SetCaret(index, offset-lastGraphemeLen(string(text[:offset])))
		return
	}
	if index > 0 {
		e.SetCaret(index-1, len([]rune(e.container.Child(index-1).TextContent())))
	}
}

// MoveRight moves the caret one grapheme forward.
func (e *Editor) MoveRight() {
	index, offset := e.CaretPosition()
	if index < 0 {
		return
	}
	text := []rune(e.container.Child(index).TextContent())
	if offset < len(text) {
		e.SetCaret(index, offset+firstGraphemeLen(string(text[offset:])))
		return
	}
	if index < e.container.ElementCount()-1 {
		e.SetCaret(index+1, 0)
	}
}

// MoveUp moves to the previous paragraph, keeping the offset where possible.
func (e *Editor) MoveUp() {
	if index, offset := e.CaretPosition(); index > 0 {
		e.SetCaret(index-1, offset)
	}
}

// MoveDown moves to the next paragraph, keeping the offset where possible.
func (e *Editor) MoveDown() {
	if index, offset := e.CaretPosition(); index >= 0 && index < e.container.ElementCount()-1 {
		e.SetCaret(index+1, offset)
	}
}

func (e *Editor) MoveHome() {
	if index, _ := e.CaretPosition(); index >= 0 {
		e.SetCaret(index, 0)
	}
}

func (e *Editor) MoveEnd() {
	if index, _ := e.CaretPosition(); index >= 0 {
		e.SetCaret(index, len([]rune(e.container.Child(index).TextContent())))
	}
}

func (e *Editor) caretMoved() {
	index, offset := e.CaretPosition()
	e.eventManager.Dispatch(event.TypeCaretMoved, event.CaretMovedData{Paragraph: index, Offset: offset})
}

// lastGraphemeLen returns the rune count of the last grapheme cluster of s.
func lastGraphemeLen(s string) int {
	n := 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		n = len(gr.Runes())
	}
	return n
}

// firstGraphemeLen returns the rune count of the first grapheme cluster of s.
func firstGraphemeLen(s string) int {
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(s, -1)
	return len([]rune(cluster))
}
