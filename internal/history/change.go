// Package history records reversible document edits and replays them as
// undo/redo against the live container.
package history

import "github.com/bethropolis/stylo/internal/dom"

// ChangeType is the variant of a Change.
type ChangeType int

const (
	InputChange ChangeType = iota + 1
	ParagraphChange
	UpdateChange
)

func (t ChangeType) String() string {
	switch t {
	case InputChange:
		return "input"
	case ParagraphChange:
		return "paragraph"
	case UpdateChange:
		return "update"
	default:
		return "unknown"
	}
}

// MutationKind says whether a paragraph entry was added or removed.
type MutationKind int

const (
	Add MutationKind = iota + 1
	Remove
)

func (k MutationKind) String() string {
	switch k {
	case Add:
		return "add"
	case Remove:
		return "remove"
	default:
		return "unknown"
	}
}

// InputData reverts a text value change.
type InputData struct {
	Index       int    // element index of the paragraph in the container
	IndexDepths []int  // child-node path from the paragraph to the text node
	OldValue    string // value to restore
	Offset      int    // caret offset to restore, in runes
}

// ParagraphMutation is one paragraph insertion or removal.
type ParagraphMutation struct {
	OuterHTML string
	Index     int
	Mutation  MutationKind
}

// ParagraphUpdate is the prior markup of the paragraph at Index.
type ParagraphUpdate struct {
	Index     int
	OuterHTML string
}

// Change is a single reversible edit. Exactly one of Input, Paragraphs or
// Updates is set, according to Type.
type Change struct {
	Type   ChangeType
	Target *dom.Node // container the indices are relative to

	Input      *InputData
	Paragraphs []ParagraphMutation
	Updates    []ParagraphUpdate
}

// clone returns a copy that shares no slices with c.
func (c Change) clone() Change {
	out := c
	if c.Input != nil {
		in := *c.Input
		in.IndexDepths = append([]int(nil), c.Input.IndexDepths...)
		out.Input = &in
	}
	out.Paragraphs = append([]ParagraphMutation(nil), c.Paragraphs...)
	out.Updates = append([]ParagraphUpdate(nil), c.Updates...)
	return out
}
