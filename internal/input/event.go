// Package input normalizes input events before they reach the document.
package input

// InputType is the kind of edit a BeforeInputEvent announces.
type InputType string

const (
	InsertText            InputType = "insertText"
	InsertParagraph       InputType = "insertParagraph"
	InsertFromPaste       InputType = "insertFromPaste"
	DeleteContentBackward InputType = "deleteContentBackward"
)

// BeforeInputEvent announces an edit that has not been applied yet. Handlers
// cancel the default action with PreventDefault when they applied the edit
// themselves.
type BeforeInputEvent struct {
	Type InputType
	Data string // typed or pasted text, empty for structural edits

	prevented bool
}

// NewBeforeInputEvent creates an event of type t carrying data.
func NewBeforeInputEvent(t InputType, data string) *BeforeInputEvent {
	return &BeforeInputEvent{Type: t, Data: data}
}

func (e *BeforeInputEvent) PreventDefault() { e.prevented = true }

func (e *BeforeInputEvent) DefaultPrevented() bool { return e.prevented }
