// Package event provides the synchronous, type-keyed event bus UI code uses
// to follow the editing session.
package event

import "github.com/gdamore/tcell/v2"

// Type identifies the kind of event.
type Type int

const (
	TypeUnknown Type = iota

	// Document events
	TypeDocumentLoaded   // A document replaced the container content
	TypeDocumentModified // The container changed (input, undo, redo, transform)
	TypeCaretMoved       // The caret moved to another position
	TypeInputTransformed // An autoformat transformer rewrote a paragraph

	// History events
	TypeHistoryChanged // Undo or redo stack sizes changed

	// Input events
	TypeKeyPressed // Raw key press forwarded by the terminal front end

	// Application lifecycle
	TypeAppReady
	TypeAppQuit
)

func (t Type) String() string {
	switch t {
	case TypeDocumentLoaded:
		return "DocumentLoaded"
	case TypeDocumentModified:
		return "DocumentModified"
	case TypeCaretMoved:
		return "CaretMoved"
	case TypeInputTransformed:
		return "InputTransformed"
	case TypeHistoryChanged:
		return "HistoryChanged"
	case TypeKeyPressed:
		return "KeyPressed"
	case TypeAppReady:
		return "AppReady"
	case TypeAppQuit:
		return "AppQuit"
	default:
		return "Unknown"
	}
}

// Event is the structure passed through the bus.
type Event struct {
	Type Type
	Data interface{}
}

// Source says what produced a document modification.
type Source string

const (
	SourceInput     Source = "input"
	SourceUndo      Source = "undo"
	SourceRedo      Source = "redo"
	SourceTransform Source = "transform"
)

// DocumentLoadedData carries the origin of the loaded markup.
type DocumentLoadedData struct {
	FilePath   string
	Paragraphs int
}

// DocumentModifiedData tells subscribers who changed the document.
type DocumentModifiedData struct {
	Source Source
}

// CaretMovedData carries the caret as a paragraph index and a rune offset
// inside that paragraph's text.
type CaretMovedData struct {
	Paragraph int
	Offset    int
}

// InputTransformedData names the transformer that fired.
type InputTransformedData struct {
	Name      string
	Paragraph int
}

// HistoryChangedData carries the stack sizes, enough to enable or disable
// undo/redo controls.
type HistoryChangedData struct {
	UndoCount int
	RedoCount int
}

// KeyPressedData contains the raw tcell key event.
type KeyPressedData struct {
	KeyEvent *tcell.EventKey
}

type AppQuitData struct{}

type AppReadyData struct{}
