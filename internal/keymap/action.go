package keymap

// Action represents a command or operation to be performed by the editor.
type Action int

const (
	// --- Meta Actions ---
	ActionUnknown Action = iota // Default/invalid action
	ActionQuit
	ActionSave

	// --- Caret Movement ---
	ActionMoveUp   // Previous paragraph
	ActionMoveDown // Next paragraph
	ActionMoveLeft
	ActionMoveRight
	ActionMoveHome // Start of paragraph
	ActionMoveEnd  // End of paragraph

	// --- Editing ---
	ActionInsertRune         // Requires Rune argument
	ActionInsertParagraph    // Enter splits the paragraph
	ActionDeleteCharBackward // Backspace
	ActionPaste

	// --- History ---
	ActionUndo
	ActionRedo
)

var actionNames = map[Action]string{
	ActionQuit:               "quit",
	ActionSave:               "save",
	ActionMoveUp:             "move-up",
	ActionMoveDown:           "move-down",
	ActionMoveLeft:           "move-left",
	ActionMoveRight:          "move-right",
	ActionMoveHome:           "move-home",
	ActionMoveEnd:            "move-end",
	ActionInsertRune:         "insert-rune",
	ActionInsertParagraph:    "insert-paragraph",
	ActionDeleteCharBackward: "delete-backward",
	ActionPaste:              "paste",
	ActionUndo:               "undo",
	ActionRedo:               "redo",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// ActionEvent represents a decoded input event resulting in an action.
type ActionEvent struct {
	Action Action
	Rune   rune // Used for ActionInsertRune
}
