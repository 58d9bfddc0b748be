package app

import (
	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/stylo/internal/keymap"
	"github.com/bethropolis/stylo/internal/logger"
)

// handleKey applies the action bound to ev and reports whether the screen
// needs a redraw.
func (a *App) handleKey(ev *tcell.EventKey) bool {
	actionEvent := a.inputProcessor.ProcessEvent(ev)
	ed := a.editor

	var err error
	switch actionEvent.Action {
	case keymap.ActionQuit:
		a.Quit()
		return false
	case keymap.ActionSave:
		if err = ed.Save(); err == nil {
			a.statusBar.SetTemporaryMessage("Saved %s", ed.FilePath())
		}
	case keymap.ActionMoveUp:
		ed.MoveUp()
	case keymap.ActionMoveDown:
		ed.MoveDown()
	case keymap.ActionMoveLeft:
		ed.MoveLeft()
	case keymap.ActionMoveRight:
		ed.MoveRight()
	case keymap.ActionMoveHome:
		ed.MoveHome()
	case keymap.ActionMoveEnd:
		ed.MoveEnd()
	case keymap.ActionInsertRune:
		err = ed.InsertText(a.ctx, string(actionEvent.Rune))
	case keymap.ActionInsertParagraph:
		err = ed.InsertParagraph(a.ctx)
	case keymap.ActionDeleteCharBackward:
		err = ed.DeleteBackward(a.ctx)
	case keymap.ActionPaste:
		err = a.paste()
	case keymap.ActionUndo:
		if !ed.History().CanUndo() {
			a.statusBar.SetTemporaryMessage("Nothing to undo")
		}
		err = ed.Undo(a.ctx)
	case keymap.ActionRedo:
		if !ed.History().CanRedo() {
			a.statusBar.SetTemporaryMessage("Nothing to redo")
		}
		err = ed.Redo(a.ctx)
	default:
		return false
	}

	if err != nil {
		logger.Errorf("App: %s failed: %v", actionEvent.Action, err)
		a.statusBar.SetTemporaryMessage("Error: %v", err)
	}
	return true
}

func (a *App) paste() error {
	text, err := a.readClipboard()
	if err != nil {
		return err
	}
	if text == "" {
		a.statusBar.SetTemporaryMessage("Clipboard is empty")
		return nil
	}
	return a.editor.Paste(a.ctx, text)
}
