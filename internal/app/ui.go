package app

import (
	"github.com/bethropolis/stylo/internal/event"
	"github.com/bethropolis/stylo/internal/logger"
	"github.com/bethropolis/stylo/internal/tui"
)

// subscribe keeps the status bar in step with the session.
func (a *App) subscribe() {
	a.eventManager.Subscribe(event.TypeHistoryChanged, func(e event.Event) bool {
		if data, ok := e.Data.(event.HistoryChangedData); ok {
			a.statusBar.SetHistoryInfo(data.UndoCount, data.RedoCount)
		}
		return false
	})
	a.eventManager.Subscribe(event.TypeCaretMoved, func(e event.Event) bool {
		if data, ok := e.Data.(event.CaretMovedData); ok {
			a.statusBar.SetCaretInfo(data.Paragraph, a.editor.Container().ElementCount(), data.Offset)
		}
		return false
	})
	a.eventManager.Subscribe(event.TypeInputTransformed, func(e event.Event) bool {
		if data, ok := e.Data.(event.InputTransformedData); ok {
			a.statusBar.SetTemporaryMessage("Formatted as %s", data.Name)
		}
		return false
	})
	a.eventManager.Subscribe(event.TypeDocumentLoaded, func(e event.Event) bool {
		if data, ok := e.Data.(event.DocumentLoadedData); ok {
			logger.DebugTagf("app", "document loaded: %d paragraph(s)", data.Paragraphs)
		}
		a.requestRedraw()
		return false
	})
}

// drawEditor clears the screen and redraws all components.
func (a *App) drawEditor() {
	a.updateStatusBarContent()

	screen := a.tuiManager.GetScreen()
	width, height := a.tuiManager.Size()

	a.tuiManager.Clear()
	tui.DrawDocument(a.tuiManager, a.editor, &a.viewport)
	a.statusBar.Draw(screen, width, height)
	a.tuiManager.Show()
}

// updateStatusBarContent pushes current editor state to the status bar component.
func (a *App) updateStatusBarContent() {
	a.statusBar.SetFileInfo(a.editor.FilePath(), a.editor.IsModified())
	paragraph, offset := a.editor.CaretPosition()
	a.statusBar.SetCaretInfo(paragraph, a.editor.Container().ElementCount(), offset)
	undo, redo := a.editor.History().Store().Counts()
	a.statusBar.SetHistoryInfo(undo, redo)
}
