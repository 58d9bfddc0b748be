package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/stylo/internal/config"
	"github.com/bethropolis/stylo/internal/tui"
)

func newTestApp(t *testing.T, markup string) *App {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.html")
	require.NoError(t, os.WriteFile(path, []byte(markup), 0o644))

	s := tcell.NewSimulationScreen("UTF-8")
	tuiManager, err := tui.NewWithScreen(s)
	require.NoError(t, err)
	s.SetSize(60, 6)
	t.Cleanup(tuiManager.Close)

	a, err := newApp(config.NewDefaultConfig(), tuiManager, path)
	require.NoError(t, err)
	t.Cleanup(a.cancel)
	return a
}

func key(k tcell.Key, r rune) *tcell.EventKey {
	return tcell.NewEventKey(k, r, tcell.ModNone)
}

func TestTypingAndUndoThroughKeys(t *testing.T) {
	a := newTestApp(t, `<p>hel</p>`)
	a.editor.SetCaret(0, 3)

	assert.True(t, a.handleKey(key(tcell.KeyRune, 'l')))
	assert.True(t, a.handleKey(key(tcell.KeyRune, 'o')))
	assert.Equal(t, `<p>hello</p>`, a.editor.HTML())

	a.handleKey(key(tcell.KeyCtrlZ, 0))
	assert.Equal(t, `<p>hell</p>`, a.editor.HTML())

	a.handleKey(key(tcell.KeyCtrlY, 0))
	assert.Equal(t, `<p>hello</p>`, a.editor.HTML())

	text, _ := a.statusBar.Text()
	assert.Contains(t, text, "Undo: 2 Redo: 0")
}

func TestUndoOnEmptyHistoryReports(t *testing.T) {
	a := newTestApp(t, `<p>a</p>`)

	a.handleKey(key(tcell.KeyCtrlZ, 0))

	text, temporary := a.statusBar.Text()
	assert.True(t, temporary)
	assert.Equal(t, "Nothing to undo", text)
	assert.Equal(t, `<p>a</p>`, a.editor.HTML())
}

func TestPasteUsesClipboard(t *testing.T) {
	a := newTestApp(t, `<p>ab</p>`)
	a.readClipboard = func() (string, error) { return "x\ny", nil }
	a.editor.SetCaret(0, 1)

	a.handleKey(key(tcell.KeyCtrlV, 0))

	assert.Equal(t, `<p>ax yb</p>`, a.editor.HTML())
}

func TestSaveWritesFile(t *testing.T) {
	a := newTestApp(t, `<p>a</p>`)
	a.editor.SetCaret(0, 1)
	a.handleKey(key(tcell.KeyRune, 'b'))

	a.handleKey(key(tcell.KeyCtrlS, 0))

	content, err := os.ReadFile(a.editor.FilePath())
	require.NoError(t, err)
	assert.Equal(t, "<p>ab</p>\n", string(content))
	assert.False(t, a.editor.IsModified())
}

func TestQuitClosesChannel(t *testing.T) {
	a := newTestApp(t, `<p>a</p>`)

	assert.False(t, a.handleKey(key(tcell.KeyEscape, 0)))
	a.Quit()

	select {
	case <-a.quit:
	default:
		t.Fatal("quit channel still open")
	}
}

func TestDrawEditorShowsStatusBar(t *testing.T) {
	a := newTestApp(t, `<h1>Title</h1>`)
	a.drawEditor()

	screen := a.tuiManager.GetScreen()
	_, h := screen.Size()
	r, _, _, _ := screen.GetContent(0, h-1)
	assert.NotEqual(t, ' ', r)
}
