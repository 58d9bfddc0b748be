package tui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/bethropolis/stylo/internal/config"
	"github.com/bethropolis/stylo/internal/editor"
	"github.com/bethropolis/stylo/internal/logger"
)

// Styles are the styles the document is drawn with.
type Styles struct {
	Default tcell.Style
	Gutter  tcell.Style
	Heading tcell.Style
	Quote   tcell.Style
	Code    tcell.Style
}

func DefaultStyles() Styles {
	return Styles{
		Default: tcell.StyleDefault,
		Gutter:  tcell.StyleDefault.Foreground(tcell.ColorGray),
		Heading: tcell.StyleDefault.Bold(true),
		Quote:   tcell.StyleDefault.Italic(true).Foreground(tcell.ColorSilver),
		Code:    tcell.StyleDefault.Foreground(tcell.ColorGreen),
	}
}

func (s Styles) forTag(tag string) tcell.Style {
	switch tag {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return s.Heading
	case "blockquote":
		return s.Quote
	case "pre", "code":
		return s.Code
	default:
		return s.Default
	}
}

// gutterWidth fits the longest paragraph tag plus a separator.
const gutterWidth = len("blockquote") + 2

// Viewport is the first paragraph and first column on screen.
type Viewport struct {
	Top  int
	Left int
}

// Scroll adjusts vp so the caret cell is visible in a width x height text area.
func (vp *Viewport) Scroll(caretLine, caretCol, width, height int) {
	if caretLine < vp.Top {
		vp.Top = caretLine
	} else if caretLine >= vp.Top+height {
		vp.Top = caretLine - height + 1
	}
	if caretCol < vp.Left {
		vp.Left = caretCol
	} else if caretCol >= vp.Left+width {
		vp.Left = caretCol - width + 1
	}
	vp.Top, vp.Left = max(0, vp.Top), max(0, vp.Left)
}

// calculateVisualColumn returns the display width of the first runeIndex runes of str.
func calculateVisualColumn(str string, runeIndex int) int {
	if runeIndex <= 0 {
		return 0
	}
	visualWidth := 0
	currentRuneIndex := 0

	gr := uniseg.NewGraphemes(str)
	for gr.Next() {
		if currentRuneIndex >= runeIndex {
			break
		}
		visualWidth += gr.Width()
		currentRuneIndex += len(gr.Runes())
	}
	return visualWidth
}

// DrawDocument draws one paragraph per line, its tag in the gutter, and
// places the terminal cursor on the caret.
func DrawDocument(t *TUI, ed *editor.Editor, vp *Viewport) {
	width, height := t.Size()
	viewHeight := height - config.StatusBarHeight
	textWidth := width - gutterWidth
	if viewHeight <= 0 || textWidth <= 0 {
		return
	}

	paragraphs := ed.Paragraphs()
	caretLine, caretOffset := ed.CaretPosition()
	caretCol := 0
	if caretLine >= 0 && caretLine < len(paragraphs) {
		caretCol = calculateVisualColumn(paragraphs[caretLine].Text, caretOffset)
	}
	vp.Scroll(max(caretLine, 0), caretCol, textWidth, viewHeight)

	for y := 0; y < viewHeight; y++ {
		i := vp.Top + y
		if i >= len(paragraphs) {
			break
		}
		p := paragraphs[i]
		drawString(t.screen, 0, y, gutterWidth, padRight(p.Tag, gutterWidth-2)+"│ ", t.styles.Gutter, 0)
		drawString(t.screen, gutterWidth, y, textWidth, p.Text, t.styles.forTag(p.Tag), vp.Left)
	}

	if caretLine < 0 {
		t.screen.ShowCursor(gutterWidth, 0)
		return
	}
	x, y := gutterWidth+caretCol-vp.Left, caretLine-vp.Top
	if y >= 0 && y < viewHeight {
		t.screen.ShowCursor(x, y)
	} else {
		logger.DebugTagf("draw", "caret line %d outside viewport top %d", caretLine, vp.Top)
		t.screen.HideCursor()
	}
}

// drawString draws str at (x, y), skipping skip columns and clipping at width.
func drawString(s tcell.Screen, x, y, width int, str string, style tcell.Style, skip int) {
	col := 0
	gr := uniseg.NewGraphemes(str)
	for gr.Next() {
		w := gr.Width()
		if col >= skip {
			if col-skip+w > width {
				return
			}
			runes := gr.Runes()
			s.SetContent(x+col-skip, y, runes[0], runes[1:], style)
		}
		col += w
	}
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s[:n]
	}
	return s + strings.Repeat(" ", n-len(s))
}
