package input

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/stylo/internal/config"
	"github.com/bethropolis/stylo/internal/dom"
	"github.com/bethropolis/stylo/internal/event"
	"github.com/bethropolis/stylo/internal/history"
)

type fixture struct {
	doc  *dom.Document
	root *dom.Node
	h    *history.Manager
	n    *Normalizer
}

func newFixture(t *testing.T, markup string) *fixture {
	t.Helper()
	doc := dom.NewDocument("div")
	require.NoError(t, doc.Root().SetInnerHTML(markup))
	h := history.NewManager(0)
	return &fixture{doc: doc, root: doc.Root(), h: h, n: NewNormalizer(doc.Root(), config.NewDefaultEditorConfig(), h)}
}

func (f *fixture) fire(t *testing.T, typ InputType, data string) *BeforeInputEvent {
	t.Helper()
	ev := NewBeforeInputEvent(typ, data)
	require.NoError(t, f.n.OnBeforeInput(context.Background(), ev))
	return ev
}

func TestTextAtRootIsWrapped(t *testing.T) {
	f := newFixture(t, `<p>A</p>`)
	f.doc.MoveCursorToOffset(f.root, 1)

	ev := f.fire(t, InsertText, "x")

	assert.True(t, ev.DefaultPrevented())
	assert.Equal(t, `<p>A</p><div>x</div>`, f.root.InnerHTML())
	node, offset := f.doc.Caret()
	assert.Equal(t, "x", node.Value())
	assert.Equal(t, 1, offset)

	require.NoError(t, f.h.Undo(context.Background()))
	assert.Equal(t, `<p>A</p>`, f.root.InnerHTML())
}

func TestTextBeforeParagraphIsLeftAlone(t *testing.T) {
	f := newFixture(t, `<p>A</p>`)
	f.doc.MoveCursorToOffset(f.root, 0)

	ev := f.fire(t, InsertText, "x")

	assert.False(t, ev.DefaultPrevented())
	assert.False(t, f.h.CanUndo())
}

func TestStructuralEventAtRootIsLeftAlone(t *testing.T) {
	f := newFixture(t, `<p>A</p>`)
	f.doc.MoveCursorToOffset(f.root, 1)

	ev := f.fire(t, InsertParagraph, "")
	assert.False(t, ev.DefaultPrevented())
}

func selectRange(doc *dom.Document, start *dom.Node, so int, end *dom.Node, eo int) {
	r := doc.Selection()
	r.SetStart(start, so)
	r.SetEnd(end, eo)
}

func TestBackspaceAcrossParagraphs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, `<p>A</p><p>B</p><p>CD</p>`)
	selectRange(f.doc, f.root.Child(0).FirstChild(), 0, f.root.Child(2).FirstChild(), 1)

	ev := f.fire(t, DeleteContentBackward, "")

	assert.True(t, ev.DefaultPrevented())
	assert.Equal(t, `<p>D</p>`, f.root.InnerHTML())
	node, offset := f.doc.Caret()
	assert.Equal(t, "D", node.Value())
	assert.Equal(t, 0, offset)

	require.NoError(t, f.h.Undo(ctx))
	assert.Equal(t, `<p>A</p><p>B</p><p>CD</p>`, f.root.InnerHTML())
	require.NoError(t, f.h.Redo(ctx))
	assert.Equal(t, `<p>D</p>`, f.root.InnerHTML())
}

func TestBackspaceSkipsZeroWidthSpace(t *testing.T) {
	f := newFixture(t, "<p>\u200bab</p><p>cd</p>")
	selectRange(f.doc, f.root.Child(0).FirstChild(), 1, f.root.Child(1).FirstChild(), 1)

	ev := f.fire(t, DeleteContentBackward, "")

	assert.True(t, ev.DefaultPrevented())
	assert.Equal(t, `<p>d</p>`, f.root.InnerHTML())
}

func TestBackspaceInsideParagraphIsLeftAlone(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		setup  func(f *fixture)
	}{
		{"collapsed caret", `<p>AB</p>`, func(f *fixture) {
			f.doc.MoveCursorToOffset(f.root.Child(0).FirstChild(), 1)
		}},
		{"selection in one paragraph", `<p>AB</p>`, func(f *fixture) {
			text := f.root.Child(0).FirstChild()
			selectRange(f.doc, text, 0, text, 2)
		}},
		{"not at paragraph start", `<p>AB</p><p>C</p>`, func(f *fixture) {
			selectRange(f.doc, f.root.Child(0).FirstChild(), 1, f.root.Child(1).FirstChild(), 1)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.markup)
			tt.setup(f)
			before := f.root.InnerHTML()

			ev := f.fire(t, DeleteContentBackward, "")

			assert.False(t, ev.DefaultPrevented())
			assert.Equal(t, before, f.root.InnerHTML())
			assert.False(t, f.h.CanUndo())
		})
	}
}

func TestTransformers(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		caret  int
		keys   []string
		want   string
	}{
		{"h1", `<p>#hello</p>`, 1, []string{"#", " "}, `<h1>hello</h1>`},
		{"h2", `<p>##</p>`, 2, []string{"#", " "}, `<h2></h2>`},
		{"bullet", `<p>-item</p>`, 1, []string{"-", " "}, `<ul><li>item</li></ul>`},
		{"ordered", `<p>1.</p>`, 2, []string{".", " "}, `<ol><li></li></ol>`},
		{"quote", `<p>&gt;</p>`, 1, []string{">", " "}, `<blockquote></blockquote>`},
		{"code", "<p>``</p>", 2, []string{"`", "`"}, `<pre><code></code></pre>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.markup)
			f.doc.MoveCursorToOffset(f.root.Child(0).FirstChild(), tt.caret)

			var ev *BeforeInputEvent
			for _, key := range tt.keys {
				ev = f.fire(t, InsertText, key)
			}

			assert.True(t, ev.DefaultPrevented())
			assert.Equal(t, tt.want, f.root.InnerHTML())

			require.NoError(t, f.h.Undo(context.Background()))
			assert.Equal(t, tt.markup, f.root.InnerHTML())
		})
	}
}

func TestTransformNeedsPreviousKey(t *testing.T) {
	f := newFixture(t, `<p>#</p>`)
	f.doc.MoveCursorToOffset(f.root.Child(0).FirstChild(), 1)

	ev := f.fire(t, InsertText, " ")

	assert.False(t, ev.DefaultPrevented())
	assert.Equal(t, `<p>#</p>`, f.root.InnerHTML())
}

func TestTransformDisabled(t *testing.T) {
	f := newFixture(t, `<p>#</p>`)
	cfg := config.NewDefaultEditorConfig()
	cfg.AutoFormat = false
	f.n = NewNormalizer(f.root, cfg, f.h)
	f.doc.MoveCursorToOffset(f.root.Child(0).FirstChild(), 1)

	f.fire(t, InsertText, "#")
	ev := f.fire(t, InsertText, " ")

	assert.False(t, ev.DefaultPrevented())
}

func TestTransformNotifiesAndRunsHook(t *testing.T) {
	f := newFixture(t, `<p>#</p>`)
	em := event.NewManager()
	f.n.SetEventManager(em)

	var got []event.InputTransformedData
	em.Subscribe(event.TypeInputTransformed, func(e event.Event) bool {
		got = append(got, e.Data.(event.InputTransformedData))
		return false
	})

	var hooked *dom.Node
	transformers := DefaultTransformers()
	transformers[0].PostTransform = func(p *dom.Node) { hooked = p }
	f.n.SetTransformers(transformers)

	f.doc.MoveCursorToOffset(f.root.Child(0).FirstChild(), 1)
	f.fire(t, InsertText, "#")
	f.fire(t, InsertText, " ")

	assert.Equal(t, []event.InputTransformedData{{Name: "h1", Paragraph: 0}}, got)
	require.NotNil(t, hooked)
	assert.Equal(t, "h1", hooked.NodeName())
}
