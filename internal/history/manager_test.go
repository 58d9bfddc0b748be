package history

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/stylo/internal/dom"
	"github.com/bethropolis/stylo/internal/event"
)

func newContainer(t *testing.T, markup string) (*dom.Document, *dom.Node) {
	t.Helper()
	doc := dom.NewDocument("div")
	require.NoError(t, doc.Root().SetInnerHTML(markup))
	return doc, doc.Root()
}

func TestParagraphAddUndoRedo(t *testing.T) {
	ctx := context.Background()
	_, root := newContainer(t, `<p>A</p><p>B</p>`)
	m := NewManager(0)

	_, err := root.Child(0).InsertAdjacentHTML(dom.AfterEnd, `<p>C</p>`)
	require.NoError(t, err)
	m.RecordParagraphChange(root, []ParagraphMutation{{OuterHTML: `<p>C</p>`, Index: 1, Mutation: Add}})

	require.NoError(t, m.Undo(ctx))
	assert.Equal(t, `<p>A</p><p>B</p>`, root.InnerHTML())
	assert.False(t, m.CanUndo())

	next, ok := m.PeekNextRedo()
	require.True(t, ok)
	assert.Equal(t, ParagraphChange, next.Type)
	assert.Equal(t, []ParagraphMutation{{OuterHTML: `<p>C</p>`, Index: 1, Mutation: Remove}}, next.Paragraphs)

	require.NoError(t, m.Redo(ctx))
	assert.Equal(t, `<p>A</p><p>C</p><p>B</p>`, root.InnerHTML())
	assert.False(t, m.CanRedo())

	next, ok = m.PeekNextUndo()
	require.True(t, ok)
	assert.Equal(t, []ParagraphMutation{{OuterHTML: `<p>C</p>`, Index: 1, Mutation: Add}}, next.Paragraphs)
}

func TestParagraphInverseIsReversed(t *testing.T) {
	ctx := context.Background()
	_, root := newContainer(t, `<p>AB</p>`)
	m := NewManager(0)

	// Split "AB" into "A" and "B": add entries first (descending), then the removal.
	require.NoError(t, root.SetInnerHTML(`<p>A</p><p>B</p>`))
	m.RecordParagraphChange(root, []ParagraphMutation{
		{OuterHTML: `<p>B</p>`, Index: 1, Mutation: Add},
		{OuterHTML: `<p>A</p>`, Index: 0, Mutation: Add},
		{OuterHTML: `<p>AB</p>`, Index: 0, Mutation: Remove},
	})

	require.NoError(t, m.Undo(ctx))
	assert.Equal(t, `<p>AB</p>`, root.InnerHTML())

	next, ok := m.PeekNextRedo()
	require.True(t, ok)
	require.Len(t, next.Paragraphs, 3)
	assert.Equal(t, ParagraphMutation{OuterHTML: `<p>AB</p>`, Index: 0, Mutation: Add}, next.Paragraphs[0])
	assert.Equal(t, ParagraphMutation{OuterHTML: `<p>B</p>`, Index: 1, Mutation: Remove}, next.Paragraphs[2])

	require.NoError(t, m.Redo(ctx))
	assert.Equal(t, `<p>A</p><p>B</p>`, root.InnerHTML())
}

func TestInputUndoRedo(t *testing.T) {
	ctx := context.Background()
	doc, root := newContainer(t, `<p>hello</p>`)
	m := NewManager(0)
	text := root.Child(0).FirstChild()

	text.SetValue("helo")
	m.RecordInputChange(root, InputData{Index: 0, IndexDepths: []int{0}, OldValue: "hello", Offset: 3})

	require.NoError(t, m.Undo(ctx))
	assert.Equal(t, "hello", text.Value())
	node, offset := doc.Caret()
	assert.Equal(t, text, node)
	assert.Equal(t, 3, offset)

	next, ok := m.PeekNextRedo()
	require.True(t, ok)
	assert.Equal(t, &InputData{Index: 0, IndexDepths: []int{0}, OldValue: "helo", Offset: 2}, next.Input)

	require.NoError(t, m.Redo(ctx))
	assert.Equal(t, "helo", text.Value())
	_, offset = doc.Caret()
	assert.Equal(t, 2, offset)

	// The inverse of the inverse is the original record.
	next, ok = m.PeekNextUndo()
	require.True(t, ok)
	assert.Equal(t, &InputData{Index: 0, IndexDepths: []int{0}, OldValue: "hello", Offset: 3}, next.Input)
}

func TestInputRoundTrip(t *testing.T) {
	ctx := context.Background()
	doc, root := newContainer(t, `<p>x</p>`)
	m := NewManager(0)
	text := root.Child(0).FirstChild()

	for _, r := range "abc" {
		previous := text.Value()
		text.SetValue(previous + string(r))
		m.RecordInputChange(root, InputData{Index: 0, IndexDepths: []int{0}, OldValue: previous, Offset: len(previous)})
	}
	require.Equal(t, "xabc", text.Value())

	for i := 0; i < 3; i++ {
		require.NoError(t, m.Undo(ctx))
	}
	assert.Equal(t, "x", text.Value())
	_, offset := doc.Caret()
	assert.Equal(t, 1, offset)

	for i := 0; i < 3; i++ {
		require.NoError(t, m.Redo(ctx))
	}
	assert.Equal(t, "xabc", text.Value())
	_, offset = doc.Caret()
	assert.Equal(t, 4, offset)
}

func TestInputRecreatesMissingText(t *testing.T) {
	ctx := context.Background()
	_, root := newContainer(t, `<ul><li>one</li><li>two</li></ul>`)
	m := NewManager(0)

	m.RecordInputChange(root, InputData{Index: 0, IndexDepths: []int{1, 0}, OldValue: "two", Offset: 3})
	require.NoError(t, root.Child(0).Child(1).Remove())

	require.NoError(t, m.Undo(ctx))
	assert.Equal(t, `<ul><li>one</li><li>two</li></ul>`, root.InnerHTML())
}

func TestInputRecreatesMissingParagraph(t *testing.T) {
	ctx := context.Background()
	doc, root := newContainer(t, ``)
	m := NewManager(0)

	m.RecordInputChange(root, InputData{Index: 0, IndexDepths: []int{0}, OldValue: "hi", Offset: 5})

	require.NoError(t, m.Undo(ctx))
	assert.Equal(t, `<span>hi</span>`, root.InnerHTML())
	_, offset := doc.Caret()
	assert.Equal(t, 2, offset)
}

func TestUpdateSingleMovesCaret(t *testing.T) {
	ctx := context.Background()
	doc, root := newContainer(t, `<p>A</p><p>B</p>`)
	m := NewManager(0)

	_, err := root.Child(1).SetOuterHTML(`<h1>B</h1>`)
	require.NoError(t, err)
	m.RecordUpdateChange(root, []ParagraphUpdate{{Index: 1, OuterHTML: `<p>B</p>`}})
	doc.MoveCursorToStart(root.Child(0))

	require.NoError(t, m.Undo(ctx))
	assert.Equal(t, `<p>A</p><p>B</p>`, root.InnerHTML())
	node, offset := doc.Caret()
	assert.Equal(t, root.Child(1).FirstChild(), node)
	assert.Equal(t, 1, offset)

	next, ok := m.PeekNextRedo()
	require.True(t, ok)
	assert.Equal(t, []ParagraphUpdate{{Index: 1, OuterHTML: `<h1>B</h1>`}}, next.Updates)

	require.NoError(t, m.Redo(ctx))
	assert.Equal(t, `<p>A</p><h1>B</h1>`, root.InnerHTML())
}

func TestUpdateBatchKeepsCaret(t *testing.T) {
	ctx := context.Background()
	doc, root := newContainer(t, `<p>A</p><h1>B</h1><h2>C</h2>`)
	m := NewManager(0)

	m.RecordUpdateChange(root, []ParagraphUpdate{
		{Index: 1, OuterHTML: `<p>B</p>`},
		{Index: 2, OuterHTML: `<p>C</p>`},
	})
	anchor := root.Child(0).FirstChild()
	doc.MoveCursorToOffset(anchor, 1)

	require.NoError(t, m.Undo(ctx))
	assert.Equal(t, `<p>A</p><p>B</p><p>C</p>`, root.InnerHTML())
	node, offset := doc.Caret()
	assert.Equal(t, anchor, node)
	assert.Equal(t, 1, offset)
}

func TestEmptyUpdateIsNotRecorded(t *testing.T) {
	_, root := newContainer(t, `<p>A</p>`)
	m := NewManager(0)
	m.RecordUpdateChange(root, nil)
	assert.False(t, m.CanUndo())
}

func TestNewEditClearsRedo(t *testing.T) {
	ctx := context.Background()
	_, root := newContainer(t, `<p>A</p>`)
	m := NewManager(0)

	root.Child(0).FirstChild().SetValue("AB")
	m.RecordInputChange(root, InputData{Index: 0, IndexDepths: []int{0}, OldValue: "A", Offset: 1})
	require.NoError(t, m.Undo(ctx))
	require.True(t, m.CanRedo())

	m.RecordUpdateChange(root, []ParagraphUpdate{{Index: 0, OuterHTML: `<p>A</p>`}})
	assert.False(t, m.CanRedo())
	assert.Len(t, m.Store().Undo(), 1)
}

func TestEmptyStacksAreNoOps(t *testing.T) {
	ctx := context.Background()
	_, root := newContainer(t, `<p>A</p>`)
	m := NewManager(0)

	assert.NoError(t, m.Undo(ctx))
	assert.NoError(t, m.Redo(ctx))
	assert.Equal(t, `<p>A</p>`, root.InnerHTML())
}

func TestIndicesAreClamped(t *testing.T) {
	ctx := context.Background()
	_, root := newContainer(t, `<p>A</p>`)
	m := NewManager(0)

	m.RecordParagraphChange(root, []ParagraphMutation{{OuterHTML: `<p>Z</p>`, Index: 5, Mutation: Remove}})
	require.NoError(t, m.Undo(ctx))
	assert.Equal(t, `<p>A</p><p>Z</p>`, root.InnerHTML())

	m.RecordParagraphChange(root, []ParagraphMutation{{OuterHTML: `<p>Z</p>`, Index: 9, Mutation: Add}})
	require.NoError(t, m.Undo(ctx))
	assert.Equal(t, `<p>A</p>`, root.InnerHTML())
}

func TestInsertIntoEmptyContainer(t *testing.T) {
	ctx := context.Background()
	_, root := newContainer(t, ``)
	m := NewManager(0)

	m.RecordParagraphChange(root, []ParagraphMutation{{OuterHTML: `<p>A</p>`, Index: 0, Mutation: Remove}})
	require.NoError(t, m.Undo(ctx))
	assert.Equal(t, `<p>A</p>`, root.InnerHTML())

	require.NoError(t, m.Redo(ctx))
	assert.Equal(t, ``, root.InnerHTML())

	// Nothing left to remove: the change is consumed without touching the tree.
	m.Clear()
	m.RecordParagraphChange(root, []ParagraphMutation{{OuterHTML: `<p>A</p>`, Index: 0, Mutation: Add}})
	require.NoError(t, m.Undo(ctx))
	assert.Equal(t, ``, root.InnerHTML())
	assert.False(t, m.CanUndo())
	assert.True(t, m.CanRedo())
}

func TestEmptyMarkupInsertHasNoInverse(t *testing.T) {
	ctx := context.Background()
	_, root := newContainer(t, `<p>A</p>`)
	m := NewManager(0)

	m.RecordParagraphChange(root, []ParagraphMutation{{OuterHTML: ``, Index: 0, Mutation: Remove}})
	require.NoError(t, m.Undo(ctx))
	assert.Equal(t, `<p>A</p>`, root.InnerHTML())

	next, ok := m.PeekNextRedo()
	require.True(t, ok)
	assert.Empty(t, next.Paragraphs)

	require.NoError(t, m.Redo(ctx))
	assert.Equal(t, `<p>A</p>`, root.InnerHTML())
}

func TestHistoryChangedEvents(t *testing.T) {
	ctx := context.Background()
	_, root := newContainer(t, `<p>A</p>`)
	m := NewManager(0)
	em := event.NewManager()
	m.SetEventManager(em)

	var counts []event.HistoryChangedData
	var sources []event.Source
	em.Subscribe(event.TypeHistoryChanged, func(e event.Event) bool {
		counts = append(counts, e.Data.(event.HistoryChangedData))
		return false
	})
	em.Subscribe(event.TypeDocumentModified, func(e event.Event) bool {
		sources = append(sources, e.Data.(event.DocumentModifiedData).Source)
		return false
	})

	m.RecordUpdateChange(root, []ParagraphUpdate{{Index: 0, OuterHTML: `<h1>A</h1>`}})
	require.NoError(t, m.Undo(ctx))
	require.NoError(t, m.Redo(ctx))

	assert.Equal(t, []event.HistoryChangedData{
		{UndoCount: 1, RedoCount: 0},
		{UndoCount: 0, RedoCount: 1},
		{UndoCount: 1, RedoCount: 0},
	}, counts)
	assert.Equal(t, []event.Source{event.SourceUndo, event.SourceRedo}, sources)
}
