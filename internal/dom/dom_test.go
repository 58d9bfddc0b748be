package dom

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDoc(t *testing.T, markup string) *Document {
	t.Helper()
	d := NewDocument("div")
	require.NoError(t, d.Root().SetInnerHTML(markup))
	return d
}

func TestMarkupRoundTrip(t *testing.T) {
	tests := []string{
		`<p>A</p>`,
		`<p>A</p><p>B</p>`,
		`<ul><li>one</li><li>two <b>bold</b></li></ul>`,
		`<p class="x" data-id="1">a &amp; b</p>`,
	}
	for _, markup := range tests {
		t.Run(markup, func(t *testing.T) {
			d := newDoc(t, markup)
			assert.Equal(t, markup, d.Root().InnerHTML())
		})
	}
}

func TestChildrenSkipText(t *testing.T) {
	d := newDoc(t, `x<p>A</p>y<p>B</p>`)
	root := d.Root()

	assert.Equal(t, 4, root.ChildCount())
	assert.Equal(t, 2, root.ElementCount())
	assert.Equal(t, "B", root.Child(1).TextContent())
	assert.Nil(t, root.Child(2))
	assert.Equal(t, 1, root.Child(1).ElementIndex())
	assert.Equal(t, 3, root.Child(1).Index())
}

func TestFindNodeAtDepths(t *testing.T) {
	d := newDoc(t, `<ul><li>one</li><li>two</li></ul>`)
	list := d.Root().Child(0)

	text := FindNodeAtDepths(list, []int{1, 0})
	require.NotNil(t, text)
	assert.True(t, text.IsText())
	assert.Equal(t, "two", text.Value())
	assert.Equal(t, []int{1, 0}, Depths(list, text))

	assert.Nil(t, FindNodeAtDepths(list, []int{2, 0}))
	assert.Nil(t, FindNodeAtDepths(list, nil))
	assert.Nil(t, FindNodeAtDepths(nil, []int{0}))
}

func TestSetOuterHTMLReplacesInPlace(t *testing.T) {
	d := newDoc(t, `<p>A</p><p>B</p><p>C</p>`)
	nodes, err := d.Root().Child(1).SetOuterHTML(`<h1>X</h1>`)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, `<p>A</p><h1>X</h1><p>C</p>`, d.Root().InnerHTML())
}

func TestInsertAdjacentHTML(t *testing.T) {
	d := newDoc(t, `<p>A</p><p>B</p>`)
	_, err := d.Root().Child(0).InsertAdjacentHTML(AfterEnd, `<p>C</p>`)
	require.NoError(t, err)
	assert.Equal(t, `<p>A</p><p>C</p><p>B</p>`, d.Root().InnerHTML())

	_, err = d.Root().Child(0).InsertAdjacentHTML("nowhere", `<p>D</p>`)
	assert.Error(t, err)
}

func TestHierarchyErrors(t *testing.T) {
	d := newDoc(t, `<p>A</p>`)
	p := d.Root().Child(0)
	assert.ErrorIs(t, p.AppendChild(d.Root()), ErrHierarchy)
	assert.ErrorIs(t, p.FirstChild().AppendChild(d.CreateTextNode("x")), ErrHierarchy)
	assert.ErrorIs(t, d.CreateElement("p").Remove(), ErrNotAttached)
}

func TestObserverDeliversBatch(t *testing.T) {
	d := newDoc(t, `<p>A</p>`)
	got := make(chan []MutationRecord, 1)
	obs := NewMutationObserver(func(records []MutationRecord, o *MutationObserver) {
		o.Disconnect()
		got <- records
	})
	obs.Observe(d.Root(), ObserveOptions{ChildList: true, CharacterData: true, Subtree: true})

	d.Root().Child(0).FirstChild().SetValue("B")

	select {
	case records := <-got:
		require.NotEmpty(t, records)
		assert.Equal(t, CharacterData, records[0].Type)
		assert.Equal(t, "A", records[0].OldValue)
	case <-time.After(time.Second):
		t.Fatal("no mutation delivered")
	}
}

func TestObserverFiltersByOptions(t *testing.T) {
	d := newDoc(t, `<p>A</p>`)
	got := make(chan []MutationRecord, 4)
	obs := NewMutationObserver(func(records []MutationRecord, _ *MutationObserver) {
		got <- records
	})
	defer obs.Disconnect()
	// Not subtree: the text change happens below the root.
	obs.Observe(d.Root(), ObserveOptions{CharacterData: true})

	d.Root().Child(0).FirstChild().SetValue("B")

	select {
	case <-got:
		t.Fatal("unexpected delivery")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDeleteContentsAcrossParagraphs(t *testing.T) {
	d := newDoc(t, `<p>A</p><p>B</p><p>CD<b>E</b></p>`)
	root := d.Root()
	end := root.Child(2).FirstChild()

	r := &Range{StartContainer: root, StartOffset: 0, EndContainer: end, EndOffset: 1}
	r.DeleteContents()

	assert.Equal(t, `<p>D<b>E</b></p>`, root.InnerHTML())
	assert.True(t, r.Collapsed())
}

func TestDeleteContentsInsideText(t *testing.T) {
	d := newDoc(t, `<p>hello</p>`)
	text := d.Root().Child(0).FirstChild()

	r := &Range{StartContainer: text, StartOffset: 1, EndContainer: text, EndOffset: 3}
	r.DeleteContents()

	assert.Equal(t, "hlo", text.Value())
}

func TestCaretHelpers(t *testing.T) {
	d := newDoc(t, `<p>ab<b>cd</b></p><p></p>`)
	p := d.Root().Child(0)

	d.MoveCursorToEnd(p)
	node, offset := d.Caret()
	assert.Equal(t, "cd", node.Value())
	assert.Equal(t, 2, offset)
	assert.Equal(t, 4, TextOffset(p, node, offset))

	node, offset = PositionAt(p, 1)
	assert.Equal(t, "ab", node.Value())
	assert.Equal(t, 1, offset)

	d.MoveCursorToEnd(d.Root().Child(1))
	node, offset = d.Caret()
	assert.Equal(t, d.Root().Child(1), node)
	assert.Equal(t, 0, offset)

	d.MoveCursorToOffset(p.FirstChild(), 99)
	_, offset = d.Caret()
	assert.Equal(t, 2, offset)
}

func TestIsStartNode(t *testing.T) {
	d := newDoc(t, `<p><b>ab</b>cd</p>`)
	root := d.Root()
	p := root.Child(0)

	assert.True(t, IsStartNode(root, p.FirstChild().FirstChild()))
	assert.False(t, IsStartNode(root, p.ChildNode(1)))
	assert.False(t, IsStartNode(root, root))
	assert.Equal(t, p, FindParagraph(root, p.ChildNode(1)))
}

func TestSanitizerKeepsParagraphs(t *testing.T) {
	policy := NewSanitizer([]string{"p", "h1"})
	out := policy.Sanitize(`<h1>T</h1><p onclick="x()">a<script>bad()</script></p><table><tr><td>c</td></tr></table>`)
	assert.Contains(t, out, "<h1>T</h1>")
	assert.Contains(t, out, "<p>a</p>")
	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "<table>")
}
