package input

import (
	"context"
	"fmt"
	"strings"

	"github.com/bethropolis/stylo/internal/dom"
	"github.com/bethropolis/stylo/internal/event"
	"github.com/bethropolis/stylo/internal/history"
	"github.com/bethropolis/stylo/internal/logger"
	"github.com/bethropolis/stylo/internal/mutation"
)

// Transformer turns a markdown-like prefix typed at the start of a paragraph
// into a structural paragraph once its trigger key is typed.
type Transformer struct {
	Name    string
	Prefix  string // paragraph text before the caret when the trigger is typed
	Trigger string // key completing the sequence

	// Build returns the replacement paragraph. text is the content that
	// followed the prefix; leaf is the node the caret lands in.
	Build func(doc *dom.Document, text string) (paragraph, leaf *dom.Node)

	// PostTransform runs after the replacement has been recorded.
	PostTransform func(paragraph *dom.Node)
}

// Match reports whether key completes the sequence. lastKey is the key typed
// just before and must end the prefix.
func (t Transformer) Match(key, lastKey, before string) bool {
	return key == t.Trigger && lastKey != "" && before == t.Prefix && strings.HasSuffix(t.Prefix, lastKey)
}

// wrap builds a tags[0] > tags[1] > ... chain holding text.
func wrap(tags ...string) func(*dom.Document, string) (*dom.Node, *dom.Node) {
	return func(doc *dom.Document, text string) (*dom.Node, *dom.Node) {
		root := doc.CreateElement(tags[0])
		leaf := root
		for _, tag := range tags[1:] {
			child := doc.CreateElement(tag)
			_ = leaf.AppendChild(child)
			leaf = child
		}
		_ = leaf.AppendChild(doc.CreateTextNode(text))
		return root, leaf
	}
}

// DefaultTransformers returns the built-in autoformat shortcuts.
func DefaultTransformers() []Transformer {
	return []Transformer{
		{Name: "h1", Prefix: "#", Trigger: " ", Build: wrap("h1")},
		{Name: "h2", Prefix: "##", Trigger: " ", Build: wrap("h2")},
		{Name: "h3", Prefix: "###", Trigger: " ", Build: wrap("h3")},
		{Name: "ul", Prefix: "-", Trigger: " ", Build: wrap("ul", "li")},
		{Name: "ul", Prefix: "*", Trigger: " ", Build: wrap("ul", "li")},
		{Name: "ol", Prefix: "1.", Trigger: " ", Build: wrap("ol", "li")},
		{Name: "blockquote", Prefix: ">", Trigger: " ", Build: wrap("blockquote")},
		{Name: "code", Prefix: "``", Trigger: "`", Build: wrap("pre", "code")},
	}
}

// transformInput replaces the caret paragraph when the typed key completes a
// transformer sequence. Otherwise it remembers the key for the next event.
func (n *Normalizer) transformInput(ctx context.Context, ev *BeforeInputEvent) error {
	key := ev.Data
	if !n.cfg.AutoFormat || ev.Type != InsertText {
		n.lastKey = key
		return nil
	}

	doc := n.container.Document()
	node, offset := doc.Caret()
	paragraph := dom.FindParagraph(n.container, node)
	if !paragraph.IsElement() {
		n.lastKey = key
		return nil
	}
	caret := dom.TextOffset(paragraph, node, offset)
	content := []rune(paragraph.TextContent())
	before := string(content[:min(caret, len(content))])

	var transformer *Transformer
	for i := range n.transformers {
		if n.transformers[i].Match(key, n.lastKey, before) {
			transformer = &n.transformers[i]
			break
		}
	}
	if transformer == nil {
		n.lastKey = key
		return nil
	}

	ev.PreventDefault()

	index := paragraph.ElementIndex()
	previousOuterHTML := paragraph.OuterHTML()
	replacement, leaf := transformer.Build(doc, string(content[len([]rune(before)):]))

	if _, err := mutation.Await(ctx, n.container, mutation.Structure, func() error {
		return paragraph.ReplaceWith(replacement)
	}); err != nil {
		return fmt.Errorf("transforming %s: %w", transformer.Name, err)
	}

	n.history.RecordUpdateChange(n.container, []history.ParagraphUpdate{{Index: index, OuterHTML: previousOuterHTML}})
	doc.MoveCursorToStart(leaf)

	logger.DebugTagf("input", "transformer %s applied to paragraph %d", transformer.Name, index)
	n.eventMgr.Dispatch(event.TypeInputTransformed, event.InputTransformedData{Name: transformer.Name, Paragraph: index})
	n.eventMgr.Dispatch(event.TypeDocumentModified, event.DocumentModifiedData{Source: event.SourceTransform})

	if transformer.PostTransform != nil {
		transformer.PostTransform(replacement)
	}
	n.lastKey = ""
	return nil
}
