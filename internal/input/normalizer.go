package input

import (
	"context"
	"fmt"
	"strings"

	"github.com/bethropolis/stylo/internal/config"
	"github.com/bethropolis/stylo/internal/dom"
	"github.com/bethropolis/stylo/internal/event"
	"github.com/bethropolis/stylo/internal/history"
	"github.com/bethropolis/stylo/internal/logger"
	"github.com/bethropolis/stylo/internal/mutation"
)

// Normalizer rewrites input events that would leave the container in a shape
// change records cannot describe, and runs the autoformat transformers.
type Normalizer struct {
	container    *dom.Node
	cfg          config.EditorConfig
	history      *history.Manager
	eventMgr     *event.Manager
	transformers []Transformer

	lastKey string
}

// NewNormalizer creates a normalizer for container recording into h.
func NewNormalizer(container *dom.Node, cfg config.EditorConfig, h *history.Manager) *Normalizer {
	return &Normalizer{
		container:    container,
		cfg:          cfg,
		history:      h,
		transformers: DefaultTransformers(),
	}
}

// SetEventManager sets the bus notified of normalized edits.
func (n *Normalizer) SetEventManager(em *event.Manager) {
	n.eventMgr = em
}

// SetTransformers replaces the autoformat transformers.
func (n *Normalizer) SetTransformers(transformers []Transformer) {
	n.transformers = transformers
}

// OnBeforeInput runs the normalization steps in order. A step that cancels
// the event ends the chain, the later steps would act on a stale caret.
func (n *Normalizer) OnBeforeInput(ctx context.Context, ev *BeforeInputEvent) error {
	steps := []func(context.Context, *BeforeInputEvent) error{
		n.preventTextLeaves,
		n.deleteContentBackward,
		n.transformInput,
	}
	for _, step := range steps {
		if err := step(ctx, ev); err != nil {
			return err
		}
		if ev.DefaultPrevented() {
			n.lastKey = ""
			return nil
		}
	}
	return nil
}

// preventTextLeaves wraps text typed directly under the container into a new
// paragraph instead of letting it become a child of the container.
func (n *Normalizer) preventTextLeaves(ctx context.Context, ev *BeforeInputEvent) error {
	doc := n.container.Document()
	r := doc.Selection()
	if r.StartContainer != n.container || ev.Data == "" {
		return nil
	}

	target := dom.FindNodeAtDepths(n.container, []int{r.StartOffset})
	if target.IsElement() && n.cfg.IsTextParagraph(target.NodeName()) {
		return nil
	}

	ev.PreventDefault()

	paragraph := doc.CreateElement(n.cfg.DefaultParagraph)
	if err := paragraph.AppendChild(doc.CreateTextNode(ev.Data)); err != nil {
		return err
	}
	ref := n.container.ChildNode(r.StartOffset)
	if _, err := mutation.Await(ctx, n.container, mutation.Structure, func() error {
		return n.container.InsertBefore(paragraph, ref)
	}); err != nil {
		return fmt.Errorf("wrapping text leaf: %w", err)
	}

	n.history.RecordParagraphChange(n.container, []history.ParagraphMutation{{
		OuterHTML: paragraph.OuterHTML(),
		Index:     paragraph.ElementIndex(),
		Mutation:  history.Add,
	}})
	doc.MoveCursorToEnd(paragraph)

	logger.DebugTagf("input", "wrapped %q into new <%s> at %d", ev.Data, paragraph.NodeName(), paragraph.ElementIndex())
	n.eventMgr.Dispatch(event.TypeDocumentModified, event.DocumentModifiedData{Source: event.SourceInput})
	return nil
}

// deleteContentBackward aligns a backward delete of a selection spanning
// paragraphs on the paragraph boundary, so whole paragraphs are replaced
// instead of split mid-structure.
func (n *Normalizer) deleteContentBackward(ctx context.Context, ev *BeforeInputEvent) error {
	if ev.Type != DeleteContentBackward {
		return nil
	}

	doc := n.container.Document()
	r := doc.Selection()
	if r.Collapsed() || r.CommonAncestor() != n.container {
		return nil
	}

	if r.StartOffset == 1 && r.StartContainer.IsText() &&
		strings.HasPrefix(r.StartContainer.Value(), string(config.ZeroWidthSpace)) {
		r.SetStart(r.StartContainer, 0)
	}

	if r.StartOffset > 0 {
		return nil
	}
	if !dom.IsStartNode(n.container, r.StartContainer) {
		return nil
	}
	paragraph := dom.FindParagraph(n.container, r.StartContainer)
	if paragraph == nil || !paragraph.IsElement() {
		return nil
	}

	from := paragraph.ElementIndex()
	end := dom.FindParagraph(n.container, r.EndContainer)
	to := lastParagraphIndex(n.container, r, end)

	removed := make([]history.ParagraphMutation, 0, to-from+1)
	for i := from; i <= to; i++ {
		removed = append(removed, history.ParagraphMutation{
			OuterHTML: n.container.Child(i).OuterHTML(),
			Index:     i,
			Mutation:  history.Remove,
		})
	}

	r.SetStart(n.container, paragraph.Index())
	ev.PreventDefault()

	if _, err := mutation.Await(ctx, n.container, mutation.All, func() error {
		r.DeleteContents()
		return nil
	}); err != nil {
		return fmt.Errorf("deleting selection: %w", err)
	}

	// The paragraph holding the selection end survives, truncated, at from.
	var changes []history.ParagraphMutation
	if end.IsElement() && end.Parent() == n.container {
		changes = append(changes, history.ParagraphMutation{OuterHTML: end.OuterHTML(), Index: from, Mutation: history.Add})
		doc.MoveCursorToStart(end)
	}
	n.history.RecordParagraphChange(n.container, append(changes, removed...))

	logger.DebugTagf("input", "deleted paragraphs %d..%d", from, to)
	n.eventMgr.Dispatch(event.TypeDocumentModified, event.DocumentModifiedData{Source: event.SourceInput})
	return nil
}

// lastParagraphIndex returns the element index of the last paragraph touched
// by r. end is the paragraph holding the range end, nil when the range ends
// on the container itself.
func lastParagraphIndex(container *dom.Node, r *dom.Range, end *dom.Node) int {
	if end.IsElement() {
		return end.ElementIndex()
	}
	nodes := container.ChildNodes()
	last := -1
	for _, c := range nodes[:min(r.EndOffset, len(nodes))] {
		if c.IsElement() {
			last = c.ElementIndex()
		}
	}
	return last
}
