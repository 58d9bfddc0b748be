package history

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/bethropolis/stylo/internal/dom"
	"github.com/bethropolis/stylo/internal/event"
	"github.com/bethropolis/stylo/internal/logger"
)

// Manager is the undo/redo engine of an editing session. It records changes
// into its Store and replays them against the live container.
//
// Undo and Redo must not run concurrently with each other or with an edit;
// the caller serializes them (the terminal front end runs everything on its
// event loop).
type Manager struct {
	store    *Store
	eventMgr *event.Manager
}

// NewManager creates a history manager keeping at most limit undo entries
// (0 keeps everything).
func NewManager(limit int) *Manager {
	return &Manager{store: NewStore(limit)}
}

// SetEventManager sets the bus notified after every history change.
func (m *Manager) SetEventManager(em *event.Manager) {
	m.eventMgr = em
}

// Store exposes the underlying stacks.
func (m *Manager) Store() *Store { return m.store }

// RecordInputChange records a text value change of container's content.
func (m *Manager) RecordInputChange(container *dom.Node, data InputData) {
	data.IndexDepths = append([]int(nil), data.IndexDepths...)
	m.push(Change{Type: InputChange, Target: container, Input: &data})
}

// RecordParagraphChange records paragraph insertions and removals.
func (m *Manager) RecordParagraphChange(container *dom.Node, changes []ParagraphMutation) {
	m.push(Change{Type: ParagraphChange, Target: container, Paragraphs: changes})
}

// RecordUpdateChange records in-place paragraph replacements. An empty list
// records nothing.
func (m *Manager) RecordUpdateChange(container *dom.Node, paragraphs []ParagraphUpdate) {
	if len(paragraphs) == 0 {
		return
	}
	m.push(Change{Type: UpdateChange, Target: container, Updates: paragraphs})
}

func (m *Manager) push(change Change) {
	m.store.PushUndo(change)
	m.notify("")
}

// PeekNextUndo returns the change Undo would revert.
func (m *Manager) PeekNextUndo() (Change, bool) { return m.store.PeekNextUndo() }

// PeekNextRedo returns the change Redo would reapply.
func (m *Manager) PeekNextRedo() (Change, bool) { return m.store.PeekNextRedo() }

// CanUndo returns true if there are changes that can be undone.
func (m *Manager) CanUndo() bool {
	_, ok := m.store.PeekNextUndo()
	return ok
}

// CanRedo returns true if there are changes that can be redone.
func (m *Manager) CanRedo() bool {
	_, ok := m.store.PeekNextRedo()
	return ok
}

// Clear resets both stacks. Call this on document load.
func (m *Manager) Clear() {
	m.store.Clear()
	m.notify("")
}

// Undo reverts the last recorded change and pushes its inverse onto the redo
// stack. An empty undo stack is a no-op. Structural drift is repaired rather
// than reported; the only error is ctx ending while a mutation is awaited.
func (m *Manager) Undo(ctx context.Context) error {
	change, ok := m.store.PeekNextUndo()
	if !ok {
		logger.Debugf("History: Nothing to undo.")
		return nil
	}
	return m.undoRedo(ctx, event.SourceUndo, change,
		func() {
			undo := m.store.Undo()
			m.store.ReplaceUndo(undo[:len(undo)-1])
		},
		func(inverse Change) {
			m.store.ReplaceRedo(append(m.store.Redo(), inverse))
		})
}

// Redo reapplies the last undone change and pushes its inverse back onto the
// undo stack, leaving the rest of the redo stack intact.
func (m *Manager) Redo(ctx context.Context) error {
	change, ok := m.store.PeekNextRedo()
	if !ok {
		logger.Debugf("History: Nothing to redo.")
		return nil
	}
	return m.undoRedo(ctx, event.SourceRedo, change,
		func() {
			redo := m.store.Redo()
			m.store.ReplaceRedo(redo[:len(redo)-1])
		},
		func(inverse Change) {
			m.store.ReplaceUndo(append(m.store.Undo(), inverse))
		})
}

func (m *Manager) undoRedo(ctx context.Context, source event.Source, change Change, popFrom func(), pushTo func(Change)) error {
	logger.DebugTagf("history", "%s: applying %s change", source, change.Type)

	var (
		inverse Change
		err     error
	)
	switch change.Type {
	case InputChange:
		inverse, err = m.applyInput(ctx, change)
	case ParagraphChange:
		inverse, err = m.applyParagraphs(ctx, change)
	case UpdateChange:
		inverse, err = m.applyUpdates(ctx, change)
	default:
		logger.Warnf("History: dropping change of unknown type %d", change.Type)
		popFrom()
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s %s change: %w", source, change.Type, err)
	}

	pushTo(inverse)
	popFrom()
	m.notify(source)
	return nil
}

func (m *Manager) applyInput(ctx context.Context, change Change) (Change, error) {
	container := change.Target
	data := *change.Input

	paragraph := container.Child(data.Index)
	text := dom.FindNodeAtDepths(paragraph, data.IndexDepths)

	if !text.IsText() {
		// Rebuild the missing text under the closest surviving parent.
		var parent *dom.Node
		if len(data.IndexDepths) <= 1 {
			parent = paragraph
			if text != nil {
				parent = text.Parent()
			}
		} else {
			parent = dom.FindNodeAtDepths(paragraph, data.IndexDepths[:len(data.IndexDepths)-1])
		}

		var err error
		if parent == nil || parent.IsText() {
			base := paragraph
			if base == nil {
				base = container
			}
			if parent, err = createLast(ctx, container, base); err != nil {
				return Change{}, err
			}
		}
		if text, err = prependText(ctx, container, parent); err != nil {
			return Change{}, err
		}
		logger.DebugTagf("history", "input target %v missing in paragraph %d, recreated", data.IndexDepths, data.Index)
	}

	previousValue, err := updateNodeValue(ctx, container, text, data.OldValue)
	if err != nil {
		return Change{}, err
	}

	oldLen := utf8.RuneCountInString(data.OldValue)
	caret := min(data.Offset, oldLen, text.Len())
	container.Document().MoveCursorToOffset(text, caret)

	return Change{
		Type:   InputChange,
		Target: container,
		Input: &InputData{
			Index:       data.Index,
			IndexDepths: data.IndexDepths,
			OldValue:    previousValue,
			Offset:      data.Offset + (utf8.RuneCountInString(previousValue) - oldLen),
		},
	}, nil
}

func (m *Manager) applyParagraphs(ctx context.Context, change Change) (Change, error) {
	container := change.Target
	to := make([]ParagraphMutation, 0, len(change.Paragraphs))

	for _, p := range change.Paragraphs {
		var inverse ParagraphMutation
		switch p.Mutation {
		case Add:
			if err := removeNode(ctx, container, p.Index); err != nil {
				return Change{}, err
			}
			inverse = ParagraphMutation{OuterHTML: p.OuterHTML, Index: p.Index, Mutation: Remove}
		case Remove:
			inserted, err := insertNode(ctx, container, p.Index, p.OuterHTML)
			if err != nil {
				return Change{}, err
			}
			if !inserted {
				// Nothing was inserted; no inverse entry.
				continue
			}
			inverse = ParagraphMutation{OuterHTML: p.OuterHTML, Index: p.Index, Mutation: Add}
		default:
			continue
		}
		to = append([]ParagraphMutation{inverse}, to...)
	}

	return Change{Type: ParagraphChange, Target: container, Paragraphs: to}, nil
}

func (m *Manager) applyUpdates(ctx context.Context, change Change) (Change, error) {
	container := change.Target
	to := make([]ParagraphUpdate, 0, len(change.Updates))

	for _, u := range change.Updates {
		previousOuterHTML, err := updateNode(ctx, container, u.Index, u.OuterHTML, len(change.Updates) == 1)
		if err != nil {
			return Change{}, err
		}
		to = append(to, ParagraphUpdate{Index: u.Index, OuterHTML: previousOuterHTML})
	}

	return Change{Type: UpdateChange, Target: container, Updates: to}, nil
}

// notify publishes the stack sizes and, for undo/redo, the modification.
func (m *Manager) notify(source event.Source) {
	if m.eventMgr == nil {
		return
	}
	undo, redo := m.store.Counts()
	m.eventMgr.Dispatch(event.TypeHistoryChanged, event.HistoryChangedData{UndoCount: undo, RedoCount: redo})
	if source != "" {
		m.eventMgr.Dispatch(event.TypeDocumentModified, event.DocumentModifiedData{Source: source})
	}
}
