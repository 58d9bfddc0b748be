package history

import (
	"sync"

	"github.com/bethropolis/stylo/internal/logger"
)

// Store holds the undo and redo stacks. It has no behaviour beyond storage:
// popping one stack and pushing the inverse onto the other is composed by the
// Manager through ReplaceUndo and ReplaceRedo.
type Store struct {
	mutex sync.Mutex
	undo  []Change
	redo  []Change
	limit int // 0 keeps everything
}

// NewStore creates an empty store keeping at most limit undo entries.
func NewStore(limit int) *Store {
	if limit < 0 {
		limit = 0
	}
	return &Store{limit: limit}
}

// PushUndo appends a new user edit and invalidates the redo stack.
func (s *Store) PushUndo(change Change) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.undo = append(s.undo, change.clone())
	if s.limit > 0 && len(s.undo) > s.limit {
		s.undo = append([]Change(nil), s.undo[len(s.undo)-s.limit:]...)
	}
	s.redo = nil

	logger.Debugf("History: pushed %s change, undo=%d", change.Type, len(s.undo))
}

// PeekNextUndo returns the tail of the undo stack.
func (s *Store) PeekNextUndo() (Change, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return peek(s.undo)
}

// PeekNextRedo returns the tail of the redo stack.
func (s *Store) PeekNextRedo() (Change, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return peek(s.redo)
}

func peek(changes []Change) (Change, bool) {
	if len(changes) == 0 {
		return Change{}, false
	}
	return changes[len(changes)-1].clone(), true
}

// Undo returns a copy of the undo stack, oldest first.
func (s *Store) Undo() []Change {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return cloneAll(s.undo)
}

// Redo returns a copy of the redo stack, oldest first.
func (s *Store) Redo() []Change {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return cloneAll(s.redo)
}

// ReplaceUndo swaps the whole undo stack.
func (s *Store) ReplaceUndo(changes []Change) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.undo = cloneAll(changes)
}

// ReplaceRedo swaps the whole redo stack.
func (s *Store) ReplaceRedo(changes []Change) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.redo = cloneAll(changes)
}

// Counts returns the sizes of both stacks.
func (s *Store) Counts() (undo, redo int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.undo), len(s.redo)
}

// Clear empties both stacks. Call this on document load.
func (s *Store) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.undo, s.redo = nil, nil
	logger.Debugf("History: cleared")
}

func cloneAll(changes []Change) []Change {
	if len(changes) == 0 {
		return nil
	}
	out := make([]Change, len(changes))
	for i, c := range changes {
		out[i] = c.clone()
	}
	return out
}
