package store

import (
	"sync"

	"corkboard-cli/internal/model"
)

// Handoff is a session-scoped stash for passing a pre-fetched board payload
// from a navigation action to the view that mounts next, so the first render
// does not pay for a redundant fetch. Entries are consumed exactly once.
type Handoff struct {
	mu     sync.Mutex
	boards map[string]model.Board
}

func NewHandoff() *Handoff {
	return &Handoff{boards: map[string]model.Board{}}
}

func (h *Handoff) Put(boardID string, b model.Board) {
	h.mu.Lock()
	h.boards[boardID] = b.Clone()
	h.mu.Unlock()
}

// Take removes and returns the stashed board, if any.
func (h *Handoff) Take(boardID string) (model.Board, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	b, ok := h.boards[boardID]
	if ok {
		delete(h.boards, boardID)
	}
	return b, ok
}
