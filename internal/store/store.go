// Package store holds the client's authoritative in-memory board state and
// the optimistic mutation operations over it.
//
// Every mutation follows the same three-phase protocol:
//
//  1. snapshot the affected board (deep copy)
//  2. optimistically commit the expected next state
//  3. after the remote call settles, reconcile server-assigned values into
//     the optimistic state, or restore the snapshot and re-raise the error
//
// Mutations on the same board are serialized by a per-board mutex so a second
// operation never computes its optimistic base from a mid-flight state.
package store

import (
	"context"
	"sync"

	"corkboard-cli/internal/model"
	"corkboard-cli/internal/remote"
)

// Remote is the subset of the backend API the store drives. *remote.Client
// satisfies it; tests substitute a scriptable fake.
type Remote interface {
	GetBoard(ctx context.Context, boardID string) (model.Board, error)

	CreateColumn(ctx context.Context, boardID, title string) (model.Column, error)
	UpdateColumn(ctx context.Context, boardID, columnID string, patch remote.ColumnPatch) (model.Column, error)
	DeleteColumn(ctx context.Context, boardID, columnID string) error

	CreateCard(ctx context.Context, boardID, columnID string, draft remote.CardDraft) (model.Card, error)
	UpdateCard(ctx context.Context, boardID, cardID string, patch remote.CardPatch) (model.Card, error)
	DeleteCard(ctx context.Context, boardID, cardID string) error
	ReorderCards(ctx context.Context, boardID, columnID string, refs []remote.CardRef) error

	CreateLabel(ctx context.Context, boardID string, draft remote.LabelDraft) (model.Label, error)
	UpdateLabel(ctx context.Context, boardID, labelID string, draft remote.LabelDraft) (model.Label, error)
	DeleteLabel(ctx context.Context, boardID, labelID string) error

	ListComments(ctx context.Context, boardID, cardID string) ([]model.Comment, error)
	CreateComment(ctx context.Context, boardID, cardID, author, content string) (model.Comment, error)
}

// Store is the single shared mutable resource: read by rendering, written by
// mutation operations and the poller. All three converge here.
type Store struct {
	remote Remote

	mu         sync.RWMutex
	boards     map[string]*model.Board
	lastPolled map[string]*model.Board
	comments   map[string][]model.Comment

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex

	sessions *SessionRegistry
	handoff  *Handoff

	notifyMu sync.Mutex
	notify   func(boardID string)
}

func New(r Remote) *Store {
	return &Store{
		remote:     r,
		boards:     map[string]*model.Board{},
		lastPolled: map[string]*model.Board{},
		comments:   map[string][]model.Comment{},
		locks:      map[string]*sync.Mutex{},
		sessions:   NewSessionRegistry(),
		handoff:    NewHandoff(),
	}
}

func (s *Store) Sessions() *SessionRegistry { return s.sessions }
func (s *Store) Handoff() *Handoff          { return s.handoff }

// SetNotify registers a callback invoked (outside the store lock) after every
// committed board change. The TUI uses it to trigger re-renders.
func (s *Store) SetNotify(fn func(boardID string)) {
	s.notifyMu.Lock()
	s.notify = fn
	s.notifyMu.Unlock()
}

// GetBoard returns a deep copy of the board, materializing a default empty
// shape on first access. It never returns a "missing" result.
func (s *Store) GetBoard(boardID string) model.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.boards[boardID]
	if !ok {
		nb := defaultBoard(boardID)
		s.boards[boardID] = &nb
		b = &nb
	}
	return b.Clone()
}

// Hydrate seeds the board map from persisted state. Existing entries win so a
// late rehydrate never clobbers fresher in-memory state.
func (s *Store) Hydrate(boards map[string]model.Board) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, b := range boards {
		if _, ok := s.boards[id]; ok {
			continue
		}
		nb := b.Clone()
		s.boards[id] = &nb
	}
}

// Export returns a deep copy of all cached boards for persistence.
func (s *Store) Export() map[string]model.Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]model.Board, len(s.boards))
	for id, b := range s.boards {
		out[id] = b.Clone()
	}
	return out
}

func defaultBoard(boardID string) model.Board {
	return model.Board{ID: boardID, Columns: []model.Column{}}
}

// boardLock returns the mutation mutex for one board. The poller's merge
// TryLocks it so a background overwrite never lands inside an optimistic
// window.
func (s *Store) boardLock(boardID string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	l, ok := s.locks[boardID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[boardID] = l
	}
	return l
}

// snapshot returns a deep copy of the current board state, materializing the
// default shape if absent so the later rollback has a concrete base.
func (s *Store) snapshot(boardID string) model.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.boards[boardID]
	if !ok {
		nb := defaultBoard(boardID)
		s.boards[boardID] = &nb
		b = &nb
	}
	return b.Clone()
}

// commit replaces the board wholesale and fires the change notification.
func (s *Store) commit(boardID string, b model.Board) {
	nb := b.Clone()
	s.mu.Lock()
	s.boards[boardID] = &nb
	s.mu.Unlock()
	s.fireNotify(boardID)
}

func (s *Store) fireNotify(boardID string) {
	s.notifyMu.Lock()
	fn := s.notify
	s.notifyMu.Unlock()
	if fn != nil {
		fn(boardID)
	}
}

// mutate is the skeleton shared by the per-board mutations: serialize, then
// run the operation against a private snapshot of the current state.
func (s *Store) mutate(boardID string, op func(snap model.Board) error) error {
	l := s.boardLock(boardID)
	l.Lock()
	defer l.Unlock()
	return op(s.snapshot(boardID))
}

// reindexCards rewrites card positions as their array index (dense 0..n-1).
func reindexCards(cards []model.Card) {
	for i := range cards {
		cards[i].Position = i
	}
}

// reindexColumns does the same for a board's columns.
func reindexColumns(cols []model.Column) {
	for i := range cols {
		cols[i].Position = i
	}
}

func spliceCardOut(cards []model.Card, idx int) []model.Card {
	out := make([]model.Card, 0, len(cards)-1)
	out = append(out, cards[:idx]...)
	out = append(out, cards[idx+1:]...)
	return out
}

func spliceCardIn(cards []model.Card, idx int, c model.Card) []model.Card {
	if idx < 0 {
		idx = 0
	}
	if idx > len(cards) {
		idx = len(cards)
	}
	out := make([]model.Card, 0, len(cards)+1)
	out = append(out, cards[:idx]...)
	out = append(out, c)
	out = append(out, cards[idx:]...)
	return out
}
