package store

import "sync"

// EditSession marks an open edit surface (e.g. the card edit dialog) that may
// hold unsaved local changes. While any session on a board is dirty, the
// poller's merge skips that board instead of silently overwriting the edits.
//
// This replaces per-consumer ad hoc dirty flags with one registry the merge
// step can query.
type EditSession struct {
	reg     *SessionRegistry
	boardID string

	mu    sync.Mutex
	dirty bool
	ended bool
}

type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[*EditSession]struct{}
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: map[*EditSession]struct{}{}}
}

// Begin registers a new edit session for a board. Call End when the surface
// closes, whether or not it saved.
func (r *SessionRegistry) Begin(boardID string) *EditSession {
	es := &EditSession{reg: r, boardID: boardID}
	r.mu.Lock()
	r.sessions[es] = struct{}{}
	r.mu.Unlock()
	return es
}

// Dirty reports whether any live session on the board has unsaved changes.
func (r *SessionRegistry) Dirty(boardID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for es := range r.sessions {
		if es.boardID != boardID {
			continue
		}
		es.mu.Lock()
		d := es.dirty
		es.mu.Unlock()
		if d {
			return true
		}
	}
	return false
}

func (es *EditSession) MarkDirty() {
	es.mu.Lock()
	if !es.ended {
		es.dirty = true
	}
	es.mu.Unlock()
}

// ClearDirty is called after the session's changes are saved (or discarded).
func (es *EditSession) ClearDirty() {
	es.mu.Lock()
	es.dirty = false
	es.mu.Unlock()
}

func (es *EditSession) End() {
	es.mu.Lock()
	es.dirty = false
	es.ended = true
	es.mu.Unlock()

	es.reg.mu.Lock()
	delete(es.reg.sessions, es)
	es.reg.mu.Unlock()
}
