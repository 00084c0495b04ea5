package store

import (
	"context"
	"sync"

	"corkboard-cli/internal/model"
	"corkboard-cli/internal/remote"
)

// AddColumn appends an optimistic column with a temp id, then swaps in the
// server-assigned column on success or removes the temp column on failure.
func (s *Store) AddColumn(ctx context.Context, boardID, title string) (model.Column, error) {
	var created model.Column
	err := s.mutate(boardID, func(snap model.Board) error {
		next := snap.Clone()
		tmp := model.Column{
			ID:       NewTempID("col"),
			Title:    title,
			Position: len(next.Columns),
			Cards:    []model.Card{},
		}
		next.Columns = append(next.Columns, tmp)
		s.commit(boardID, next)

		col, err := s.remote.CreateColumn(ctx, boardID, title)
		if err != nil {
			s.commit(boardID, snap)
			return err
		}

		// Re-derive current state: the optimistic window may have seen other
		// boards change, but this board is serialized by the mutation lock.
		cur := s.snapshot(boardID)
		if c := cur.FindColumn(tmp.ID); c != nil {
			cards := c.Cards // server does not echo cards; keep the local (empty) list
			pos := c.Position
			*c = col
			c.Cards = cards
			if c.Cards == nil {
				c.Cards = []model.Card{}
			}
			// Keep the locally computed dense position; the server's echo
			// would break the 0..N-1 permutation among siblings.
			c.Position = pos
			created = c.Clone()
		}
		s.commit(boardID, cur)
		return nil
	})
	return created, err
}

// UpdateColumn is deliberately not optimistic: column metadata edits are low
// frequency and blocking is acceptable. The patch lands locally only after
// the server accepts it.
func (s *Store) UpdateColumn(ctx context.Context, boardID, columnID string, patch remote.ColumnPatch) error {
	return s.mutate(boardID, func(snap model.Board) error {
		if snap.FindColumn(columnID) == nil || IsTempID(columnID) {
			return nil // UI-state race, not a user error
		}
		updated, err := s.remote.UpdateColumn(ctx, boardID, columnID, patch)
		if err != nil {
			return err
		}
		cur := s.snapshot(boardID)
		if c := cur.FindColumn(columnID); c != nil {
			if patch.Title != nil {
				c.Title = updated.Title
			}
			if patch.LabelID != nil {
				c.LabelID = updated.LabelID
			}
			if patch.Position != nil {
				c.Position = updated.Position
			}
		}
		s.commit(boardID, cur)
		return nil
	})
}

// DeleteColumn removes the column only after the remote delete succeeds.
// Optimistic removal would flash the column's cards away and back on failure.
func (s *Store) DeleteColumn(ctx context.Context, boardID, columnID string) error {
	return s.mutate(boardID, func(snap model.Board) error {
		if snap.FindColumn(columnID) == nil || IsTempID(columnID) {
			return nil
		}
		if err := s.remote.DeleteColumn(ctx, boardID, columnID); err != nil {
			return err
		}
		cur := s.snapshot(boardID)
		cols := make([]model.Column, 0, len(cur.Columns))
		for _, c := range cur.Columns {
			if c.ID == columnID {
				continue
			}
			cols = append(cols, c)
		}
		cur.Columns = cols
		reindexColumns(cur.Columns)
		s.commit(boardID, cur)
		return nil
	})
}

// MoveColumn reorders columns optimistically, then updates the position of
// every column that actually moved, in parallel. Any failure rolls the whole
// move back.
func (s *Store) MoveColumn(ctx context.Context, boardID string, sourceIndex, destIndex int) error {
	return s.mutate(boardID, func(snap model.Board) error {
		n := len(snap.Columns)
		if sourceIndex < 0 || sourceIndex >= n || destIndex < 0 || destIndex >= n {
			return nil
		}
		if sourceIndex == destIndex {
			return nil
		}

		next := snap.Clone()
		moved := next.Columns[sourceIndex]
		rest := append([]model.Column{}, next.Columns[:sourceIndex]...)
		rest = append(rest, next.Columns[sourceIndex+1:]...)
		cols := append([]model.Column{}, rest[:destIndex]...)
		cols = append(cols, moved)
		cols = append(cols, rest[destIndex:]...)
		reindexColumns(cols)
		next.Columns = cols
		s.commit(boardID, next)

		// Skip no-ops: only columns whose position changed need a remote call.
		type posUpdate struct {
			columnID string
			position int
		}
		var updates []posUpdate
		for _, c := range next.Columns {
			old := snap.FindColumn(c.ID)
			if old == nil || old.Position != c.Position {
				if IsTempID(c.ID) {
					continue
				}
				updates = append(updates, posUpdate{columnID: c.ID, position: c.Position})
			}
		}

		var wg sync.WaitGroup
		errs := make([]error, len(updates))
		for i, u := range updates {
			wg.Add(1)
			go func(i int, u posUpdate) {
				defer wg.Done()
				p := u.position
				_, errs[i] = s.remote.UpdateColumn(ctx, boardID, u.columnID, remote.ColumnPatch{Position: &p})
			}(i, u)
		}
		wg.Wait()
		for _, err := range errs {
			if err != nil {
				s.commit(boardID, snap)
				return err
			}
		}
		return nil
	})
}
