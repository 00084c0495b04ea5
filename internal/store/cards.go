package store

import (
	"context"
	"sync"
	"time"

	"corkboard-cli/internal/model"
	"corkboard-cli/internal/remote"
)

// AddCard appends an optimistic card with a temp id to the target column,
// then swaps in the server-assigned card or rolls back.
func (s *Store) AddCard(ctx context.Context, boardID, columnID string, draft remote.CardDraft) (model.Card, error) {
	var created model.Card
	err := s.mutate(boardID, func(snap model.Board) error {
		if snap.FindColumn(columnID) == nil || IsTempID(columnID) {
			return nil
		}

		next := snap.Clone()
		col := next.FindColumn(columnID)
		tmp := model.Card{
			ID:          NewTempID("card"),
			Title:       draft.Title,
			Description: draft.Description,
			Assignee:    draft.Assignee,
			Position:    len(col.Cards),
			CreatedAt:   time.Now().UTC(),
		}
		col.Cards = append(col.Cards, tmp)
		s.commit(boardID, next)

		card, err := s.remote.CreateCard(ctx, boardID, columnID, draft)
		if err != nil {
			s.commit(boardID, snap)
			return err
		}

		cur := s.snapshot(boardID)
		if c, idx, ok := cur.FindCard(tmp.ID); ok {
			if card.CreatedAt.IsZero() {
				card.CreatedAt = c.Cards[idx].CreatedAt
			}
			c.Cards[idx] = card
			c.Cards[idx].Position = idx
			created = c.Cards[idx].Clone()
		}
		s.commit(boardID, cur)
		return nil
	})
	return created, err
}

// UpdateCard patches a card optimistically. The columnID argument is only a
// hint: the card's true column is re-derived by scanning, since a concurrent
// move may have relocated it. A patch carrying a different ColumnID moves the
// card to the end of that column (the move-via-edit path, distinct from
// MoveCard).
func (s *Store) UpdateCard(ctx context.Context, boardID, columnID, cardID string, patch remote.CardPatch) error {
	_ = columnID
	return s.mutate(boardID, func(snap model.Board) error {
		if IsTempID(cardID) {
			return nil
		}
		srcCol, srcIdx, ok := snap.FindCard(cardID)
		if !ok {
			return nil
		}

		// Omitted label fields default to the current values so a partial
		// patch never clears them server-side.
		existing := srcCol.Cards[srcIdx]
		if patch.LabelIDs == nil && existing.LabelIDs != nil {
			ids := append([]string(nil), existing.LabelIDs...)
			patch.LabelIDs = &ids
		}
		if patch.HighlightLabelID == nil && existing.HighlightLabelID != nil {
			id := *existing.HighlightLabelID
			patch.HighlightLabelID = &id
		}

		next := snap.Clone()
		col, idx, _ := next.FindCard(cardID)
		applyCardPatch(&col.Cards[idx], patch)

		if patch.ColumnID != nil && *patch.ColumnID != col.ID {
			dest := next.FindColumn(*patch.ColumnID)
			if dest == nil {
				return nil
			}
			moved := col.Cards[idx].Clone()
			col.Cards = spliceCardOut(col.Cards, idx)
			reindexCards(col.Cards)
			moved.Position = len(dest.Cards)
			dest.Cards = append(dest.Cards, moved)
		}
		s.commit(boardID, next)

		updated, err := s.remote.UpdateCard(ctx, boardID, cardID, patch)
		if err != nil {
			s.commit(boardID, snap)
			return err
		}

		// Merge authoritative fields but keep the locally-set position: the
		// server's echoed position would flash a visible reorder.
		cur := s.snapshot(boardID)
		if c, i, ok := cur.FindCard(cardID); ok {
			pos := c.Cards[i].Position
			createdAt := c.Cards[i].CreatedAt
			c.Cards[i] = updated
			c.Cards[i].Position = pos
			if c.Cards[i].CreatedAt.IsZero() {
				c.Cards[i].CreatedAt = createdAt
			}
		}
		s.commit(boardID, cur)
		return nil
	})
}

// DeleteCard removes the card only after the remote delete succeeds, same as
// DeleteColumn: destructive actions are not applied optimistically.
func (s *Store) DeleteCard(ctx context.Context, boardID, columnID, cardID string) error {
	_ = columnID
	return s.mutate(boardID, func(snap model.Board) error {
		if IsTempID(cardID) {
			return nil
		}
		if _, _, ok := snap.FindCard(cardID); !ok {
			return nil
		}
		if err := s.remote.DeleteCard(ctx, boardID, cardID); err != nil {
			return err
		}
		cur := s.snapshot(boardID)
		if col, idx, ok := cur.FindCard(cardID); ok {
			col.Cards = spliceCardOut(col.Cards, idx)
			reindexCards(col.Cards)
		}
		s.commit(boardID, cur)
		return nil
	})
}

// MoveCard transfers the card at sourceIndex to destIndex. destIndex must
// already account for the source removal when staying in the same column;
// that adjustment is the caller's job (see the move package).
//
// Same-column moves settle with a single reorder call. Cross-column moves
// issue three calls in parallel (card update, source reorder, destination
// reorder); any failure rolls the whole move back, even though the backend
// calls are not transactional.
func (s *Store) MoveCard(ctx context.Context, boardID, sourceColumnID, destColumnID string, sourceIndex, destIndex int) error {
	return s.mutate(boardID, func(snap model.Board) error {
		src := snap.FindColumn(sourceColumnID)
		dst := snap.FindColumn(destColumnID)
		if src == nil || dst == nil {
			return nil
		}
		if sourceIndex < 0 || sourceIndex >= len(src.Cards) {
			return nil
		}
		moved := src.Cards[sourceIndex]
		if IsTempID(moved.ID) {
			return nil
		}

		next := snap.Clone()
		nsrc := next.FindColumn(sourceColumnID)
		ndst := next.FindColumn(destColumnID) // same pointer as nsrc when moving within one column
		card := nsrc.Cards[sourceIndex].Clone()
		nsrc.Cards = spliceCardOut(nsrc.Cards, sourceIndex)
		ndst.Cards = spliceCardIn(ndst.Cards, destIndex, card)
		reindexCards(nsrc.Cards)
		reindexCards(ndst.Cards)
		s.commit(boardID, next)

		if sourceColumnID == destColumnID {
			if err := s.remote.ReorderCards(ctx, boardID, destColumnID, cardRefs(ndst.Cards)); err != nil {
				s.commit(boardID, snap)
				return err
			}
			return nil
		}

		finalIdx := 0
		for i := range ndst.Cards {
			if ndst.Cards[i].ID == card.ID {
				finalIdx = i
				break
			}
		}

		var wg sync.WaitGroup
		errs := make([]error, 3)
		wg.Add(3)
		go func() {
			defer wg.Done()
			pos := finalIdx
			colID := destColumnID
			_, errs[0] = s.remote.UpdateCard(ctx, boardID, card.ID, remote.CardPatch{ColumnID: &colID, Position: &pos})
		}()
		go func() {
			defer wg.Done()
			errs[1] = s.remote.ReorderCards(ctx, boardID, sourceColumnID, cardRefs(nsrc.Cards))
		}()
		go func() {
			defer wg.Done()
			errs[2] = s.remote.ReorderCards(ctx, boardID, destColumnID, cardRefs(ndst.Cards))
		}()
		wg.Wait()

		for _, err := range errs {
			if err != nil {
				// All-or-nothing from the client's perspective. A partial
				// remote failure can leave the backend diverged from what we
				// redisplay; the next poll resolves it.
				s.commit(boardID, snap)
				return err
			}
		}
		return nil
	})
}

func cardRefs(cards []model.Card) []remote.CardRef {
	refs := make([]remote.CardRef, len(cards))
	for i := range cards {
		refs[i] = remote.CardRef{ID: cards[i].ID, Position: i}
	}
	return refs
}

func applyCardPatch(c *model.Card, p remote.CardPatch) {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Assignee != nil {
		c.Assignee = *p.Assignee
	}
	if p.LabelIDs != nil {
		c.LabelIDs = append([]string(nil), (*p.LabelIDs)...)
	}
	if p.HighlightLabelID != nil {
		id := *p.HighlightLabelID
		c.HighlightLabelID = &id
	}
	if p.IsCompleted != nil {
		c.IsCompleted = *p.IsCompleted
	}
}
