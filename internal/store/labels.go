package store

import (
	"context"

	"corkboard-cli/internal/model"
	"corkboard-cli/internal/remote"
)

// Label edits are low-frequency, so they follow the remote-first pattern of
// UpdateColumn rather than the optimistic one.

func (s *Store) AddLabel(ctx context.Context, boardID, name, color string) (model.Label, error) {
	var created model.Label
	err := s.mutate(boardID, func(snap model.Board) error {
		label, err := s.remote.CreateLabel(ctx, boardID, remote.LabelDraft{Name: name, Color: color})
		if err != nil {
			return err
		}
		cur := s.snapshot(boardID)
		cur.Labels = append(cur.Labels, label)
		s.commit(boardID, cur)
		created = label
		return nil
	})
	return created, err
}

func (s *Store) UpdateLabel(ctx context.Context, boardID, labelID, name, color string) error {
	return s.mutate(boardID, func(snap model.Board) error {
		if snap.FindLabel(labelID) == nil || IsTempID(labelID) {
			return nil
		}
		updated, err := s.remote.UpdateLabel(ctx, boardID, labelID, remote.LabelDraft{Name: name, Color: color})
		if err != nil {
			return err
		}
		cur := s.snapshot(boardID)
		if l := cur.FindLabel(labelID); l != nil {
			*l = updated
		}
		s.commit(boardID, cur)
		return nil
	})
}

// DeleteLabel removes the label locally after the remote delete. References
// from columns and cards are cascade-cleared by the backend; the client picks
// the cleared references up on the next sync rather than guessing.
func (s *Store) DeleteLabel(ctx context.Context, boardID, labelID string) error {
	return s.mutate(boardID, func(snap model.Board) error {
		if snap.FindLabel(labelID) == nil || IsTempID(labelID) {
			return nil
		}
		if err := s.remote.DeleteLabel(ctx, boardID, labelID); err != nil {
			return err
		}
		cur := s.snapshot(boardID)
		labels := make([]model.Label, 0, len(cur.Labels))
		for _, l := range cur.Labels {
			if l.ID == labelID {
				continue
			}
			labels = append(labels, l)
		}
		cur.Labels = labels
		s.commit(boardID, cur)
		return nil
	})
}
