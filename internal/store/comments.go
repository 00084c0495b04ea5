package store

import (
	"context"

	"corkboard-cli/internal/model"
)

// Comments are append-only and fetched on demand; they are cached beside the
// board aggregate, not inside it.

func commentsKey(boardID, cardID string) string {
	return boardID + "|" + cardID
}

// Comments returns the cached comment list for a card (possibly empty; call
// RefreshComments to populate it).
func (s *Store) Comments(boardID, cardID string) []model.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cached := s.comments[commentsKey(boardID, cardID)]
	return append([]model.Comment(nil), cached...)
}

// RefreshComments fetches the card's comments and commits them only when the
// list actually changed, mirroring the board poller's no-op suppression.
func (s *Store) RefreshComments(ctx context.Context, boardID, cardID string) (bool, error) {
	if IsTempID(cardID) {
		return false, nil
	}
	fetched, err := s.remote.ListComments(ctx, boardID, cardID)
	if err != nil {
		return false, err
	}

	key := commentsKey(boardID, cardID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if commentsEqual(s.comments[key], fetched) {
		return false, nil
	}
	s.comments[key] = append([]model.Comment(nil), fetched...)
	return true, nil
}

// AddComment is remote-first: comments are cheap to wait for and an
// optimistic placeholder would need its own temp-id reconciliation.
func (s *Store) AddComment(ctx context.Context, boardID, cardID, author, content string) (model.Comment, error) {
	if IsTempID(cardID) {
		return model.Comment{}, nil
	}
	created, err := s.remote.CreateComment(ctx, boardID, cardID, author, content)
	if err != nil {
		return model.Comment{}, err
	}

	key := commentsKey(boardID, cardID)
	s.mu.Lock()
	s.comments[key] = append(s.comments[key], created)
	s.mu.Unlock()
	return created, nil
}

func commentsEqual(a, b []model.Comment) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Content != b[i].Content || a[i].Author != b[i].Author {
			return false
		}
	}
	return true
}
