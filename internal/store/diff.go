package store

import "corkboard-cli/internal/model"

// boardsEqual is the poller's structural comparison. It checks the fields
// that drive rendering: board name, column ids/positions, and per-card
// id/position/title/description/assignee/completion. Two equal fetches must
// produce no store write, so this comparison gates every poll commit.
func boardsEqual(a, b model.Board) bool {
	if a.Name != b.Name {
		return false
	}
	if len(a.Columns) != len(b.Columns) {
		return false
	}
	for i := range a.Columns {
		if !columnsEqual(a.Columns[i], b.Columns[i]) {
			return false
		}
	}
	if len(a.Labels) != len(b.Labels) {
		return false
	}
	for i := range a.Labels {
		if a.Labels[i] != b.Labels[i] {
			return false
		}
	}
	return true
}

func columnsEqual(a, b model.Column) bool {
	if a.ID != b.ID || a.Title != b.Title || a.Position != b.Position {
		return false
	}
	if !strPtrEqual(a.LabelID, b.LabelID) {
		return false
	}
	if len(a.Cards) != len(b.Cards) {
		return false
	}
	for i := range a.Cards {
		if !cardsEqual(a.Cards[i], b.Cards[i]) {
			return false
		}
	}
	return true
}

func cardsEqual(a, b model.Card) bool {
	if a.ID != b.ID || a.Position != b.Position {
		return false
	}
	if a.Title != b.Title || a.Description != b.Description || a.Assignee != b.Assignee {
		return false
	}
	if a.IsCompleted != b.IsCompleted {
		return false
	}
	if !strPtrEqual(a.HighlightLabelID, b.HighlightLabelID) {
		return false
	}
	if len(a.LabelIDs) != len(b.LabelIDs) {
		return false
	}
	for i := range a.LabelIDs {
		if a.LabelIDs[i] != b.LabelIDs[i] {
			return false
		}
	}
	return true
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
