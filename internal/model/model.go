package model

import "time"

// Board is the top-level kanban aggregate: a named, ordered set of columns
// plus the board-scoped label palette. One Board per board id.
type Board struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Columns []Column    `json:"columns"`
	Labels  []Label     `json:"labels,omitempty"`
	Filters *FilterSpec `json:"filters,omitempty"`
}

// Column is an ordered lane of cards. Position is a dense 0-based rank among
// sibling columns (best-effort during optimistic windows).
type Column struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Position int     `json:"position"`
	Cards    []Card  `json:"cards"`
	LabelID  *string `json:"labelId,omitempty"`
}

// Card is a single task unit. A card lives in exactly one column's card list
// at any settled point; Position is its dense rank within that column.
type Card struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	Assignee         string    `json:"assignee,omitempty"`
	Position         int       `json:"position"`
	LabelIDs         []string  `json:"labelIds,omitempty"`
	HighlightLabelID *string   `json:"highlightLabelId,omitempty"`
	IsCompleted      bool      `json:"isCompleted"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Label is owned by its board and referenced by id from columns and cards.
// Deleting a label cascade-clears references server-side; the client trusts
// server state on the next sync.
type Label struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"` // 6 hex digits, no leading '#'
}

// Comment is an append-only entry on a card. Comments are fetched on demand
// and are not part of the Board aggregate.
type Comment struct {
	ID        string    `json:"id"`
	CardID    string    `json:"cardId"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// FilterSpec is a client-side view filter. It never leaves the client.
type FilterSpec struct {
	Assignee      string   `json:"assignee,omitempty"`
	LabelIDs      []string `json:"labelIds,omitempty"`
	HideCompleted bool     `json:"hideCompleted,omitempty"`
}

// Project describes a remote project as returned by the backend.
type Project struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type,omitempty"`
	EncryptedLink string `json:"encryptedLink,omitempty"`
	AccessCode    string `json:"accessCode,omitempty"`
	ShareCode     string `json:"shareCode,omitempty"`
}

// SavedProject is a user-saved shortcut kept in local state only.
type SavedProject struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Code          string    `json:"code,omitempty"`
	EncryptedLink string    `json:"encryptedLink,omitempty"`
	SavedAt       time.Time `json:"savedAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Clone returns a deep copy. Rollback restores exact pre-mutation snapshots,
// so the copy must share no slices or pointers with the original.
func (b Board) Clone() Board {
	out := b
	out.Columns = make([]Column, len(b.Columns))
	for i := range b.Columns {
		out.Columns[i] = b.Columns[i].Clone()
	}
	if b.Labels != nil {
		out.Labels = append([]Label(nil), b.Labels...)
	}
	if b.Filters != nil {
		f := *b.Filters
		if f.LabelIDs != nil {
			f.LabelIDs = append([]string(nil), f.LabelIDs...)
		}
		out.Filters = &f
	}
	return out
}

func (c Column) Clone() Column {
	out := c
	out.Cards = make([]Card, len(c.Cards))
	for i := range c.Cards {
		out.Cards[i] = c.Cards[i].Clone()
	}
	if c.LabelID != nil {
		id := *c.LabelID
		out.LabelID = &id
	}
	return out
}

func (c Card) Clone() Card {
	out := c
	if c.LabelIDs != nil {
		out.LabelIDs = append([]string(nil), c.LabelIDs...)
	}
	if c.HighlightLabelID != nil {
		id := *c.HighlightLabelID
		out.HighlightLabelID = &id
	}
	return out
}

// FindColumn returns a pointer into b.Columns, or nil.
func (b *Board) FindColumn(columnID string) *Column {
	for i := range b.Columns {
		if b.Columns[i].ID == columnID {
			return &b.Columns[i]
		}
	}
	return nil
}

// FindCard locates a card anywhere on the board and returns its current
// column and index. Callers must not assume the column a card was last seen
// in: concurrent moves can relocate it.
func (b *Board) FindCard(cardID string) (col *Column, idx int, ok bool) {
	for i := range b.Columns {
		for j := range b.Columns[i].Cards {
			if b.Columns[i].Cards[j].ID == cardID {
				return &b.Columns[i], j, true
			}
		}
	}
	return nil, 0, false
}

// FindLabel returns a pointer into b.Labels, or nil.
func (b *Board) FindLabel(labelID string) *Label {
	for i := range b.Labels {
		if b.Labels[i].ID == labelID {
			return &b.Labels[i]
		}
	}
	return nil
}
