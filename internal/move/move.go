// Package move translates drag gestures and move dialogs into the
// (sourceColumn, destColumn, sourceIndex, destIndex) arguments the store's
// move operations expect. The store applies indices verbatim; every
// coordinate adjustment lives here.
package move

import (
	"strings"

	"corkboard-cli/internal/model"
)

// Kind discriminates what is being dragged. It is tagged on the payload at
// drag start, not inferred from id membership on every collision check.
type Kind string

const (
	KindColumn Kind = "column"
	KindCard   Kind = "card"
)

// Drag is the payload attached to an in-flight drag gesture.
type Drag struct {
	Kind Kind
	ID   string
}

// NewCardDrag and NewColumnDrag tag the payload explicitly at drag start.
func NewCardDrag(cardID string) Drag  { return Drag{Kind: KindCard, ID: cardID} }
func NewColumnDrag(colID string) Drag { return Drag{Kind: KindColumn, ID: colID} }

// CardMove holds ready-to-use arguments for Store.MoveCard.
type CardMove struct {
	SourceColumnID string
	DestColumnID   string
	SourceIndex    int
	DestIndex      int
}

// ColumnMove holds ready-to-use arguments for Store.MoveColumn.
type ColumnMove struct {
	SourceIndex int
	DestIndex   int
}

// PlanCardMove computes MoveCard arguments from a drop target.
//
// dropIndex is the slot index reported by the gesture in the destination
// column, computed against the list with the dragged card lifted out. Moving
// a card to a later slot within its own column lands *after* the hovered
// card, whose index shifted down by the source removal, so the index is
// incremented by one. That adjustment happens here, before the store is
// called, never inside it.
//
// Returns ok=false when the card or destination column cannot be located;
// callers treat that as a no-op (a UI-state race, not an error).
func PlanCardMove(b model.Board, cardID, destColumnID string, dropIndex int) (CardMove, bool) {
	cardID = strings.TrimSpace(cardID)
	destColumnID = strings.TrimSpace(destColumnID)
	if cardID == "" || destColumnID == "" {
		return CardMove{}, false
	}

	srcCol, srcIdx, ok := b.FindCard(cardID)
	if !ok {
		return CardMove{}, false
	}
	dest := b.FindColumn(destColumnID)
	if dest == nil {
		return CardMove{}, false
	}

	destIdx := dropIndex
	if srcCol.ID == destColumnID && dropIndex >= srcIdx {
		destIdx = dropIndex + 1
	}

	// Clamp to the insertable range of the post-removal list.
	max := len(dest.Cards)
	if srcCol.ID == destColumnID {
		max = len(dest.Cards) - 1
	}
	if destIdx < 0 {
		destIdx = 0
	}
	if destIdx > max {
		destIdx = max
	}

	return CardMove{
		SourceColumnID: srcCol.ID,
		DestColumnID:   destColumnID,
		SourceIndex:    srcIdx,
		DestIndex:      destIdx,
	}, true
}

// PlanColumnMove computes MoveColumn arguments for dragging a whole column to
// dropIndex (in post-removal coordinates, same convention as PlanCardMove).
func PlanColumnMove(b model.Board, columnID string, dropIndex int) (ColumnMove, bool) {
	columnID = strings.TrimSpace(columnID)
	srcIdx := -1
	for i := range b.Columns {
		if b.Columns[i].ID == columnID {
			srcIdx = i
			break
		}
	}
	if srcIdx < 0 {
		return ColumnMove{}, false
	}

	destIdx := dropIndex
	if dropIndex >= srcIdx {
		destIdx = dropIndex + 1
	}
	if destIdx < 0 {
		destIdx = 0
	}
	if destIdx > len(b.Columns)-1 {
		destIdx = len(b.Columns) - 1
	}
	return ColumnMove{SourceIndex: srcIdx, DestIndex: destIdx}, true
}

// Rect is a screen-space rectangle for collision detection.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) centerX() int { return r.X + r.W/2 }
func (r Rect) centerY() int { return r.Y + r.H/2 }

// NearestColumn is the collision strategy for column drags: nearest column
// center on the horizontal axis only, since columns form a single row and
// vertical pointer position carries no signal.
func NearestColumn(columns []Rect, x int) int {
	best := -1
	bestDist := 0
	for i, r := range columns {
		d := x - r.centerX()
		if d < 0 {
			d = -d
		}
		if best < 0 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// NearestRect is the default proximity strategy for card drags: nearest
// rectangle center in both axes (squared distance; no need for the root).
func NearestRect(rects []Rect, x, y int) int {
	best := -1
	bestDist := 0
	for i, r := range rects {
		dx := x - r.centerX()
		dy := y - r.centerY()
		d := dx*dx + dy*dy
		if best < 0 || d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}
