package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"corkboard-cli/internal/move"
)

// Mouse support: click to select, press-drag-release to move a card or a
// column. The payload is tagged with its kind at press time; release never
// infers what was dragged from id membership.

func (m *Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode != modeBoard {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		m.layout()
		ci := move.NearestColumn(m.colRects, msg.X)
		if ci < 0 || ci >= len(m.board.Columns) {
			return m, nil
		}
		m.colIdx = ci
		col := m.board.Columns[ci]

		// A press on the header row grabs the column; a press on a card grabs
		// the card.
		if msg.Y <= m.colRects[ci].Y {
			m.cardIdx = -1
			d := move.NewColumnDrag(col.ID)
			m.drag = &d
			return m, nil
		}
		if len(col.Cards) == 0 {
			m.cardIdx = -1
			return m, nil
		}
		cj := move.NearestRect(m.cardRects[ci], msg.X, msg.Y)
		if cj < 0 {
			return m, nil
		}
		m.cardIdx = cj
		d := move.NewCardDrag(col.Cards[cj].ID)
		m.drag = &d
		return m, nil

	case tea.MouseActionRelease:
		drag := m.drag
		m.drag = nil
		if drag == nil {
			return m, nil
		}
		m.layout()
		switch drag.Kind {
		case move.KindColumn:
			return m, m.dropColumn(drag.ID, msg.X)
		case move.KindCard:
			return m, m.dropCard(drag.ID, msg.X, msg.Y)
		}
	}
	return m, nil
}

func (m *Model) dropColumn(columnID string, x int) tea.Cmd {
	hover := move.NearestColumn(m.colRects, x)
	if hover < 0 {
		return nil
	}
	srcIdx := -1
	for i := range m.board.Columns {
		if m.board.Columns[i].ID == columnID {
			srcIdx = i
			break
		}
	}
	if srcIdx < 0 || hover == srcIdx {
		return nil
	}
	// Translate the hovered slot into post-removal coordinates.
	drop := hover
	if hover > srcIdx {
		drop = hover - 1
	}
	plan, ok := move.PlanColumnMove(m.board, columnID, drop)
	if !ok {
		return nil
	}
	m.colIdx = plan.DestIndex
	return m.runOp(func(ctx context.Context) error {
		return m.store.MoveColumn(ctx, m.boardID, plan.SourceIndex, plan.DestIndex)
	})
}

func (m *Model) dropCard(cardID string, x, y int) tea.Cmd {
	hoverCol := move.NearestColumn(m.colRects, x)
	if hoverCol < 0 || hoverCol >= len(m.board.Columns) {
		return nil
	}
	dest := m.board.Columns[hoverCol]

	srcCol, srcIdx, ok := m.board.FindCard(cardID)
	if !ok {
		return nil
	}

	drop := len(dest.Cards)
	if len(dest.Cards) > 0 {
		n := move.NearestRect(m.cardRects[hoverCol], x, y)
		if n >= 0 {
			drop = n
			if dest.ID == srcCol.ID && n > srcIdx {
				drop = n - 1 // post-removal coordinates
			}
		}
	}

	plan, ok := move.PlanCardMove(m.board, cardID, dest.ID, drop)
	if !ok {
		return nil
	}
	if plan.SourceColumnID == plan.DestColumnID && plan.SourceIndex == plan.DestIndex {
		return nil
	}
	m.colIdx = hoverCol
	m.cardIdx = plan.DestIndex
	return m.runOp(func(ctx context.Context) error {
		return m.store.MoveCard(ctx, m.boardID, plan.SourceColumnID, plan.DestColumnID, plan.SourceIndex, plan.DestIndex)
	})
}
