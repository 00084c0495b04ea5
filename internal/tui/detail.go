package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"corkboard-cli/internal/model"
	"corkboard-cli/internal/store"
)

type detailState struct {
	cardID   string
	comments []model.Comment
	scroll   int
}

type commentTickMsg struct{ cardID string }

func (m *Model) openDetail(cardID string) tea.Cmd {
	m.detail = detailState{
		cardID:   cardID,
		comments: m.store.Comments(m.boardID, cardID),
	}
	m.mode = modeDetail
	return m.fetchComments(cardID)
}

func (m *Model) closeDetail() {
	m.mode = modeBoard
	m.detail = detailState{}
}

// fetchComments refreshes the card's comment thread once; the resulting
// message schedules the next tick, giving comments their own faster cadence
// while the detail view is open.
func (m *Model) fetchComments(cardID string) tea.Cmd {
	return func() tea.Msg {
		_, _ = m.store.RefreshComments(context.Background(), m.boardID, cardID)
		return commentsChangedMsg{cardID: cardID}
	}
}

func (m *Model) scheduleCommentTick(cardID string) tea.Cmd {
	return tea.Tick(store.CommentPollInterval, func(time.Time) tea.Msg {
		return commentTickMsg{cardID: cardID}
	})
}

func (m *Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.closeDetail()
		return m, nil
	case "up", "k":
		if m.detail.scroll > 0 {
			m.detail.scroll--
		}
	case "down", "j":
		m.detail.scroll++
	case "c":
		m.openPrompt(promptComment, "Add comment", "", "", m.detail.cardID)
	case "e":
		if col, idx, ok := m.board.FindCard(m.detail.cardID); ok {
			m.openPrompt(promptEditTitle, "Edit title", col.Cards[idx].Title, "", m.detail.cardID)
		}
	case "x", " ":
		return m, m.toggleComplete()
	}
	return m, nil
}

func (m *Model) detailCard() (model.Card, bool) {
	col, idx, ok := m.board.FindCard(m.detail.cardID)
	if !ok {
		return model.Card{}, false
	}
	return col.Cards[idx], true
}
