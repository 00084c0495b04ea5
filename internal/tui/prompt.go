package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"corkboard-cli/internal/remote"
	"corkboard-cli/internal/store"
)

type promptKind int

const (
	promptAddCard promptKind = iota
	promptAddColumn
	promptRenameColumn
	promptEditTitle
	promptAssignee
	promptComment
)

type promptState struct {
	kind     promptKind
	title    string
	input    textinput.Model
	columnID string
	cardID   string
	returnTo mode

	// A prompt is an edit surface: while it is open and dirty the poller must
	// not overwrite the board underneath it.
	session *store.EditSession
}

func (m *Model) openPrompt(kind promptKind, title, initial, columnID, cardID string) {
	in := textinput.New()
	in.CharLimit = 500
	in.SetValue(initial)
	in.CursorEnd()
	in.Focus()

	returnTo := modeBoard
	if m.mode == modeDetail {
		returnTo = modeDetail
	}
	m.prompt = promptState{
		kind:     kind,
		title:    title,
		input:    in,
		columnID: columnID,
		cardID:   cardID,
		returnTo: returnTo,
		session:  m.store.Sessions().Begin(m.boardID),
	}
	m.mode = modePrompt
}

func (m *Model) closePrompt() {
	if m.prompt.session != nil {
		m.prompt.session.End()
		m.prompt.session = nil
	}
	m.mode = m.prompt.returnTo
}

func (m *Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePrompt()
		return m, nil
	case "enter":
		cmd := m.submitPrompt()
		m.closePrompt()
		return m, cmd
	}

	var cmd tea.Cmd
	m.prompt.input, cmd = m.prompt.input.Update(msg)
	m.prompt.session.MarkDirty()
	return m, cmd
}

func (m *Model) submitPrompt() tea.Cmd {
	value := strings.TrimSpace(m.prompt.input.Value())
	if value == "" && m.prompt.kind != promptAssignee {
		return nil
	}
	p := m.prompt
	switch p.kind {
	case promptAddCard:
		return m.runOp(func(ctx context.Context) error {
			_, err := m.store.AddCard(ctx, m.boardID, p.columnID, remote.CardDraft{Title: value})
			return err
		})
	case promptAddColumn:
		return m.runOp(func(ctx context.Context) error {
			_, err := m.store.AddColumn(ctx, m.boardID, value)
			return err
		})
	case promptRenameColumn:
		return m.runOp(func(ctx context.Context) error {
			return m.store.UpdateColumn(ctx, m.boardID, p.columnID, remote.ColumnPatch{Title: &value})
		})
	case promptEditTitle:
		return m.runOp(func(ctx context.Context) error {
			return m.store.UpdateCard(ctx, m.boardID, "", p.cardID, remote.CardPatch{Title: &value})
		})
	case promptAssignee:
		return m.runOp(func(ctx context.Context) error {
			return m.store.UpdateCard(ctx, m.boardID, "", p.cardID, remote.CardPatch{Assignee: &value})
		})
	case promptComment:
		return m.runOp(func(ctx context.Context) error {
			_, err := m.store.AddComment(ctx, m.boardID, p.cardID, "", value)
			return err
		})
	}
	return nil
}

type confirmState struct {
	message string
	action  func(ctx context.Context) error
}

func (m *Model) openConfirm(message string, action func(ctx context.Context) error) {
	m.confirm = confirmState{message: message, action: action}
	m.mode = modeConfirm
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		action := m.confirm.action
		m.mode = modeBoard
		return m, m.runOp(action)
	case "n", "N", "esc", "q":
		m.mode = modeBoard
	}
	return m, nil
}
