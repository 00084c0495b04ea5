package tui

import (
	"context"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"corkboard-cli/internal/model"
	"corkboard-cli/internal/move"
	"corkboard-cli/internal/remote"
	"corkboard-cli/internal/store"
)

type mode int

const (
	modeBoard mode = iota
	modePrompt
	modeConfirm
	modeDetail
)

type Model struct {
	store   *store.Store
	boardID string
	hidden  *atomic.Bool

	board  model.Board
	width  int
	height int

	// Selection: column index, and card index within it (-1 for an empty
	// column).
	colIdx  int
	cardIdx int

	mode    mode
	prompt  promptState
	confirm confirmState
	detail  detailState

	spin   spinner.Model
	busy   bool
	status string
	isErr  bool

	// In-flight mouse drag, tagged with what is being dragged at press time.
	drag *move.Drag

	// Rects computed by layout(); shared between View and mouse handling.
	colRects  []move.Rect
	cardRects [][]move.Rect
}

func newModel(opts Options, hidden *atomic.Bool) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(colorAccent)
	return &Model{
		store:   opts.Store,
		boardID: opts.BoardID,
		hidden:  hidden,
		board:   opts.Store.GetBoard(opts.BoardID),
		spin:    sp,
	}
}

func (m *Model) Init() tea.Cmd {
	return m.spin.Tick
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.FocusMsg:
		m.hidden.Store(false)
		return m, nil
	case tea.BlurMsg:
		m.hidden.Store(true)
		return m, nil

	case boardChangedMsg:
		if msg.boardID == m.boardID {
			m.board = m.store.GetBoard(m.boardID)
			m.clampSelection()
		}
		return m, nil

	case commentsChangedMsg:
		if m.mode == modeDetail && m.detail.cardID == msg.cardID {
			m.detail.comments = m.store.Comments(m.boardID, m.detail.cardID)
			return m, m.scheduleCommentTick(msg.cardID)
		}
		return m, nil

	case commentTickMsg:
		// Stale ticks from a closed detail view fall through harmlessly.
		if m.mode == modeDetail && m.detail.cardID == msg.cardID && !m.hidden.Load() {
			return m, m.fetchComments(msg.cardID)
		}
		if m.mode == modeDetail && m.detail.cardID == msg.cardID {
			return m, m.scheduleCommentTick(msg.cardID)
		}
		return m, nil

	case opDoneMsg:
		m.busy = false
		if msg.err != nil {
			// The store already rolled back; surface the reason.
			m.setStatus(msg.err.Error(), true)
		} else {
			m.clearStatus()
		}
		if m.mode == modeDetail && m.detail.cardID != "" {
			m.detail.comments = m.store.Comments(m.boardID, m.detail.cardID)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		switch m.mode {
		case modePrompt:
			return m.updatePrompt(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		case modeDetail:
			return m.updateDetail(msg)
		default:
			return m.updateBoard(msg)
		}
	}
	return m, nil
}

func (m *Model) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "left", "h":
		m.moveSelection(-1, 0)
	case "right", "l":
		m.moveSelection(1, 0)
	case "up", "k":
		m.moveSelection(0, -1)
	case "down", "j":
		m.moveSelection(0, 1)

	case "shift+down", "J":
		return m, m.moveCardWithin(1)
	case "shift+up", "K":
		return m, m.moveCardWithin(-1)
	case "shift+left", "H":
		return m, m.moveCardAcross(-1)
	case "shift+right", "L":
		return m, m.moveCardAcross(1)

	case "[":
		return m, m.moveColumnBy(-1)
	case "]":
		return m, m.moveColumnBy(1)

	case "a":
		if col := m.selectedColumn(); col != nil {
			m.openPrompt(promptAddCard, "New card title", "", col.ID, "")
		}
	case "A":
		m.openPrompt(promptAddColumn, "New column title", "", "", "")
	case "r":
		if col := m.selectedColumn(); col != nil {
			m.openPrompt(promptRenameColumn, "Rename column", col.Title, col.ID, "")
		}
	case "e":
		if card := m.selectedCard(); card != nil {
			m.openPrompt(promptEditTitle, "Edit title", card.Title, "", card.ID)
		}
	case "u":
		if card := m.selectedCard(); card != nil {
			m.openPrompt(promptAssignee, "Assignee", card.Assignee, "", card.ID)
		}

	case " ", "x":
		return m, m.toggleComplete()

	case "d":
		if card := m.selectedCard(); card != nil {
			m.openConfirm("Delete card \""+card.Title+"\"?", m.deleteCard(card.ID))
		}
	case "D":
		if col := m.selectedColumn(); col != nil {
			m.openConfirm("Delete column \""+col.Title+"\" and its cards?", m.deleteColumn(col.ID))
		}

	case "enter":
		if card := m.selectedCard(); card != nil {
			return m, m.openDetail(card.ID)
		}

	case "R":
		return m, m.refreshNow()
	}
	return m, nil
}

func (m *Model) moveSelection(dx, dy int) {
	if len(m.board.Columns) == 0 {
		return
	}
	m.colIdx = clamp(m.colIdx+dx, 0, len(m.board.Columns)-1)
	cards := m.board.Columns[m.colIdx].Cards
	if len(cards) == 0 {
		m.cardIdx = -1
		return
	}
	if m.cardIdx < 0 {
		m.cardIdx = 0
	}
	m.cardIdx = clamp(m.cardIdx+dy, 0, len(cards)-1)
}

func (m *Model) clampSelection() {
	if len(m.board.Columns) == 0 {
		m.colIdx, m.cardIdx = 0, -1
		return
	}
	m.colIdx = clamp(m.colIdx, 0, len(m.board.Columns)-1)
	cards := m.board.Columns[m.colIdx].Cards
	if len(cards) == 0 {
		m.cardIdx = -1
	} else {
		m.cardIdx = clamp(m.cardIdx, 0, len(cards)-1)
	}
}

func (m *Model) selectedColumn() *model.Column {
	if m.colIdx < 0 || m.colIdx >= len(m.board.Columns) {
		return nil
	}
	return &m.board.Columns[m.colIdx]
}

func (m *Model) selectedCard() *model.Card {
	col := m.selectedColumn()
	if col == nil || m.cardIdx < 0 || m.cardIdx >= len(col.Cards) {
		return nil
	}
	return &col.Cards[m.cardIdx]
}

// moveCardWithin shifts the selected card one slot up or down. dropIndex is
// in post-removal coordinates; the move package adds the same-column shift.
func (m *Model) moveCardWithin(dir int) tea.Cmd {
	col := m.selectedColumn()
	card := m.selectedCard()
	if col == nil || card == nil {
		return nil
	}
	drop := m.cardIdx + dir
	if dir > 0 {
		drop = m.cardIdx // one past self once the lift-out shift applies
	}
	if drop < 0 || m.cardIdx+dir < 0 || m.cardIdx+dir >= len(col.Cards) {
		return nil
	}
	plan, ok := move.PlanCardMove(m.board, card.ID, col.ID, drop)
	if !ok {
		return nil
	}
	m.cardIdx = plan.DestIndex
	return m.runOp(func(ctx context.Context) error {
		return m.store.MoveCard(ctx, m.boardID, plan.SourceColumnID, plan.DestColumnID, plan.SourceIndex, plan.DestIndex)
	})
}

func (m *Model) moveCardAcross(dir int) tea.Cmd {
	card := m.selectedCard()
	if card == nil {
		return nil
	}
	destIdx := m.colIdx + dir
	if destIdx < 0 || destIdx >= len(m.board.Columns) {
		return nil
	}
	dest := m.board.Columns[destIdx]
	drop := m.cardIdx
	if drop > len(dest.Cards) {
		drop = len(dest.Cards)
	}
	plan, ok := move.PlanCardMove(m.board, card.ID, dest.ID, drop)
	if !ok {
		return nil
	}
	m.colIdx = destIdx
	m.cardIdx = plan.DestIndex
	return m.runOp(func(ctx context.Context) error {
		return m.store.MoveCard(ctx, m.boardID, plan.SourceColumnID, plan.DestColumnID, plan.SourceIndex, plan.DestIndex)
	})
}

func (m *Model) moveColumnBy(dir int) tea.Cmd {
	col := m.selectedColumn()
	if col == nil {
		return nil
	}
	drop := m.colIdx + dir
	if dir > 0 {
		drop = m.colIdx
	}
	if m.colIdx+dir < 0 || m.colIdx+dir >= len(m.board.Columns) {
		return nil
	}
	plan, ok := move.PlanColumnMove(m.board, col.ID, drop)
	if !ok {
		return nil
	}
	m.colIdx = plan.DestIndex
	return m.runOp(func(ctx context.Context) error {
		return m.store.MoveColumn(ctx, m.boardID, plan.SourceIndex, plan.DestIndex)
	})
}

func (m *Model) toggleComplete() tea.Cmd {
	card := m.selectedCard()
	if card == nil {
		return nil
	}
	id := card.ID
	v := !card.IsCompleted
	return m.runOp(func(ctx context.Context) error {
		return m.store.UpdateCard(ctx, m.boardID, "", id, remote.CardPatch{IsCompleted: &v})
	})
}

func (m *Model) deleteCard(cardID string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return m.store.DeleteCard(ctx, m.boardID, "", cardID)
	}
}

func (m *Model) deleteColumn(columnID string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return m.store.DeleteColumn(ctx, m.boardID, columnID)
	}
}

func (m *Model) refreshNow() tea.Cmd {
	return m.runOp(func(ctx context.Context) error {
		_, err := m.store.RefreshBoard(ctx, m.boardID)
		return err
	})
}

// runOp executes a store operation off the UI goroutine. The optimistic commit
// fires a boardChangedMsg immediately; opDoneMsg settles afterwards.
func (m *Model) runOp(op func(ctx context.Context) error) tea.Cmd {
	m.busy = true
	return func() tea.Msg {
		return opDoneMsg{err: op(context.Background())}
	}
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.isErr = isErr
}

func (m *Model) clearStatus() {
	m.status = ""
	m.isErr = false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
