// Package tui is the interactive board view. It renders the store's cached
// board, applies edits through the store's optimistic operations, and keeps a
// background poller running so remote changes appear without user action.
package tui

import (
	"context"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"corkboard-cli/internal/store"
)

type Options struct {
	Store   *store.Store
	BoardID string
	// Theme forces "dark" or "light"; empty means detect from the terminal.
	Theme string
}

// Run blocks until the user quits.
func Run(opts Options) error {
	applyThemePreference(opts.Theme)

	hidden := &atomic.Bool{}
	m := newModel(opts, hidden)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithReportFocus())

	// Store commits (optimistic, rollback, poll merges) all arrive as one
	// message kind; the model re-reads the board on each.
	opts.Store.SetNotify(func(boardID string) {
		p.Send(boardChangedMsg{boardID: boardID})
	})
	defer opts.Store.SetNotify(nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	poller := store.NewBoardPoller(opts.Store, opts.BoardID, store.PollerOpts{Hidden: hidden.Load})
	go poller.Run(ctx)

	_, err := p.Run()
	return err
}

type boardChangedMsg struct{ boardID string }

// opDoneMsg reports a settled mutation. err carries the rollback reason when
// the remote rejected it.
type opDoneMsg struct{ err error }

type commentsChangedMsg struct{ cardID string }
