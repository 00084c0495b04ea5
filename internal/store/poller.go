package store

import (
	"context"
	"log"
	"time"

	"corkboard-cli/internal/model"
)

// Poll cadence and failure handling defaults. Board polls are the heavy
// fetch; comments are lighter and poll faster.
const (
	BoardPollInterval    = 10 * time.Second
	CommentPollInterval  = 5 * time.Second
	PollBackoffInterval  = 30 * time.Second
	PollFailureThreshold = 3
)

// RefreshBoard fetches the remote board and merges it into the store.
//
// The merge is gated three ways:
//   - structural no-op suppression: identical consecutive fetches commit
//     nothing, so polling never causes redundant writes or renders
//   - dirty edit sessions: a board with unsaved local edits is skipped
//   - in-flight mutations: if the board's mutation lock is held, the merge is
//     skipped rather than racing an optimistic window
//
// It returns whether a commit happened.
func (s *Store) RefreshBoard(ctx context.Context, boardID string) (bool, error) {
	fetched, err := s.remote.GetBoard(ctx, boardID)
	if err != nil {
		return false, err
	}
	return s.mergeFetchedBoard(boardID, fetched), nil
}

func (s *Store) mergeFetchedBoard(boardID string, fetched model.Board) bool {
	s.mu.RLock()
	prev := s.lastPolled[boardID]
	s.mu.RUnlock()

	if prev != nil && boardsEqual(*prev, fetched) {
		return false
	}

	// A skipped merge must not record the fetch, or the retry on the next
	// tick would be suppressed as a structural no-op.
	if s.sessions.Dirty(boardID) {
		return false
	}
	l := s.boardLock(boardID)
	if !l.TryLock() {
		return false
	}
	defer l.Unlock()

	s.mu.Lock()
	fb := fetched.Clone()
	s.lastPolled[boardID] = &fb
	s.mu.Unlock()

	// Whole-board overwrite, preserving the client-only filter spec.
	cur := s.snapshot(boardID)
	next := fetched.Clone()
	next.Filters = cur.Filters
	if next.Columns == nil {
		next.Columns = []model.Column{}
	}
	if boardsEqual(cur, next) {
		return false
	}
	s.commit(boardID, next)
	return true
}

// Poller runs one background refresh loop. Construct with NewBoardPoller or
// NewCommentPoller, then call Run; it stops when the context is done.
type Poller struct {
	interval  time.Duration
	backoff   time.Duration
	threshold int

	// Hidden reports whether the consuming view is currently not visible.
	// Ticks are skipped while hidden; the first visible tick refreshes
	// immediately.
	Hidden func() bool

	refresh  func(ctx context.Context) (bool, error)
	failures int
}

type PollerOpts struct {
	Interval time.Duration
	Backoff  time.Duration
	// FailureThreshold is the run of consecutive failures after which the
	// loop backs off to the Backoff interval.
	FailureThreshold int
	Hidden           func() bool
}

func (o *PollerOpts) fill(defaultInterval time.Duration) {
	if o.Interval <= 0 {
		o.Interval = defaultInterval
	}
	if o.Backoff <= 0 {
		o.Backoff = PollBackoffInterval
	}
	if o.FailureThreshold <= 0 {
		o.FailureThreshold = PollFailureThreshold
	}
}

// NewBoardPoller polls the full board. If a handoff payload is stashed for
// the board, the first tick consumes it instead of fetching.
func NewBoardPoller(s *Store, boardID string, opts PollerOpts) *Poller {
	opts.fill(BoardPollInterval)
	consumedHandoff := false
	return &Poller{
		interval:  opts.Interval,
		backoff:   opts.Backoff,
		threshold: opts.FailureThreshold,
		Hidden:    opts.Hidden,
		refresh: func(ctx context.Context) (bool, error) {
			if !consumedHandoff {
				consumedHandoff = true
				if b, ok := s.handoff.Take(boardID); ok {
					return s.mergeFetchedBoard(boardID, b), nil
				}
			}
			return s.RefreshBoard(ctx, boardID)
		},
	}
}

// NewCommentPoller polls one card's comment list.
func NewCommentPoller(s *Store, boardID, cardID string, opts PollerOpts) *Poller {
	opts.fill(CommentPollInterval)
	return &Poller{
		interval:  opts.Interval,
		backoff:   opts.Backoff,
		threshold: opts.FailureThreshold,
		Hidden:    opts.Hidden,
		refresh: func(ctx context.Context) (bool, error) {
			return s.RefreshComments(ctx, boardID, cardID)
		},
	}
}

// visibilityRecheck is how often a hidden poller re-checks visibility, so
// the refresh after becoming visible lands promptly instead of a full
// interval (or backoff) later.
const visibilityRecheck = time.Second

// Run performs an immediate refresh, then ticks until ctx is cancelled.
// Errors are best-effort: logged, never surfaced. After threshold consecutive
// failures the tick interval stretches to the backoff interval until the next
// success. While hidden, ticks are skipped and the loop wakes on a short
// cadence; the first visible wake-up refreshes immediately.
func (p *Poller) Run(ctx context.Context) {
	p.tick(ctx)

	timer := time.NewTimer(p.wait())
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		p.tick(ctx)
		timer.Reset(p.wait())
	}
}

// wait returns the time until the next tick attempt.
func (p *Poller) wait() time.Duration {
	if p.Hidden != nil && p.Hidden() {
		if p.interval < visibilityRecheck {
			return p.interval
		}
		return visibilityRecheck
	}
	return p.nextInterval()
}

func (p *Poller) tick(ctx context.Context) {
	if p.Hidden != nil && p.Hidden() {
		return
	}
	if _, err := p.refresh(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		p.failures++
		log.Printf("poll: refresh failed (%d consecutive): %v", p.failures, err)
		return
	}
	p.failures = 0
}

func (p *Poller) nextInterval() time.Duration {
	if p.failures >= p.threshold {
		return p.backoff
	}
	return p.interval
}
