package store

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"corkboard-cli/internal/model"
)

func TestRefreshBoardCommitsFetchedState(t *testing.T) {
	s, f := seedStore(seedBoard("b1", map[string][]string{"colA": {"X"}}, []string{"colA"}))
	f.board = seedBoard("b1", map[string][]string{"colA": {"X", "Y"}}, []string{"colA"})

	changed, err := s.RefreshBoard(context.Background(), "b1")
	if err != nil {
		t.Fatalf("RefreshBoard: %v", err)
	}
	if !changed {
		t.Fatal("RefreshBoard reported no change")
	}
	if got := cardIDs(t, s, "b1", "colA"); !reflect.DeepEqual(got, []string{"X", "Y"}) {
		t.Fatalf("cards = %v, want [X Y]", got)
	}
}

func TestRefreshBoardSuppressesIdenticalFetches(t *testing.T) {
	s, f := seedStore(seedBoard("b1", map[string][]string{"colA": {"X"}}, []string{"colA"}))

	var commits atomic.Int32
	s.SetNotify(func(string) { commits.Add(1) })

	for i := 0; i < 3; i++ {
		changed, err := s.RefreshBoard(context.Background(), "b1")
		if err != nil {
			t.Fatalf("RefreshBoard #%d: %v", i, err)
		}
		if i > 0 && changed {
			t.Fatalf("RefreshBoard #%d committed an identical fetch", i)
		}
	}
	// At most the first fetch commits (it may also be a structural no-op
	// against the seeded state); repeats never do.
	if n := commits.Load(); n > 1 {
		t.Fatalf("notify fired %d times, want at most 1", n)
	}
	_ = f
}

func TestMergeSkippedWhileSessionDirtyThenRetries(t *testing.T) {
	s, _ := seedStore(seedBoard("b1", map[string][]string{"colA": {"X"}}, []string{"colA"}))
	fetched := seedBoard("b1", map[string][]string{"colA": {"X", "Y"}}, []string{"colA"})

	es := s.Sessions().Begin("b1")
	es.MarkDirty()
	if s.mergeFetchedBoard("b1", fetched) {
		t.Fatal("merge committed while an edit session was dirty")
	}
	if got := cardIDs(t, s, "b1", "colA"); !reflect.DeepEqual(got, []string{"X"}) {
		t.Fatalf("board changed while dirty: %v", got)
	}

	// The skipped fetch must not be recorded, or this retry would be
	// suppressed as a structural no-op.
	es.End()
	if !s.mergeFetchedBoard("b1", fetched) {
		t.Fatal("merge did not retry after the session ended")
	}
	if got := cardIDs(t, s, "b1", "colA"); !reflect.DeepEqual(got, []string{"X", "Y"}) {
		t.Fatalf("cards = %v, want [X Y]", got)
	}
}

func TestMergeSkippedWhileMutationInFlight(t *testing.T) {
	s, _ := seedStore(seedBoard("b1", map[string][]string{"colA": {"X"}}, []string{"colA"}))
	fetched := seedBoard("b1", map[string][]string{"colA": {"Y"}}, []string{"colA"})

	l := s.boardLock("b1")
	l.Lock()
	if s.mergeFetchedBoard("b1", fetched) {
		t.Fatal("merge committed inside an optimistic window")
	}
	l.Unlock()

	if !s.mergeFetchedBoard("b1", fetched) {
		t.Fatal("merge did not retry after the mutation settled")
	}
}

func TestMergePreservesClientOnlyFilters(t *testing.T) {
	b := seedBoard("b1", map[string][]string{"colA": {"X"}}, []string{"colA"})
	b.Filters = &model.FilterSpec{Assignee: "ada", LabelIDs: []string{"label-1"}}
	s, _ := seedStore(b)

	fetched := seedBoard("b1", map[string][]string{"colA": {"X", "Y"}}, []string{"colA"})
	if !s.mergeFetchedBoard("b1", fetched) {
		t.Fatal("merge did not commit")
	}
	got := s.GetBoard("b1")
	if got.Filters == nil || got.Filters.Assignee != "ada" || !reflect.DeepEqual(got.Filters.LabelIDs, []string{"label-1"}) {
		t.Fatalf("filters = %+v, want preserved across merge", got.Filters)
	}
}

func TestBoardPollerFirstTickConsumesHandoff(t *testing.T) {
	s, f := seedStore(seedBoard("b1", map[string][]string{"colA": {"X"}}, []string{"colA"}))
	handed := seedBoard("b1", map[string][]string{"colA": {"X", "Y"}}, []string{"colA"})
	s.Handoff().Put("b1", handed)

	f.failWith("GetBoard:b1", errors.New("must not fetch"))
	p := NewBoardPoller(s, "b1", PollerOpts{})
	if _, err := p.refresh(context.Background()); err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	if got := cardIDs(t, s, "b1", "colA"); !reflect.DeepEqual(got, []string{"X", "Y"}) {
		t.Fatalf("cards = %v, want handoff payload applied", got)
	}

	// Second refresh fetches for real.
	if _, err := p.refresh(context.Background()); err == nil {
		t.Fatal("second refresh: want the scripted fetch error")
	}
}

func TestPollerBacksOffAfterConsecutiveFailures(t *testing.T) {
	calls := 0
	p := &Poller{
		interval:  10 * time.Millisecond,
		backoff:   time.Hour,
		threshold: 3,
		refresh: func(ctx context.Context) (bool, error) {
			calls++
			return false, errors.New("down")
		},
	}
	for i := 0; i < 2; i++ {
		p.tick(context.Background())
		if got := p.nextInterval(); got != p.interval {
			t.Fatalf("after %d failures interval = %v, want %v", i+1, got, p.interval)
		}
	}
	p.tick(context.Background())
	if got := p.nextInterval(); got != p.backoff {
		t.Fatalf("after threshold interval = %v, want backoff %v", got, p.backoff)
	}

	// One success resets the run.
	p.refresh = func(ctx context.Context) (bool, error) { return false, nil }
	p.tick(context.Background())
	if got := p.nextInterval(); got != p.interval {
		t.Fatalf("after recovery interval = %v, want %v", got, p.interval)
	}
	if calls != 3 {
		t.Fatalf("failing refresh ran %d times, want 3", calls)
	}
}

func TestPollerSkipsTicksWhileHidden(t *testing.T) {
	var hidden atomic.Bool
	var calls atomic.Int32
	p := &Poller{
		interval:  time.Millisecond,
		backoff:   time.Hour,
		threshold: 3,
		Hidden:    func() bool { return hidden.Load() },
		refresh: func(ctx context.Context) (bool, error) {
			calls.Add(1)
			return false, nil
		},
	}

	hidden.Store(true)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	if n := calls.Load(); n != 0 {
		t.Fatalf("refresh ran %d times while hidden", n)
	}

	hidden.Store(false)
	time.Sleep(20 * time.Millisecond)
	if n := calls.Load(); n == 0 {
		t.Fatal("refresh never resumed after becoming visible")
	}

	cancel()
	<-done
}

func TestPollerRefreshesPromptlyOnVisible(t *testing.T) {
	var hidden atomic.Bool
	var calls atomic.Int32
	hidden.Store(true)
	p := &Poller{
		interval:  time.Hour,
		backoff:   time.Hour,
		threshold: 3,
		Hidden:    func() bool { return hidden.Load() },
		refresh: func(ctx context.Context) (bool, error) {
			calls.Add(1)
			return false, nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	if n := calls.Load(); n != 0 {
		t.Fatalf("refresh ran %d times while hidden", n)
	}

	// The refresh must follow visibility within the re-check cadence, not
	// after the hour-long interval.
	hidden.Store(false)
	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done
	if calls.Load() == 0 {
		t.Fatal("no refresh within 2s of becoming visible")
	}
}

func TestPollerRunsImmediateFirstTick(t *testing.T) {
	var calls atomic.Int32
	p := &Poller{
		interval:  time.Hour,
		backoff:   time.Hour,
		threshold: 3,
		refresh: func(ctx context.Context) (bool, error) {
			calls.Add(1)
			return false, nil
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()
	deadline := time.Now().Add(time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()
	<-done
	if calls.Load() != 1 {
		t.Fatalf("first tick ran %d times, want exactly 1 before the first interval", calls.Load())
	}
}

func TestPollerOptsFillDefaults(t *testing.T) {
	var o PollerOpts
	o.fill(BoardPollInterval)
	if o.Interval != BoardPollInterval || o.Backoff != PollBackoffInterval || o.FailureThreshold != PollFailureThreshold {
		t.Fatalf("opts = %+v", o)
	}

	o = PollerOpts{Interval: time.Second, Backoff: 2 * time.Second, FailureThreshold: 1}
	o.fill(BoardPollInterval)
	if o.Interval != time.Second || o.Backoff != 2*time.Second || o.FailureThreshold != 1 {
		t.Fatalf("explicit opts overwritten: %+v", o)
	}
}
