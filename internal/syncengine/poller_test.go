package syncengine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/patrickprogramme/ccviewer/pkg/model"
)

// signalPlayer signale chaque lecture de la position sur polled.
type signalPlayer struct {
	time    model.Seconds
	playing bool
	polled  chan struct{}
	panics  atomic.Bool
}

func newSignalPlayer(ts model.Seconds) *signalPlayer {
	return &signalPlayer{time: ts, playing: true, polled: make(chan struct{}, 16)}
}

func (p *signalPlayer) CurrentTime() (model.Seconds, bool) {
	p.polled <- struct{}{}
	if p.panics.Load() {
		panic("player exploded")
	}
	return p.time, true
}

func (p *signalPlayer) IsPlaying() bool { return p.playing }

func waitPolled(t *testing.T, p *signalPlayer) {
	t.Helper()
	select {
	case <-p.polled:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for a tick")
	}
}

func TestPoller_TicksOnCadence(t *testing.T) {
	clock := clockwork.NewFakeClock()
	player := newSignalPlayer(1)
	e := New(threeEntries())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	p := &Poller{Engine: e, Player: player, Interval: 100 * time.Millisecond, Clock: clock}
	go func() { errCh <- p.Run(ctx) }()

	clock.BlockUntil(1)
	clock.Advance(100 * time.Millisecond)
	waitPolled(t, player)

	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v; want context.Canceled", err)
	}
	if cur := e.Current(); cur.Index != 0 {
		t.Fatalf("current = %+v; want index 0", cur)
	}
}

func TestPoller_SkipsWhenHidden(t *testing.T) {
	var visible atomic.Bool
	var checks atomic.Int32
	p := &Poller{
		Engine: New(threeEntries()),
		Player: newSignalPlayer(1),
		Visible: func() bool {
			checks.Add(1)
			return visible.Load()
		},
	}

	p.step()
	if cur := p.Engine.Current(); cur.Index != NoIndex {
		t.Fatalf("hidden panel: current = %+v; want NoIndex", cur)
	}
	visible.Store(true)
	p.step()
	if cur := p.Engine.Current(); cur.Index != 0 {
		t.Fatalf("visible panel: current = %+v; want index 0", cur)
	}
	if checks.Load() != 2 {
		t.Fatalf("visible checks = %d; want 2", checks.Load())
	}
}

func TestPoller_RecoversFromPanic(t *testing.T) {
	player := newSignalPlayer(1)
	player.panics.Store(true)
	p := &Poller{Engine: New(threeEntries()), Player: player}

	p.step() // ne doit pas paniquer
	<-player.polled

	player.panics.Store(false)
	p.step()
	<-player.polled
	if cur := p.Engine.Current(); cur.Index != 0 {
		t.Fatalf("after recovery: current = %+v; want index 0", cur)
	}
}

func TestPoller_NilEngine(t *testing.T) {
	p := &Poller{}
	if err := p.Run(context.Background()); err == nil {
		t.Fatal("expected error for nil engine")
	}
}

func TestSession_CloseStopsPolling(t *testing.T) {
	clock := clockwork.NewFakeClock()
	player := newSignalPlayer(1)
	hl := &highlightLog{}
	e := New(threeEntries(), WithHighlighter(hl))

	s := Start(context.Background(), &Poller{Engine: e, Player: player, Clock: clock})
	clock.BlockUntil(1)
	clock.Advance(DefaultInterval)
	waitPolled(t, player)

	s.Close()
	s.Close() // idempotent

	select {
	case <-s.Done():
	default:
		t.Fatal("Done should be closed after Close")
	}
	if cur := s.Engine().Current(); cur.Index != NoIndex {
		t.Fatalf("after Close: current = %+v; want NoIndex", cur)
	}

	// plus aucun tick après Close
	clock.Advance(10 * DefaultInterval)
	select {
	case <-player.polled:
		t.Fatal("tick after Close")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSession_ForwardsManualScroll(t *testing.T) {
	clock := clockwork.NewFakeClock()
	e := New(threeEntries(), WithClock(clock))
	s := Start(context.Background(), &Poller{Engine: e, Player: newSignalPlayer(1), Clock: clock})
	defer s.Close()

	s.OnManualScroll()
	if !e.State().ManualScrollActive {
		t.Fatal("manual scroll should open the suppression window")
	}
}

func TestSession_NilEngine(t *testing.T) {
	s := Start(context.Background(), &Poller{Clock: clockwork.NewFakeClock()})

	select {
	case <-s.Done():
	default:
		t.Fatal("session without engine must be done immediately")
	}
	s.OnManualScroll()
	s.Close()
	s.Close()
	if s.Engine() != nil {
		t.Error("engine must be nil")
	}
}
