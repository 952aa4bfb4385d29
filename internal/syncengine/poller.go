package syncengine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

// Poller est l'ordonnanceur qui appelle Engine.TickFrom à cadence fixe.
// Visible permet de ne scruter que lorsque le panneau est déplié ; nil => toujours.
type Poller struct {
	Engine   *Engine
	Player   Player
	Visible  func() bool
	Interval time.Duration
	Clock    clockwork.Clock
	Log      *slog.Logger
}

// Run boucle jusqu'à l'annulation de ctx et renvoie ctx.Err().
func (p *Poller) Run(ctx context.Context) error {
	if p.Engine == nil {
		return fmt.Errorf("poller: engine nil")
	}
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	clock := p.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	ticker := clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
			p.step()
		}
	}
}

// step exécute un tick ; une panique d'un collaborateur est journalisée et la boucle continue.
func (p *Poller) step() {
	defer func() {
		if r := recover(); r != nil && p.Log != nil {
			p.Log.Error("sync tick panicked", slog.Any("panic", r))
		}
	}()
	if p.Visible != nil && !p.Visible() {
		return
	}
	p.Engine.TickFrom(p.Player)
}
