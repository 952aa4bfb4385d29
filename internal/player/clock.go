// Package player fournit les implémentations de syncengine.Player :
// un lecteur simulé piloté par une horloge, et l'état rapporté par la page.
package player

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/patrickprogramme/ccviewer/pkg/model"
)

// Clock est un lecteur simulé : la position avance avec l'horloge pendant la lecture.
// Utilisé par le mode -follow du terminal et par les tests.
type Clock struct {
	mu        sync.Mutex
	clock     clockwork.Clock
	base      model.Seconds // position au dernier Play/Pause/Seek
	startedAt time.Time     // instant du dernier Play (si playing)
	playing   bool
	duration  model.Seconds // 0 = pas de fin
}

// NewClock construit un lecteur à l'arrêt en position 0.
// duration > 0 borne la position (la lecture s'arrête en fin de vidéo).
func NewClock(clock clockwork.Clock, duration model.Seconds) *Clock {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Clock{clock: clock, duration: duration}
}

// Play démarre ou reprend la lecture.
func (c *Clock) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.playing {
		return
	}
	c.startedAt = c.clock.Now()
	c.playing = true
}

// Pause fige la position courante.
func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.playing {
		return
	}
	c.base = c.positionLocked()
	c.playing = false
}

// Toggle alterne lecture/pause.
func (c *Clock) Toggle() {
	if c.IsPlaying() {
		c.Pause()
		return
	}
	c.Play()
}

// Seek place la tête de lecture en t, sans changer l'état lecture/pause.
func (c *Clock) Seek(t model.Seconds) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.base = c.clamp(t)
	c.startedAt = c.clock.Now()
}

// CurrentTime est toujours disponible pour un lecteur simulé.
func (c *Clock) CurrentTime() (model.Seconds, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.positionLocked(), true
}

// IsPlaying vaut false une fois la fin atteinte.
func (c *Clock) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.playing && c.duration > 0 && c.positionLocked() >= c.duration {
		return false
	}
	return c.playing
}

func (c *Clock) positionLocked() model.Seconds {
	if !c.playing {
		return c.base
	}
	elapsed := model.Seconds(c.clock.Since(c.startedAt).Seconds())
	return c.clamp(c.base + elapsed)
}

func (c *Clock) clamp(t model.Seconds) model.Seconds {
	if t < 0 {
		return 0
	}
	if c.duration > 0 && t > c.duration {
		return c.duration
	}
	return t
}
