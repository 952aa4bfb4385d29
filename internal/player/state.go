package player

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/patrickprogramme/ccviewer/pkg/model"
)

// DefaultStaleAfter : au-delà, un état non rafraîchi est considéré indisponible.
const DefaultStaleAfter = 5 * time.Second

// State conserve le dernier état rapporté par la page (bridge HTTP).
//
// Entre deux rapports, la position est extrapolée si la vidéo est en lecture :
// la page publie moins souvent que la cadence de synchronisation.
type State struct {
	mu         sync.Mutex
	clock      clockwork.Clock
	staleAfter time.Duration

	time      model.Seconds
	playing   bool
	available bool
	updatedAt time.Time
}

// NewState construit un état vide (position indisponible).
func NewState(clock clockwork.Clock, staleAfter time.Duration) *State {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &State{clock: clock, staleAfter: staleAfter}
}

// Update enregistre un rapport du lecteur.
func (s *State) Update(t model.Seconds, playing, available bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.time = t
	s.playing = playing
	s.available = available && t.Valid()
	s.updatedAt = s.clock.Now()
}

// CurrentTime renvoie false si aucun rapport valide récent n'existe.
func (s *State) CurrentTime() (model.Seconds, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.freshLocked() {
		return 0, false
	}
	if !s.playing {
		return s.time, true
	}
	return s.time + model.Seconds(s.clock.Since(s.updatedAt).Seconds()), true
}

// IsPlaying vaut false si l'état est périmé.
func (s *State) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.freshLocked() && s.playing
}

func (s *State) freshLocked() bool {
	if !s.available || s.updatedAt.IsZero() {
		return false
	}
	return s.clock.Since(s.updatedAt) <= s.staleAfter
}
