package syncengine

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Gate modélise le drapeau "l'utilisateur fait défiler la liste" avec anti-rebond.
//
// Deux états : Idle (défilement auto permis) et Suppressed. Chaque OnManualScroll
// repousse l'échéance à now + window. L'expiration est évaluée paresseusement à la
// lecture, contre l'horloge injectée : aucun timer n'est armé, donc rien à annuler.
// Gate n'est pas sûr en concurrence ; Engine sérialise les accès.
type Gate struct {
	clock  clockwork.Clock
	window time.Duration
	until  time.Time
}

// NewGate construit un Gate. window <= 0 => SuppressionWindow.
func NewGate(clock clockwork.Clock, window time.Duration) *Gate {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if window <= 0 {
		window = SuppressionWindow
	}
	return &Gate{clock: clock, window: window}
}

// OnManualScroll ouvre (ou rouvre) la fenêtre de suspension.
func (g *Gate) OnManualScroll() {
	g.until = g.clock.Now().Add(g.window)
}

// ShouldAutoScroll vaut true si la fenêtre est expirée ou n'a jamais été ouverte.
func (g *Gate) ShouldAutoScroll() bool {
	if g.until.IsZero() {
		return true
	}
	if g.clock.Now().Before(g.until) {
		return false
	}
	g.until = time.Time{}
	return true
}

// Deadline renvoie l'échéance courante et true si la fenêtre est ouverte.
func (g *Gate) Deadline() (time.Time, bool) {
	if g.ShouldAutoScroll() {
		return time.Time{}, false
	}
	return g.until, true
}

// Reset ferme la fenêtre immédiatement.
func (g *Gate) Reset() {
	g.until = time.Time{}
}
