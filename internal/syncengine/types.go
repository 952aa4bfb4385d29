// Package syncengine synchronise une piste de sous-titres avec la position de lecture :
// résolution de l'entrée courante, surlignage, défilement automatique et suspension
// de ce défilement pendant que l'utilisateur parcourt la liste.
package syncengine

import (
	"time"

	"github.com/patrickprogramme/ccviewer/pkg/model"
)

// NoIndex signale l'absence d'entrée surlignée.
const NoIndex = -1

const (
	// NearestThreshold : distance maximale (exclusive) pour la correspondance approchée.
	NearestThreshold model.Seconds = 1.0
	// SuppressionWindow : durée pendant laquelle un défilement manuel bloque le défilement auto.
	SuppressionWindow = 3 * time.Second
	// VisibilityBuffer : tolérance (en unités du viewport) pour considérer une entrée visible.
	VisibilityBuffer = 50.0
	// DefaultInterval : cadence de scrutation de la position de lecture.
	DefaultInterval = 100 * time.Millisecond
)

// Position est le résultat de Resolve. Exact vaut false pour une correspondance approchée.
type Position struct {
	Index int
	Exact bool
}

// Player expose l'état du lecteur vidéo.
// CurrentTime renvoie false si la position est indisponible (lecteur pas prêt).
type Player interface {
	CurrentTime() (model.Seconds, bool)
	IsPlaying() bool
}

// Rect est la boîte d'une entrée, relative au haut du conteneur qui défile.
type Rect struct {
	Top    float64
	Bottom float64
}

// Viewport est le collaborateur qui connaît la géométrie de la liste et effectue
// le défilement réel.
type Viewport interface {
	// Bounds renvoie la boîte de l'entrée i ; false si l'entrée n'est pas rendue.
	Bounds(i int) (Rect, bool)
	// Height est la hauteur visible du conteneur.
	Height() float64
	// ScrollTo amène l'entrée i dans la zone visible.
	ScrollTo(i int)
}

// Highlighter reçoit l'index surligné (NoIndex pour aucun).
type Highlighter interface {
	Highlight(i int)
}


// Recorder collecte les compteurs de l'engine ; metrics.Metrics l'implémente.
type Recorder interface {
	IncTicks()
	IncHighlightChanges()
	IncScrollRequests()
	IncScrollSuppressed()
	IncManualScrolls()
}

// Result est la sortie d'un tick, en pure donnée.
type Result struct {
	Index      int  `json:"index"`      // NoIndex si rien n'est surligné
	Exact      bool `json:"exact"`      // false pour une correspondance approchée
	Changed    bool `json:"changed"`    // l'index diffère du tick précédent
	Scrolled   bool `json:"scrolled"`   // un ScrollTo a été demandé pendant ce tick
	Suppressed bool `json:"suppressed"` // un défilement a été bloqué par la fenêtre manuelle
}

// State est l'état interne de l'engine (une instance par piste active).
type State struct {
	LastHighlighted    int
	ManualScrollActive bool
	SuppressedUntil    time.Time // zéro si aucune fenêtre ouverte
}
