package bridge

import (
	"sync"

	"github.com/patrickprogramme/ccviewer/internal/syncengine"
)

// Geometry est la géométrie de la liste côté page, en pixels CSS.
type Geometry struct {
	ScrollTop float64 `json:"scrollTop"`
	Height    float64 `json:"height"`
	RowHeight float64 `json:"rowHeight"`
}

// remoteViewport implémente syncengine.Viewport à partir de la dernière géométrie
// rapportée par la page. Les lignes sont supposées de hauteur RowHeight.
// ScrollTo ne fait que mémoriser la demande ; la page la consomme via GET /state.
type remoteViewport struct {
	mu      sync.Mutex
	geo     Geometry
	known   bool
	pending int
}

func newRemoteViewport() *remoteViewport {
	return &remoteViewport{pending: syncengine.NoIndex}
}

func (v *remoteViewport) SetGeometry(g Geometry) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.geo = g
	v.known = g.RowHeight > 0 && g.Height > 0
}

func (v *remoteViewport) SetScrollTop(top float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.geo.ScrollTop = top
}

// Bounds : géométrie inconnue => boîte inconnue, l'Engine défile.
func (v *remoteViewport) Bounds(i int) (syncengine.Rect, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.known || i < 0 {
		return syncengine.Rect{}, false
	}
	top := float64(i)*v.geo.RowHeight - v.geo.ScrollTop
	return syncengine.Rect{Top: top, Bottom: top + v.geo.RowHeight}, true
}

func (v *remoteViewport) Height() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.geo.Height
}

// ScrollTo mémorise la demande ; la page centrera l'entrée. On anticipe le
// nouveau scrollTop pour que les visibilités suivantes restent cohérentes.
func (v *remoteViewport) ScrollTo(i int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pending = i
	if v.known {
		top := float64(i)*v.geo.RowHeight - v.geo.Height/2
		if top < 0 {
			top = 0
		}
		v.geo.ScrollTop = top
	}
}

// TakeScroll consomme la demande de défilement en attente (NoIndex si aucune).
func (v *remoteViewport) TakeScroll() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	i := v.pending
	v.pending = syncengine.NoIndex
	return i
}
