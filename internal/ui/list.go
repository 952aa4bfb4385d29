package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/patrickprogramme/ccviewer/internal/syncengine"
	"github.com/patrickprogramme/ccviewer/pkg/model"
)

// RowHeight : hauteur d'une ligne de terminal, exprimée dans l'unité du Viewport.
// Avec 20 unités par ligne, la tolérance de visibilité couvre deux lignes et demie.
const RowHeight = 20.0

// Mode d'affichage de la liste.
type Mode string

const (
	ModeSingle Mode = "single" // une entrée horodatée par ligne
	ModeFull   Mode = "full"   // texte fusionné en un paragraphe
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeSingle:
		return ModeSingle, nil
	case ModeFull:
		return ModeFull, nil
	default:
		return "", fmt.Errorf("mode d'affichage inconnu: %s", s)
	}
}

// ListView est une fenêtre de Rows lignes sur la piste, rendue dans Out.
// Elle implémente syncengine.Viewport et syncengine.Highlighter.
//
// Scroll est la source des défilements manuels : OnManualScroll est appelé après
// libération du verrou interne, jamais pendant un Highlight ou un ScrollTo.
type ListView struct {
	mu sync.Mutex

	out     io.Writer
	track   model.Track
	rows    int
	mode    Mode
	clear   bool

	offset      int
	highlighted int

	onManualScroll func()
}

// ListOption configure un ListView.
type ListOption func(*ListView)

// WithMode choisit le mode d'affichage (single par défaut).
func WithMode(m Mode) ListOption {
	return func(l *ListView) { l.mode = m }
}

// WithClearScreen efface le terminal avant chaque rendu.
func WithClearScreen(on bool) ListOption {
	return func(l *ListView) { l.clear = on }
}

// WithManualScroll branche la notification de défilement manuel (Engine.OnManualScroll).
func WithManualScroll(fn func()) ListOption {
	return func(l *ListView) { l.onManualScroll = fn }
}

func NewListView(out io.Writer, track model.Track, rows int, opts ...ListOption) *ListView {
	if rows <= 0 {
		rows = 10
	}
	l := &ListView{
		out:         out,
		track:       track,
		rows:        rows,
		mode:        ModeSingle,
		highlighted: syncengine.NoIndex,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SetManualScroll remplace la notification de défilement manuel.
// Utile quand l'Engine est créé après la vue.
func (l *ListView) SetManualScroll(fn func()) {
	l.mu.Lock()
	l.onManualScroll = fn
	l.mu.Unlock()
}

// Bounds : boîte de l'entrée i relative au haut de la fenêtre.
// En mode full tout le texte tient dans un seul bloc, toujours visible.
func (l *ListView) Bounds(i int) (syncengine.Rect, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i < 0 || i >= l.track.Len() {
		return syncengine.Rect{}, false
	}
	if l.mode == ModeFull {
		return syncengine.Rect{Top: 0, Bottom: RowHeight}, true
	}
	top := float64(i-l.offset) * RowHeight
	return syncengine.Rect{Top: top, Bottom: top + RowHeight}, true
}

func (l *ListView) Height() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return float64(l.rows) * RowHeight
}

// ScrollTo centre l'entrée i dans la fenêtre.
func (l *ListView) ScrollTo(i int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.offset = l.clampOffset(i - l.rows/2)
	l.render()
}

func (l *ListView) Highlight(i int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.highlighted = i
	l.render()
}

// Scroll déplace la fenêtre de delta lignes à la demande de l'utilisateur.
func (l *ListView) Scroll(delta int) {
	l.mu.Lock()
	l.offset = l.clampOffset(l.offset + delta)
	l.render()
	notify := l.onManualScroll
	l.mu.Unlock()

	if notify != nil {
		notify()
	}
}

// Offset retourne l'index de la première ligne visible.
func (l *ListView) Offset() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.offset
}

// Highlighted retourne l'index surligné (NoIndex si aucun).
func (l *ListView) Highlighted() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.highlighted
}

// SetMode bascule entre single et full puis redessine.
func (l *ListView) SetMode(m Mode) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mode = m
	l.render()
}

func (l *ListView) Mode() Mode {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mode
}

// Entry retourne l'entrée i (clic sur une ligne -> seek).
func (l *ListView) Entry(i int) (model.Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.track.At(i)
}

// Render redessine la fenêtre.
func (l *ListView) Render() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.render()
}

func (l *ListView) clampOffset(o int) int {
	max := l.track.Len() - l.rows
	if o > max {
		o = max
	}
	if o < 0 {
		o = 0
	}
	return o
}

// render suppose l.mu tenu.
func (l *ListView) render() {
	if l.out == nil {
		return
	}
	var b strings.Builder
	if l.clear {
		b.WriteString("\033[H\033[2J")
	}
	if l.mode == ModeFull {
		l.renderFull(&b)
	} else {
		l.renderSingle(&b)
	}
	io.WriteString(l.out, b.String())
}

func (l *ListView) renderSingle(b *strings.Builder) {
	end := min(l.offset+l.rows, l.track.Len())
	for i := l.offset; i < end; i++ {
		e := l.track.Entries[i]
		marker := "  "
		if i == l.highlighted {
			marker = "▶ "
		}
		fmt.Fprintf(b, "%s[%s] %s\n", marker, e.Start.TimestampMMSS(), oneLine(e.Text))
	}
}

func (l *ListView) renderFull(b *strings.Builder) {
	parts := make([]string, 0, l.track.Len())
	for i, e := range l.track.Entries {
		t := oneLine(e.Text)
		if i == l.highlighted {
			t = "»" + t + "«"
		}
		parts = append(parts, t)
	}
	b.WriteString(strings.Join(parts, " "))
	b.WriteByte('\n')
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
