package syncengine

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/patrickprogramme/ccviewer/pkg/model"
)

// Engine relie Resolve, Gate, le Highlighter et le Viewport pour une piste donnée.
//
// Tick est sérialisé par un mutex : un tick s'exécute entièrement avant le suivant,
// et Current renvoie toujours l'état du dernier tick terminé.
type Engine struct {
	mu sync.Mutex

	track       model.Track // référencée, jamais modifiée
	gate        *Gate
	viewport    Viewport
	highlighter Highlighter
	metrics     Recorder
	log         *slog.Logger

	last    int // dernier index surligné, écrit uniquement par Tick
	current Result
}

// Option configure un Engine.
type Option func(*engineOptions)

type engineOptions struct {
	clock       clockwork.Clock
	window      time.Duration
	viewport    Viewport
	highlighter Highlighter
	metrics     Recorder
	log         *slog.Logger
}

// WithClock injecte l'horloge utilisée par la fenêtre de suspension.
func WithClock(c clockwork.Clock) Option {
	return func(o *engineOptions) { o.clock = c }
}

// WithSuppressionWindow change la durée de la fenêtre de suspension.
func WithSuppressionWindow(d time.Duration) Option {
	return func(o *engineOptions) { o.window = d }
}

func WithViewport(v Viewport) Option {
	return func(o *engineOptions) { o.viewport = v }
}

func WithHighlighter(h Highlighter) Option {
	return func(o *engineOptions) { o.highlighter = h }
}

// WithMetrics branche un Recorder ; nil désactive les compteurs.
func WithMetrics(r Recorder) Option {
	return func(o *engineOptions) { o.metrics = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *engineOptions) { o.log = l }
}

// New construit un Engine pour track. La piste est référencée, pas copiée.
func New(track model.Track, opts ...Option) *Engine {
	o := engineOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.metrics == nil {
		o.metrics = nopRecorder{}
	}
	return &Engine{
		track:       track,
		gate:        NewGate(o.clock, o.window),
		viewport:    o.viewport,
		highlighter: o.highlighter,
		metrics:     o.metrics,
		log:         o.log,
		last:        NoIndex,
		current:     Result{Index: NoIndex},
	}
}

// Track renvoie la piste suivie.
func (e *Engine) Track() model.Track {
	return e.track
}

// TickFrom interroge le Player puis applique Tick. Un Player nil équivaut à une
// position indisponible.
func (e *Engine) TickFrom(p Player) Result {
	if p == nil {
		return e.Tick(0, false, false)
	}
	t, ok := p.CurrentTime()
	return e.Tick(t, ok, p.IsPlaying())
}

// Tick évalue la position t.
//
//  1. Resolve(t).
//  2. Aucun résultat : on efface le surlignage et last repasse à NoIndex, de sorte
//     qu'un retour sur la même entrée après un trou déclenche à nouveau le défilement.
//  3. Index i : surligner i ; si playing, si la fenêtre manuelle est fermée et si i
//     diffère du dernier index, demander le défilement quand i n'est pas déjà visible.
//     last = i dans tous les cas.
//
// ok == false (lecteur pas prêt) ou piste vide : aucun surlignage, aucun défilement.
func (e *Engine) Tick(t model.Seconds, ok bool, playing bool) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.metrics.IncTicks()

	var (
		pos   Position
		found bool
	)
	if ok {
		pos, found = Resolve(t, e.track)
	}

	if !found {
		res := Result{Index: NoIndex, Changed: e.last != NoIndex}
		if res.Changed {
			e.emitHighlight(NoIndex)
			e.log.Debug("highlight cleared", slog.Float64("time", float64(t)), slog.Bool("time_ok", ok))
		}
		e.last = NoIndex
		e.current = res
		return res
	}

	res := Result{Index: pos.Index, Exact: pos.Exact, Changed: pos.Index != e.last}
	if res.Changed {
		e.emitHighlight(pos.Index)
		e.log.Debug("highlight changed",
			slog.Int("index", pos.Index),
			slog.Bool("exact", pos.Exact),
			slog.Float64("time", float64(t)),
		)
	}

	if playing && res.Changed {
		if e.gate.ShouldAutoScroll() {
			res.Scrolled = e.scrollIntoView(pos.Index)
		} else {
			res.Suppressed = true
			e.metrics.IncScrollSuppressed()
		}
	}

	e.last = pos.Index
	e.current = res
	return res
}

// OnManualScroll signale un défilement de la liste par l'utilisateur.
func (e *Engine) OnManualScroll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gate.OnManualScroll()
	e.metrics.IncManualScrolls()
}

// Current renvoie le résultat du dernier tick terminé.
func (e *Engine) Current() Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// State renvoie une copie de l'état interne.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	until, active := e.gate.Deadline()
	return State{
		LastHighlighted:    e.last,
		ManualScrollActive: active,
		SuppressedUntil:    until,
	}
}

// Reset efface le surlignage et ferme la fenêtre de suspension (fin de session).
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.last != NoIndex {
		e.emitHighlight(NoIndex)
	}
	e.last = NoIndex
	e.current = Result{Index: NoIndex}
	e.gate.Reset()
}

func (e *Engine) emitHighlight(i int) {
	if e.highlighter != nil {
		e.highlighter.Highlight(i)
	}
	e.metrics.IncHighlightChanges()
}

// scrollIntoView demande le défilement si l'entrée i n'est pas déjà visible.
// Une entrée dont la boîte est inconnue est considérée hors champ.
func (e *Engine) scrollIntoView(i int) bool {
	if e.viewport == nil {
		return false
	}
	if r, ok := e.viewport.Bounds(i); ok && isVisible(r, e.viewport.Height()) {
		return false
	}
	e.viewport.ScrollTo(i)
	e.metrics.IncScrollRequests()
	e.log.Debug("scroll requested", slog.Int("index", i))
	return true
}

// isVisible applique la tolérance VisibilityBuffer de part et d'autre du conteneur.
func isVisible(r Rect, height float64) bool {
	return r.Top >= -VisibilityBuffer && r.Bottom <= height+VisibilityBuffer
}

type nopRecorder struct{}

func (nopRecorder) IncTicks()            {}
func (nopRecorder) IncHighlightChanges() {}
func (nopRecorder) IncScrollRequests()   {}
func (nopRecorder) IncScrollSuppressed() {}
func (nopRecorder) IncManualScrolls()    {}
