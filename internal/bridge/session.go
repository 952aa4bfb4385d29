package bridge

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/patrickprogramme/ccviewer/internal/player"
	"github.com/patrickprogramme/ccviewer/internal/syncengine"
	"github.com/patrickprogramme/ccviewer/pkg/model"
)

// Session est une liste de sous-titres ouverte par une page.
// Elle possède son Engine, son Poller et l'état du lecteur rapporté par la page.
type Session struct {
	ID        string
	Title     string
	Meta      *model.Meta
	CreatedAt time.Time

	sync     *syncengine.Session
	player   *player.State
	viewport *remoteViewport
	visible  atomic.Bool
}

// StateView est la réponse de GET /sessions/{id}/state.
type StateView struct {
	Index              int     `json:"index"`
	Exact              bool    `json:"exact"`
	ScrollTo           *int    `json:"scrollTo"`
	Playing            bool    `json:"playing"`
	ManualScrollActive bool    `json:"manualScrollActive"`
	Time               float64 `json:"time,omitempty"`
}

func (s *Session) Engine() *syncengine.Engine {
	return s.sync.Engine()
}

func (s *Session) Track() model.Track {
	return s.sync.Engine().Track()
}

// UpdatePlayer enregistre l'état rapporté par la page et évalue aussitôt la
// position si le panneau est visible.
func (s *Session) UpdatePlayer(t model.Seconds, playing, available bool) syncengine.Result {
	s.player.Update(t, playing, available)
	if !s.visible.Load() {
		return s.Engine().Current()
	}
	return s.Engine().TickFrom(s.player)
}

func (s *Session) SetGeometry(g Geometry) {
	s.viewport.SetGeometry(g)
}

// ManualScroll : scrollTop facultatif (nil si la page ne l'a pas fourni).
func (s *Session) ManualScroll(scrollTop *float64) {
	if scrollTop != nil {
		s.viewport.SetScrollTop(*scrollTop)
	}
	s.sync.OnManualScroll()
}

func (s *Session) SetVisible(v bool) {
	s.visible.Store(v)
}

func (s *Session) Visible() bool {
	return s.visible.Load()
}

// State renvoie l'état du dernier tick et consomme la demande de défilement.
func (s *Session) State() StateView {
	eng := s.Engine()
	cur := eng.Current()
	st := eng.State()
	view := StateView{
		Index:              cur.Index,
		Exact:              cur.Exact,
		Playing:            s.player.IsPlaying(),
		ManualScrollActive: st.ManualScrollActive,
	}
	if t, ok := s.player.CurrentTime(); ok {
		view.Time = float64(t)
	}
	if i := s.viewport.TakeScroll(); i != syncengine.NoIndex {
		view.ScrollTo = &i
	}
	return view
}

// Close arrête le Poller ; aucun tick ne touche plus la piste ensuite.
func (s *Session) Close() {
	s.sync.Close()
}

// Done est fermé quand le Poller s'est arrêté.
func (s *Session) Done() <-chan struct{} {
	return s.sync.Done()
}

func startSession(ctx context.Context, id string, track model.Track, meta *model.Meta, cfg sessionConfig) *Session {
	s := &Session{
		ID:        id,
		Meta:      meta,
		CreatedAt: cfg.clock.Now(),
		player:    player.NewState(cfg.clock, cfg.staleAfter),
		viewport:  newRemoteViewport(),
	}
	if meta != nil {
		s.Title = meta.Title
	}
	s.visible.Store(true)

	opts := []syncengine.Option{
		syncengine.WithClock(cfg.clock),
		syncengine.WithSuppressionWindow(cfg.window),
		syncengine.WithViewport(s.viewport),
		syncengine.WithLogger(cfg.log.With("session", id)),
	}
	if cfg.recorder != nil {
		opts = append(opts, syncengine.WithMetrics(cfg.recorder))
	}
	eng := syncengine.New(track, opts...)

	s.sync = syncengine.Start(ctx, &syncengine.Poller{
		Engine:   eng,
		Player:   s.player,
		Visible:  s.visible.Load,
		Interval: cfg.interval,
		Clock:    cfg.clock,
		Log:      cfg.log,
	})
	return s
}
