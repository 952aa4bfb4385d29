// Package bridge expose le moteur de synchronisation à la page du lecteur via
// une petite API HTTP locale : la page pousse l'état du lecteur et la géométrie
// de la liste, et lit en retour l'entrée à surligner et le défilement demandé.
package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/patrickprogramme/ccviewer/internal/bilibili"
	"github.com/patrickprogramme/ccviewer/internal/platform/metrics"
	"github.com/patrickprogramme/ccviewer/internal/subtitles"
	"github.com/patrickprogramme/ccviewer/internal/syncengine"
	"github.com/patrickprogramme/ccviewer/pkg/model"
)

const maxBodyBytes = 1 << 20

// Options règle les sessions créées par le Handler. Les valeurs zéro prennent
// les défauts du moteur.
type Options struct {
	PollInterval      time.Duration
	SuppressionWindow time.Duration
	StaleAfter        time.Duration
	Clock             clockwork.Clock
}

type sessionConfig struct {
	clock      clockwork.Clock
	interval   time.Duration
	window     time.Duration
	staleAfter time.Duration
	recorder   syncengine.Recorder
	log        *slog.Logger
}

// Handler expose les endpoints du bridge.
type Handler struct {
	store   *Store
	loader  TrackLoader
	log     *slog.Logger
	metrics *metrics.Metrics
	cfg     sessionConfig

	// ctx parent des pollers : annulé par Shutdown.
	ctx    context.Context
	cancel context.CancelFunc
}

// NewHandler construit un Handler. m peut être nil (tests).
func NewHandler(loader TrackLoader, log *slog.Logger, m *metrics.Metrics, opts Options) *Handler {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	cfg := sessionConfig{
		clock:      clock,
		interval:   opts.PollInterval,
		window:     opts.SuppressionWindow,
		staleAfter: opts.StaleAfter,
		log:        log,
	}
	if m != nil {
		cfg.recorder = m
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Handler{
		store:   NewStore(),
		loader:  loader,
		log:     log,
		metrics: m,
		cfg:     cfg,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Store donne accès aux sessions ouvertes.
func (h *Handler) Store() *Store {
	return h.store
}

// Shutdown ferme toutes les sessions.
func (h *Handler) Shutdown() {
	h.cancel()
	h.store.CloseAll()
	h.updateGauges()
}

func (h *Handler) updateGauges() {
	if h.metrics != nil {
		h.metrics.SetActiveSessions(h.store.Len())
	}
}

type createResponse struct {
	ID      string        `json:"id"`
	Title   string        `json:"title,omitempty"`
	Lang    string        `json:"lang,omitempty"`
	Entries []model.Entry `json:"entries"`
	Issues  int           `json:"issues"`
}

// CreateSession handles POST /sessions.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req LoadRequest
	if !h.decode(w, r, &req) {
		return
	}

	track, meta, err := h.loader.Load(r.Context(), req)
	if err != nil {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, subtitles.ErrNoSubtitle):
			status = http.StatusNotFound
		case errors.Is(err, bilibili.ErrMissingIDs):
			status = http.StatusBadRequest
		}
		h.log.Info("session load failed", slog.String("bvid", req.BVID), slog.Int("status", status), slog.String("error", err.Error()))
		h.writeError(w, status, err)
		return
	}

	issues := subtitles.Validate(track)
	if len(issues) > 0 {
		h.log.Warn("subtitle track has issues", slog.Int("count", len(issues)), slog.String("first", issues[0].String()))
	}

	id := uuid.NewString()
	sess := startSession(h.ctx, id, track, meta, h.cfg)
	if sess.Title == "" {
		sess.Title = req.Title
	}
	h.store.Add(sess)
	h.updateGauges()

	h.log.Info("session created", slog.String("session", id), slog.Int("entries", track.Len()), slog.String("lang", track.Lang))
	h.writeJSON(w, http.StatusCreated, createResponse{
		ID:      id,
		Title:   sess.Title,
		Lang:    track.Lang,
		Entries: track.Entries,
		Issues:  len(issues),
	})
}

type playerRequest struct {
	Time      *float64 `json:"time"`
	Playing   bool     `json:"playing"`
	Available *bool    `json:"available"`
}

// UpdatePlayer handles POST /sessions/{id}/player.
// available absent => vrai si time est fourni.
func (h *Handler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req playerRequest
	if !h.decode(w, r, &req) {
		return
	}
	var t model.Seconds
	available := req.Time != nil
	if req.Time != nil {
		t = model.Seconds(*req.Time)
	}
	if req.Available != nil {
		available = available && *req.Available
	}
	res := sess.UpdatePlayer(t, req.Playing, available)
	h.writeJSON(w, http.StatusOK, res)
}

// UpdateViewport handles POST /sessions/{id}/viewport.
func (h *Handler) UpdateViewport(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var g Geometry
	if !h.decode(w, r, &g) {
		return
	}
	sess.SetGeometry(g)
	w.WriteHeader(http.StatusNoContent)
}

type scrollRequest struct {
	ScrollTop *float64 `json:"scrollTop"`
}

// ManualScroll handles POST /sessions/{id}/scroll. Le corps est facultatif.
func (h *Handler) ManualScroll(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req scrollRequest
	if r.ContentLength != 0 {
		if !h.decode(w, r, &req) {
			return
		}
	}
	sess.ManualScroll(req.ScrollTop)
	w.WriteHeader(http.StatusNoContent)
}

type visibleRequest struct {
	Visible bool `json:"visible"`
}

// SetVisible handles POST /sessions/{id}/visible (panneau déplié/replié).
func (h *Handler) SetVisible(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req visibleRequest
	if !h.decode(w, r, &req) {
		return
	}
	sess.SetVisible(req.Visible)
	h.log.Debug("panel visibility", slog.String("session", sess.ID), slog.Bool("visible", req.Visible))
	w.WriteHeader(http.StatusNoContent)
}

// GetState handles GET /sessions/{id}/state.
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, sess.State())
}

// Export handles GET /sessions/{id}/export/{format}.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	format, err := model.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	track := sess.Track()
	out, err := subtitles.Export(track, format)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	ct := "text/plain; charset=utf-8"
	if format == model.FormatJSON {
		ct = "application/json"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", contentDisposition(subtitles.Filename(sess.Title, track.Lang, format)))
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, out); err != nil {
		h.log.Debug("write export", slog.String("session", sess.ID), slog.String("error", err.Error()))
	}
}

// DeleteSession handles DELETE /sessions/{id}.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Remove(id); err != nil {
		h.writeError(w, http.StatusNotFound, err)
		return
	}
	h.updateGauges()
	h.log.Info("session closed", slog.String("session", id))
	w.WriteHeader(http.StatusNoContent)
}

// Metrics handles GET /metrics.
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.metrics == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	h.metrics.Handler(h.updateGauges).ServeHTTP(w, r)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		w.WriteHeader(http.StatusBadRequest)
		return nil, false
	}
	sess, err := h.store.Get(id)
	if err != nil {
		h.writeError(w, http.StatusNotFound, err)
		return nil, false
	}
	return sess, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.log.Debug("invalid body", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		h.writeError(w, http.StatusBadRequest, err)
		return false
	}
	return true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Debug("write response", slog.Int("status", status), slog.String("error", err.Error()))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}
