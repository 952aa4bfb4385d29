package bridge

import (
	"io"
	"log/slog"
	"mime"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/patrickprogramme/ccviewer/internal/platform/logger"
	"github.com/patrickprogramme/ccviewer/internal/platform/metrics"
)

// DefaultOrigins : les pages vidéo du site.
var DefaultOrigins = []string{"https://www.bilibili.com", "https://*.bilibili.com"}

// CORSOptions autorise la page du lecteur à appeler le bridge local.
func CORSOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = DefaultOrigins
	}
	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}
}

// NewRouter monte les routes du bridge.
func NewRouter(h *Handler, log *slog.Logger, m *metrics.Metrics, origins []string) *chi.Mux {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(logger.RequestLogger(log))
	if m != nil {
		r.Use(metrics.RequestMiddleware(m))
	}
	r.Use(cors.Handler(CORSOptions(origins)))

	r.Get("/metrics", h.Metrics)
	r.Post("/sessions", h.CreateSession)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Delete("/", h.DeleteSession)
		r.Post("/player", h.UpdatePlayer)
		r.Post("/viewport", h.UpdateViewport)
		r.Post("/scroll", h.ManualScroll)
		r.Post("/visible", h.SetVisible)
		r.Get("/state", h.GetState)
		r.Get("/export/{format}", h.Export)
	})
	return r
}

func contentDisposition(filename string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": filename})
}
