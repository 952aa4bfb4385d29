package logger

import (
	"log/slog"
	"net/http"
	"time"
)

// responseWriter capture le code de statut et la taille de la réponse.
type responseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (w *responseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	return n, err
}

// RequestLogger est un middleware chi qui journalise chaque requête du bridge.
// Les requêtes de scrutation (GET .../state) sont très fréquentes : niveau debug.
func RequestLogger(log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrap := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(wrap, r)

			lvl := slog.LevelInfo
			if r.Method == http.MethodGet || (r.Method == http.MethodPost && wrap.status < 300) {
				lvl = slog.LevelDebug
			}
			if wrap.status >= 500 {
				lvl = slog.LevelError
			}
			log.Log(r.Context(), lvl, "request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", wrap.status),
				slog.Int("duration_ms", int(time.Since(start).Milliseconds())),
				slog.Int("size", wrap.size),
			)
		})
	}
}
