// Package logger construit le *slog.Logger de l'application.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New renvoie un logger structuré écrivant sur stderr.
// level : "debug", "info", "warn", "error" (défaut "info").
// format : "json" ou "text" (défaut "text" : l'outil est surtout interactif).
func New(level, format string) *slog.Logger {
	return NewWithWriter(os.Stderr, level, format)
}

// NewWithWriter est New avec une destination explicite (tests).
func NewWithWriter(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var h slog.Handler
	if strings.ToLower(strings.TrimSpace(format)) == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

// ParseLevel convertit un niveau texte ; inconnu => info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
