package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/patrickprogramme/ccviewer/internal/bridge"
	"github.com/patrickprogramme/ccviewer/internal/fsutil"
	"github.com/patrickprogramme/ccviewer/internal/platform/metrics"
	"github.com/patrickprogramme/ccviewer/internal/player"
	"github.com/patrickprogramme/ccviewer/internal/subtitles"
	"github.com/patrickprogramme/ccviewer/internal/syncengine"
	"github.com/patrickprogramme/ccviewer/internal/ui"
	"github.com/patrickprogramme/ccviewer/pkg/model"
)

const (
	shutdownTimeout = 10 * time.Second
	seekStep        = 5 * model.Seconds(1)
)

var ErrUnknownCopyMode = errors.New("mode de copie inconnu")

// ExportTrack rend la piste au format demandé et l'écrit dans le dossier d'export.
// Retourne le chemin du fichier écrit.
func (a *App) ExportTrack(track model.Track, title, format string) (string, error) {
	f, err := model.ParseFormat(format)
	if err != nil {
		return "", err
	}
	content, err := subtitles.Export(track, f)
	if err != nil {
		return "", fmt.Errorf("export %s: %w", f, err)
	}
	outDir := a.flags.Out
	if outDir == "" {
		outDir = a.cfg.ExportDir
	}
	path, err := fsutil.SaveAtomic(outDir, subtitles.Filename(title, track.Lang, f), []byte(content), false)
	if err != nil {
		return "", fmt.Errorf("cannot save file to disk: %w", err)
	}
	a.log.Info("track exported", slog.String("path", path), slog.String("format", f.String()))
	return path, nil
}

// CopyTrack copie la piste dans le presse-papier : "plain" (texte seul) ou "time" (horodaté).
func (a *App) CopyTrack(track model.Track, mode string) error {
	var text string
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "plain", "txt", "text":
		text = subtitles.PlainText(track)
	case "time":
		text = subtitles.TextWithTime(track)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCopyMode, mode)
	}
	if err := a.clip.WriteAll(text); err != nil {
		return fmt.Errorf("copie dans le presse-papier: %w", err)
	}
	return nil
}

// Follow affiche la liste synchronisée avec un lecteur simulé jusqu'à "q", EOF ou ctx.
//
// Commandes : p lecture/pause, j/k défilement manuel, +/- saut de 5s,
// g N aller à l'entrée N, f bascule single/full, q quitter.
func (a *App) Follow(ctx context.Context, track model.Track) error {
	if track.IsEmpty() {
		return fmt.Errorf("follow: piste vide")
	}
	mode, err := ui.ParseMode(a.flags.Mode)
	if err != nil {
		return err
	}
	if a.flags.Mode == "" {
		mode, _ = ui.ParseMode(a.cfg.DisplayMode)
	}

	duration := track.Entries[track.Len()-1].End
	clk := player.NewClock(a.clock, duration)
	view := ui.NewListView(a.out, track, a.cfg.ListRows, ui.WithMode(mode), ui.WithClearScreen(true))
	eng := syncengine.New(track,
		syncengine.WithClock(a.clock),
		syncengine.WithSuppressionWindow(a.cfg.Sync.SuppressionWindow),
		syncengine.WithViewport(view),
		syncengine.WithHighlighter(view),
		syncengine.WithLogger(a.log),
	)
	sess := syncengine.Start(ctx, &syncengine.Poller{
		Engine:   eng,
		Player:   clk,
		Interval: a.cfg.Sync.PollInterval,
		Clock:    a.clock,
		Log:      a.log,
	})
	defer sess.Close()
	view.SetManualScroll(sess.OnManualScroll)

	view.Render()
	clk.Play()

	for {
		cmd, err := a.ui.ReadCommand(ctx)
		if err != nil {
			// Ctrl+D / stdin fermé : sortie normale
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if quit := a.followCommand(cmd, clk, view); quit {
			return nil
		}
	}
}

// followCommand applique une commande ; true pour quitter.
func (a *App) followCommand(cmd string, clk *player.Clock, view *ui.ListView) bool {
	fields := strings.Fields(cmd)
	if len(fields) == 0 {
		return false
	}
	switch fields[0] {
	case "q", "quit":
		return true
	case "p", "pause", "play":
		clk.Toggle()
	case "j":
		view.Scroll(1)
	case "k":
		view.Scroll(-1)
	case "+":
		t, _ := clk.CurrentTime()
		clk.Seek(t + seekStep)
	case "-":
		t, _ := clk.CurrentTime()
		clk.Seek(t - seekStep)
	case "g":
		if len(fields) < 2 {
			return false
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return false
		}
		// même effet qu'un clic sur la ligne : seek au début de l'entrée
		if e, ok := view.Entry(n); ok {
			clk.Seek(e.Start)
		}
	case "f":
		if view.Mode() == ui.ModeFull {
			view.SetMode(ui.ModeSingle)
		} else {
			view.SetMode(ui.ModeFull)
		}
	}
	return false
}

// NewBridgeServer construit le serveur HTTP du bridge (sans le démarrer).
func (a *App) NewBridgeServer(met *metrics.Metrics) (*http.Server, *bridge.Handler) {
	h := bridge.NewHandler(bridge.BilibiliLoader{Client: a.client}, a.log, met, bridge.Options{
		PollInterval:      a.cfg.Sync.PollInterval,
		SuppressionWindow: a.cfg.Sync.SuppressionWindow,
		StaleAfter:        a.cfg.Bridge.StaleAfter,
		Clock:             a.clock,
	})
	r := bridge.NewRouter(h, a.log, met, a.cfg.Bridge.AllowedOrigins)
	srv := &http.Server{
		Addr:              a.cfg.Bridge.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv, h
}

// Serve démarre le bridge et bloque jusqu'à l'annulation de ctx.
func (a *App) Serve(ctx context.Context) error {
	met := metrics.New()
	srv, h := a.NewBridgeServer(met)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	a.log.Info("bridge starting",
		slog.String("addr", srv.Addr),
		slog.Any("origins", a.cfg.Bridge.AllowedOrigins),
		slog.Duration("poll_interval", a.cfg.Sync.PollInterval),
	)

	select {
	case err := <-errCh:
		h.Shutdown()
		return fmt.Errorf("bridge: %w", err)
	case <-ctx.Done():
	}

	a.log.Info("shutdown signal received, draining connections")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(sctx)
	h.Shutdown()
	if err != nil {
		return fmt.Errorf("bridge shutdown: %w", err)
	}
	a.log.Info("bridge stopped")
	return nil
}
