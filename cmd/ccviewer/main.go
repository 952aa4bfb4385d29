package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/patrickprogramme/ccviewer/internal/app"
	"github.com/patrickprogramme/ccviewer/internal/bilibili"
	"github.com/patrickprogramme/ccviewer/internal/config"
	"github.com/patrickprogramme/ccviewer/internal/fetch"
	"github.com/patrickprogramme/ccviewer/internal/platform/logger"
	"github.com/patrickprogramme/ccviewer/internal/ui"
)

func main() {
	flags := parseFlags()

	// déterminer binDir
	binDir := "."
	if exePath, err := os.Executable(); err != nil {
		log.Printf("impossible de déterminer le chemin de l'executable: %v", err)
	} else {
		binDir = filepath.Dir(exePath)
	}

	// emplacement config par défaut : à côté de l'exécutable
	if flags.ConfigPath == config.DefaultPath || flags.ConfigPath == "" {
		flags.ConfigPath = filepath.Join(binDir, config.DefaultPath)
	}

	// .env du dossier courant puis de binDir ; les variables déjà définies gagnent
	if err := config.LoadEnv(".env", filepath.Join(binDir, ".env")); err != nil {
		log.Printf("warning: lecture .env: %v", err)
	}

	// charger la config (créée depuis l'asset embarqué si absente)
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		log.Fatalf("config load: %v", err)
	}
	cfg.ApplyEnv()

	warnings, err := cfg.Validate()
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if err != nil {
		log.Fatalf("config invalide: %v", err)
	}

	lg := logger.New(cfg.Log.Level, cfg.Log.Format)

	fc := &fetch.Client{
		Timeout:   cfg.API.Timeout,
		UserAgent: cfg.API.UserAgent,
		Header:    http.Header{},
	}
	if cfg.API.Referer != "" {
		fc.Header.Set("Referer", cfg.API.Referer)
	}
	client := bilibili.NewClient(cfg.API.BaseURL, fc, lg)

	// root context qui s'annule sur SIGINT / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tui := ui.NewTerminal()
	a := app.New(cfg, tui, flags, client, lg)
	if err := a.Run(ctx); err != nil {
		log.Fatalf("app run: %v", err)
	}
}

func parseFlags() *app.CLIFlags {
	f := &app.CLIFlags{}
	flag.StringVar(&f.ConfigPath, "config", config.DefaultPath, "path to config file")
	flag.StringVar(&f.Ref, "bvid", "", "URL, BVID ou avXXX de la vidéo (optionnel)")
	flag.Int64Var(&f.CID, "cid", 0, "cid de la page (optionnel, résolu depuis le BVID sinon)")
	flag.IntVar(&f.Page, "page", 1, "numéro de page (vidéos en plusieurs parties)")
	flag.StringVar(&f.Lang, "lang", "", "langue des sous-titres (ex: zh-CN, en-US)")
	flag.StringVar(&f.Export, "export", "", "format d'export : txt | srt | time | json | full")
	flag.StringVar(&f.Out, "out", "", "dossier d'export (prioritaire sur la config)")
	flag.StringVar(&f.Copy, "copy", "", "copier dans le presse-papier : plain | time")
	flag.StringVar(&f.Mode, "mode", "", "affichage du mode suivi : single | full")
	flag.BoolVar(&f.Follow, "follow", false, "afficher la liste synchronisée avec un lecteur simulé")
	flag.BoolVar(&f.Serve, "serve", false, "démarrer le bridge HTTP pour la page du lecteur")
	flag.Parse()
	return f
}
