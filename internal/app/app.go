package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/patrickprogramme/ccviewer/internal/bilibili"
	"github.com/patrickprogramme/ccviewer/internal/clipboard"
	"github.com/patrickprogramme/ccviewer/internal/config"
	"github.com/patrickprogramme/ccviewer/internal/subtitles"
	"github.com/patrickprogramme/ccviewer/internal/ui"
	"github.com/patrickprogramme/ccviewer/pkg/model"
)

// CLIFlags contient les information venant des flags de l'app
type CLIFlags struct {
	ConfigPath string
	Ref        string // URL, BVID ou avXXX
	CID        int64
	Page       int
	Lang       string
	Export     string // format d'export, vide = selon la config
	Out        string // dossier d'export, prioritaire sur la config
	Copy       string // plain | time
	Mode       string // single | full
	Follow     bool
	Serve      bool
}

// App orchestre les différentes dépendances (UI, client Bilibili, FS, presse-papier...)
type App struct {
	cfg    *config.Config
	ui     ui.Interface
	flags  *CLIFlags
	client *bilibili.Client
	log    *slog.Logger

	clip  clipboard.Writer
	clock clockwork.Clock
	out   io.Writer // rendu du mode suivi
}

// Option configure App (tests).
type Option func(*App)

func WithClipboard(w clipboard.Writer) Option {
	return func(a *App) { a.clip = w }
}

func WithClock(c clockwork.Clock) Option {
	return func(a *App) { a.clock = c }
}

func WithOutput(w io.Writer) Option {
	return func(a *App) { a.out = w }
}

// New construit l'application. log peut être nil.
func New(cfg *config.Config, uiClient ui.Interface, flags *CLIFlags, client *bilibili.Client, log *slog.Logger, opts ...Option) *App {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	a := &App{
		cfg:    cfg,
		ui:     uiClient,
		flags:  flags,
		client: client,
		log:    log,
		clip:   clipboard.System{},
		clock:  clockwork.NewRealClock(),
		out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run exécute le flux principal : bridge (-serve) ou chargement d'une piste puis
// export / copie / suivi.
func (a *App) Run(ctx context.Context) error {
	if a.flags.Serve {
		return a.Serve(ctx)
	}

	// Récupération de la vidéo : priorité flag > clipboard > prompt
	ref := a.flags.Ref
	if ref == "" && a.flags.CID == 0 {
		r, err := a.ui.GetVideoRef(ctx)
		if err != nil {
			return fmt.Errorf("get video: %w", err)
		}
		ref = r
	}

	ids, err := a.resolveIDs(ctx, ref)
	if err != nil {
		return fmt.Errorf("resolve video: %w", err)
	}

	lang := a.flags.Lang
	if lang == "" {
		lang = a.cfg.Lang
	}
	track, meta, err := a.client.Track(ctx, ids, lang)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("opération annulée")
		}
		if errors.Is(err, bilibili.ErrNoSubtitle) && meta != nil {
			a.ui.PrintInfo(ctx, meta.Pretty())
		}
		return fmt.Errorf("load subtitles: %w", err)
	}
	a.ui.PrintInfo(ctx, meta.Pretty())
	a.reportIssues(ctx, track)

	title := meta.Title
	if title == "" {
		title = ids.BVID
	}

	exported := false
	if a.flags.Export != "" || (a.flags.Copy == "" && !a.flags.Follow) {
		format := a.flags.Export
		if format == "" {
			format = a.cfg.ExportFormat
		}
		path, err := a.ExportTrack(track, title, format)
		if err != nil {
			return err
		}
		a.ui.PrintInfo(ctx, fmt.Sprintf("Sous-titres écrits dans :\n%s", path))
		exported = true
	}

	if a.flags.Copy != "" {
		if err := a.CopyTrack(track, a.flags.Copy); err != nil {
			return err
		}
		a.ui.PrintInfo(ctx, fmt.Sprintf("%d entrées copiées dans le presse-papier.", track.Len()))
	}

	if a.flags.Follow {
		return a.Follow(ctx, track)
	}

	a.log.Debug("run done", slog.Bool("exported", exported), slog.String("copy", a.flags.Copy))
	return nil
}

// resolveIDs : cid explicite, sinon résolution via la liste des pages du BVID.
func (a *App) resolveIDs(ctx context.Context, ref string) (model.VideoIDs, error) {
	ids := model.VideoIDs{CID: a.flags.CID}
	if bvid, ok := bilibili.ParseBVID(ref); ok {
		ids.BVID = bvid
	}
	if aid, ok := bilibili.ParseAID(ref); ok {
		ids.AID = aid
	}
	if ids.BVID == "" && ids.AID == 0 && !ids.HasCID() {
		return ids, fmt.Errorf("%w: %q", bilibili.ErrMissingIDs, ref)
	}

	provider := bilibili.Chain{
		bilibili.StaticContext{IDs: ids},
		bilibili.PageListContext{Client: a.client, BVID: ids.BVID, Page: a.flags.Page},
	}
	resolved, err := provider.VideoIDs(ctx)
	if err != nil {
		return ids, err
	}
	resolved.AID = ids.AID
	a.log.Debug("video resolved", slog.String("ids", resolved.String()))
	return resolved, nil
}

// reportIssues avertit des entrées inversées, désordonnées ou qui se chevauchent.
func (a *App) reportIssues(ctx context.Context, track model.Track) {
	issues := subtitles.Validate(track)
	if len(issues) == 0 {
		return
	}
	const maxShown = 5
	lines := make([]string, 0, maxShown)
	for i, is := range issues {
		if i == maxShown {
			lines = append(lines, fmt.Sprintf("... et %d autres", len(issues)-maxShown))
			break
		}
		lines = append(lines, "  "+is.String())
	}
	a.ui.PrintError(ctx, fmt.Sprintf("⚠️  %d anomalies dans la piste (l'entrée de plus petit index l'emporte) :\n%s",
		len(issues), strings.Join(lines, "\n")))
}
