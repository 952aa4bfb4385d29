package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/patrickprogramme/ccviewer/internal/bilibili"
	"github.com/patrickprogramme/ccviewer/internal/config"
	"github.com/patrickprogramme/ccviewer/internal/fetch"
	"github.com/patrickprogramme/ccviewer/internal/player"
	"github.com/patrickprogramme/ccviewer/internal/ui"
	"github.com/patrickprogramme/ccviewer/pkg/model"
)

// fakeUI rejoue des commandes et capture les messages.
type fakeUI struct {
	ref      string
	commands []string
	info     []string
	errs     []string
}

func (f *fakeUI) GetVideoRef(context.Context) (string, error) {
	if f.ref == "" {
		return "", errors.New("no ref")
	}
	return f.ref, nil
}

func (f *fakeUI) PrintInfo(_ context.Context, s string) { f.info = append(f.info, s) }

func (f *fakeUI) PrintError(_ context.Context, s string) { f.errs = append(f.errs, s) }

func (f *fakeUI) ReadCommand(context.Context) (string, error) {
	if len(f.commands) == 0 {
		return "", io.EOF
	}
	c := f.commands[0]
	f.commands = f.commands[1:]
	return c, nil
}

type fakeClipboard struct{ text string }

func (c *fakeClipboard) WriteAll(s string) error {
	c.text = s
	return nil
}

// newAPI : faux api.bilibili.com (TLS, le document de sous-titres est forcé en https).
func newAPI(t *testing.T) *bilibili.Client {
	t.Helper()
	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/x/player/pagelist", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":0,"data":[{"cid":111,"page":1},{"cid":222,"page":2}]}`)
	})
	mux.HandleFunc("/x/player/v2", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("cid") != "222" {
			fmt.Fprint(w, `{"code":0,"data":{"subtitle":{"subtitles":[]}}}`)
			return
		}
		fmt.Fprintf(w, `{"code":0,"data":{"subtitle":{"subtitles":[{"lan":"zh-CN","lan_doc":"中文","subtitle_url":"%s/sub.json"}]}}}`,
			strings.TrimPrefix(srv.URL, "https:"))
	})
	mux.HandleFunc("/x/web-interface/view", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":0,"data":{"title":"演示: 第二集"}}`)
	})
	mux.HandleFunc("/sub.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"body":[{"from":0,"to":2,"content":"一"},{"from":1.5,"to":4,"content":"二"},{"from":5,"to":6,"content":"三"}]}`)
	})
	srv = httptest.NewTLSServer(mux)
	t.Cleanup(srv.Close)
	return bilibili.NewClient(srv.URL, &fetch.Client{HTTP: srv.Client()}, nil)
}

func testConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.ExportDir = t.TempDir()
	cfg.ListRows = 3
	return cfg
}

func TestRun_ExportAndCopy(t *testing.T) {
	cfg := testConfig(t)
	tui := &fakeUI{ref: "https://www.bilibili.com/video/BV1GJ411x7h7/?p=2"}
	clip := &fakeClipboard{}
	flags := &CLIFlags{Page: 2, Export: "srt", Copy: "time"}

	a := New(cfg, tui, flags, newAPI(t), nil, WithClipboard(clip))
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	path := filepath.Join(cfg.ExportDir, "演示- 第二集 (zh-CN).srt")
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("export not written: %v", err)
	}
	if !strings.HasPrefix(string(b), "1\n00:00:00,000 --> 00:00:02,000\n一\n") {
		t.Errorf("srt content = %q", b)
	}
	if clip.text != "[00:00] 一\n[00:01] 二\n[00:05] 三" {
		t.Errorf("clipboard = %q", clip.text)
	}
	// l'entrée 1 chevauche l'entrée 0 : avertissement
	if len(tui.errs) != 1 || !strings.Contains(tui.errs[0], "overlap") {
		t.Errorf("warnings = %v", tui.errs)
	}
}

func TestRun_DefaultExportFromConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.ExportFormat = "full"
	flags := &CLIFlags{Ref: "BV1GJ411x7h7", CID: 222}

	a := New(cfg, &fakeUI{}, flags, newAPI(t), nil, WithClipboard(&fakeClipboard{}))
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(cfg.ExportDir, "演示- 第二集 (zh-CN) texte complet.txt"))
	if err != nil {
		t.Fatalf("export not written: %v", err)
	}
	if string(b) != "一 二 三" {
		t.Errorf("full text = %q", b)
	}
}

func TestRun_NoSubtitle(t *testing.T) {
	flags := &CLIFlags{Ref: "BV1GJ411x7h7", Page: 1}
	a := New(testConfig(t), &fakeUI{}, flags, newAPI(t), nil)
	err := a.Run(context.Background())
	if !errors.Is(err, bilibili.ErrNoSubtitle) {
		t.Fatalf("err = %v, want ErrNoSubtitle", err)
	}
}

func TestRun_BadReference(t *testing.T) {
	a := New(testConfig(t), &fakeUI{ref: "n'importe quoi"}, &CLIFlags{}, newAPI(t), nil)
	if err := a.Run(context.Background()); !errors.Is(err, bilibili.ErrMissingIDs) {
		t.Fatalf("err = %v, want ErrMissingIDs", err)
	}
}

func TestCopyTrack_UnknownMode(t *testing.T) {
	a := New(testConfig(t), &fakeUI{}, &CLIFlags{}, nil, nil, WithClipboard(&fakeClipboard{}))
	err := a.CopyTrack(model.Track{Entries: []model.Entry{{Text: "x"}}}, "html")
	if !errors.Is(err, ErrUnknownCopyMode) {
		t.Fatalf("err = %v", err)
	}
}

func followTrack() model.Track {
	return model.Track{Lang: "zh-CN", Entries: []model.Entry{
		{Start: 0, End: 2, Text: "一"},
		{Start: 2, End: 4, Text: "二"},
		{Start: 10, End: 12, Text: "三"},
	}}
}

func TestFollow_QuitsAndRenders(t *testing.T) {
	var out bytes.Buffer
	tui := &fakeUI{commands: []string{"j", "f", "q"}}
	a := New(testConfig(t), tui, &CLIFlags{}, nil, nil,
		WithClock(clockwork.NewFakeClock()), WithOutput(&out))

	if err := a.Follow(context.Background(), followTrack()); err != nil {
		t.Fatalf("Follow: %v", err)
	}
	if !strings.Contains(out.String(), "[00:10] 三") {
		t.Errorf("single render missing:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "一 二 三\n") {
		t.Errorf("full render missing:\n%s", out.String())
	}
}

func TestFollow_StopsOnEOF(t *testing.T) {
	tui := &fakeUI{commands: []string{"j"}}
	a := New(testConfig(t), tui, &CLIFlags{}, nil, nil,
		WithClock(clockwork.NewFakeClock()), WithOutput(io.Discard))

	if err := a.Follow(context.Background(), followTrack()); err != nil {
		t.Fatalf("Follow on closed input: %v", err)
	}
}

func TestFollow_EmptyTrack(t *testing.T) {
	a := New(testConfig(t), &fakeUI{}, &CLIFlags{}, nil, nil)
	if err := a.Follow(context.Background(), model.Track{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestFollowCommand(t *testing.T) {
	clock := clockwork.NewFakeClock()
	a := New(testConfig(t), &fakeUI{}, &CLIFlags{}, nil, nil, WithClock(clock))
	clk := player.NewClock(clock, 12)
	view := ui.NewListView(nil, followTrack(), 3)

	if a.followCommand("p", clk, view); !clk.IsPlaying() {
		t.Fatal("p must start playback")
	}
	clock.Advance(time.Second)
	a.followCommand("+", clk, view)
	if got, _ := clk.CurrentTime(); got != 6 {
		t.Errorf("after + : %v, want 6", got)
	}
	a.followCommand("g 2", clk, view)
	if got, _ := clk.CurrentTime(); got != 10 {
		t.Errorf("after g 2 : %v, want 10", got)
	}
	a.followCommand("g 9", clk, view)
	if got, _ := clk.CurrentTime(); got != 10 {
		t.Errorf("g out of range must not seek, got %v", got)
	}
	a.followCommand("f", clk, view)
	if view.Mode() != ui.ModeFull {
		t.Errorf("mode = %s", view.Mode())
	}
	if !a.followCommand("q", clk, view) {
		t.Error("q must quit")
	}
}

func TestBridgeServer(t *testing.T) {
	cfg := testConfig(t)
	a := New(cfg, &fakeUI{}, &CLIFlags{}, newAPI(t), nil, WithClock(clockwork.NewFakeClock()))
	srv, h := a.NewBridgeServer(nil)
	t.Cleanup(h.Shutdown)

	if srv.Addr != cfg.Bridge.Addr {
		t.Errorf("addr = %s", srv.Addr)
	}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{"bvid":"BV1GJ411x7h7","page":2}`))
	srv.Handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session: %d %s", rec.Code, rec.Body)
	}
	if h.Store().Len() != 1 {
		t.Errorf("sessions = %d", h.Store().Len())
	}
}
