package ui

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/patrickprogramme/ccviewer/internal/syncengine"
	"github.com/patrickprogramme/ccviewer/pkg/model"
)

// evenTrack : n entrées de 2s, sans trou.
func evenTrack(n int) model.Track {
	tr := model.Track{Lang: "zh-CN"}
	for i := 0; i < n; i++ {
		tr.Entries = append(tr.Entries, model.Entry{
			Start: model.Seconds(2 * i),
			End:   model.Seconds(2*i + 2),
			Text:  fmt.Sprintf("line %d", i),
		})
	}
	return tr
}

func TestListView_Geometry(t *testing.T) {
	l := NewListView(nil, evenTrack(30), 5)

	if got := l.Height(); got != 5*RowHeight {
		t.Fatalf("Height = %v", got)
	}
	r, ok := l.Bounds(3)
	if !ok || r.Top != 3*RowHeight || r.Bottom != 4*RowHeight {
		t.Fatalf("Bounds(3) = %+v, %v", r, ok)
	}
	if _, ok := l.Bounds(30); ok {
		t.Fatal("Bounds out of range must report unknown")
	}

	l.ScrollTo(10)
	if got := l.Offset(); got != 8 {
		t.Fatalf("ScrollTo(10) offset = %d, want 8 (centered)", got)
	}
	l.ScrollTo(29)
	if got := l.Offset(); got != 25 {
		t.Fatalf("ScrollTo(29) offset = %d, want 25 (clamped)", got)
	}
	l.ScrollTo(0)
	if got := l.Offset(); got != 0 {
		t.Fatalf("ScrollTo(0) offset = %d, want 0", got)
	}
}

func TestListView_ScrollNotifies(t *testing.T) {
	calls := 0
	l := NewListView(nil, evenTrack(30), 5, WithManualScroll(func() { calls++ }))

	l.Scroll(3)
	l.Scroll(-10)
	if calls != 2 {
		t.Fatalf("manual scroll notifications = %d, want 2", calls)
	}
	if l.Offset() != 0 {
		t.Fatalf("offset = %d, want 0", l.Offset())
	}
}

func TestListView_RenderSingle(t *testing.T) {
	var buf bytes.Buffer
	l := NewListView(&buf, evenTrack(4), 3)

	l.Highlight(1)
	out := buf.String()
	if !strings.Contains(out, "▶ [00:02] line 1\n") {
		t.Fatalf("missing highlighted row:\n%s", out)
	}
	if !strings.Contains(out, "  [00:00] line 0\n") {
		t.Fatalf("missing plain row:\n%s", out)
	}
	if strings.Contains(out, "line 3") {
		t.Fatalf("row outside window rendered:\n%s", out)
	}
}

func TestListView_RenderFull(t *testing.T) {
	var buf bytes.Buffer
	l := NewListView(&buf, evenTrack(3), 3, WithMode(ModeFull))

	l.Highlight(2)
	if got, want := buf.String(), "line 0 line 1 »line 2«\n"; got != want {
		t.Fatalf("full render = %q, want %q", got, want)
	}
	// en mode full le bloc est toujours visible : pas de défilement
	r, ok := l.Bounds(2)
	if !ok || r.Top != 0 {
		t.Fatalf("full Bounds = %+v, %v", r, ok)
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModeSingle, "single": ModeSingle, "FULL": ModeFull} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseMode("grid"); err == nil {
		t.Error("expected error")
	}
}

// Scénario complet : l'Engine pilote la vue, un défilement manuel suspend
// le suivi pendant la fenêtre puis le suivi reprend.
func TestListView_DrivenByEngine(t *testing.T) {
	clock := clockwork.NewFakeClock()
	view := NewListView(nil, evenTrack(30), 5)
	eng := syncengine.New(evenTrack(30),
		syncengine.WithViewport(view),
		syncengine.WithHighlighter(view),
		syncengine.WithClock(clock),
	)
	view.SetManualScroll(eng.OnManualScroll)

	if r := eng.Tick(1, true, true); r.Index != 0 || r.Scrolled {
		t.Fatalf("tick 1 = %+v; want index 0 without scroll (already visible)", r)
	}

	r := eng.Tick(21, true, true)
	if r.Index != 10 || !r.Scrolled || view.Offset() != 8 {
		t.Fatalf("tick 21 = %+v, offset %d; want scroll to 10 (offset 8)", r, view.Offset())
	}

	view.Scroll(5)
	r = eng.Tick(25, true, true)
	if r.Index != 12 || r.Scrolled || !r.Suppressed || view.Offset() != 13 {
		t.Fatalf("tick 25 = %+v, offset %d; want suppressed at offset 13", r, view.Offset())
	}
	if view.Highlighted() != 12 {
		t.Fatalf("highlighted = %d; want 12 even while suppressed", view.Highlighted())
	}

	clock.Advance(syncengine.SuppressionWindow + time.Millisecond)
	r = eng.Tick(41, true, true)
	if r.Index != 20 || !r.Scrolled || view.Offset() != 18 {
		t.Fatalf("tick 41 = %+v, offset %d; want scroll to 20 (offset 18)", r, view.Offset())
	}
}
