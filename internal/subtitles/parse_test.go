package subtitles

import (
	"strings"
	"testing"

	"github.com/patrickprogramme/ccviewer/pkg/model"
)

const sampleDoc = `{
  "font_size": 0.4,
  "font_color": "#FFFFFF",
  "background_alpha": 0.5,
  "background_color": "#9C27B0",
  "Stroke": "none",
  "body": [
    {"from": 0.5, "to": 2.25, "location": 2, "content": "\ufeff  你好  "},
    {"from": 2.25, "to": 4, "location": 2, "content": "第一行\r\n第二行"},
    {"from": 10, "to": 12.5, "location": 2, "content": "再见"}
  ]
}`

func TestParseDocument(t *testing.T) {
	tr, err := ParseDocument([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if tr.Len() != 3 {
		t.Fatalf("got %d entries, want 3", tr.Len())
	}

	want := []model.Entry{
		{Start: 0.5, End: 2.25, Text: "你好"},
		{Start: 2.25, End: 4, Text: "第一行\n第二行"},
		{Start: 10, End: 12.5, Text: "再见"},
	}
	for i, w := range want {
		if got := tr.Entries[i]; got != w {
			t.Errorf("entry %d = %+v, want %+v", i, got, w)
		}
	}
}

func TestParseDocumentErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "blank", input: "   \n"},
		{name: "not json", input: "<html></html>"},
		{name: "wrong body type", input: `{"body": "nope"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseDocument([]byte(tt.input)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestParseDocumentWithoutBody(t *testing.T) {
	tr, err := ParseDocumentReader(strings.NewReader(`{"font_size": 0.4}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tr.IsEmpty() {
		t.Fatalf("expected empty track, got %d entries", tr.Len())
	}
}

func TestDownloadParseTrack(t *testing.T) {
	d := Download{
		Title: "Demo",
		Track: model.SubtitleTrack{Lang: "zh-CN", LangDoc: "中文（中国）"},
		Data:  []byte(sampleDoc),
	}
	tr, err := d.ParseTrack()
	if err != nil {
		t.Fatalf("ParseTrack: %v", err)
	}
	if tr.Lang != "zh-CN" || tr.LangDoc != "中文（中国）" {
		t.Errorf("lang = %q/%q", tr.Lang, tr.LangDoc)
	}

	empty := Download{}
	if _, err := empty.ParseTrack(); err == nil {
		t.Error("expected error on empty download")
	}
}

func TestNewDownloadFromMeta(t *testing.T) {
	m := &model.Meta{
		IDs: model.VideoIDs{BVID: "BV1xx411c7mD", CID: 42},
		Tracks: []model.SubtitleTrack{
			{Lang: "ai-zh", URL: ""},
			{Lang: "zh-CN", URL: "https://example.test/zh.json"},
			{Lang: "en-US", URL: "https://example.test/en.json"},
		},
	}

	d, ok := NewDownloadFromMeta(m, "")
	if !ok || d.Track.Lang != "zh-CN" {
		t.Fatalf("default pick = %+v, %v; want zh-CN", d.Track, ok)
	}
	if d.Title != "BV1xx411c7mD" {
		t.Errorf("title fallback = %q", d.Title)
	}

	d, ok = NewDownloadFromMeta(m, "EN-us")
	if !ok || d.Track.Lang != "en-US" {
		t.Fatalf("lang pick = %+v, %v; want en-US", d.Track, ok)
	}

	if _, ok := NewDownloadFromMeta(m, "ai-zh"); ok {
		t.Error("track without url must not be selected")
	}
	if _, ok := NewDownloadFromMeta(nil, ""); ok {
		t.Error("nil meta must not be selected")
	}
	if _, ok := NewDownloadFromMeta(&model.Meta{IDs: m.IDs}, ""); ok {
		t.Error("meta without tracks must not be selected")
	}
}
