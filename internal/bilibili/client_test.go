package bilibili

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/patrickprogramme/ccviewer/internal/fetch"
	"github.com/patrickprogramme/ccviewer/pkg/model"
)

const subtitleBody = `{"body":[{"from":0,"to":2,"content":"你好"},{"from":2,"to":4,"content":"世界"}]}`

// newAPI démarre un faux api.bilibili.com en TLS : SubtitleDocument force https.
func newAPI(t *testing.T, subtitles string) (*httptest.Server, *Client) {
	t.Helper()
	mux := http.NewServeMux()
	var srv *httptest.Server

	mux.HandleFunc("/x/player/v2", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("cid") == "" {
			fmt.Fprint(w, `{"code":-400,"message":"请求错误"}`)
			return
		}
		fmt.Fprintf(w, `{"code":0,"message":"0","data":{"subtitle":{"subtitles":%s}}}`,
			strings.ReplaceAll(subtitles, "{{host}}", strings.TrimPrefix(srv.URL, "https:")))
	})
	mux.HandleFunc("/x/web-interface/view", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"code":0,"data":{"bvid":%q,"title":"测试视频"}}`, r.URL.Query().Get("bvid"))
	})
	mux.HandleFunc("/x/player/pagelist", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":0,"data":[{"cid":111,"page":1,"part":"P1"},{"cid":222,"page":2,"part":"P2"}]}`)
	})
	mux.HandleFunc("/sub/zh.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, subtitleBody)
	})

	srv = httptest.NewTLSServer(mux)
	t.Cleanup(srv.Close)
	return srv, NewClient(srv.URL, &fetch.Client{HTTP: srv.Client()}, nil)
}

const twoTracks = `[
  {"id":1,"lan":"ai-zh","lan_doc":"中文（自动生成）","subtitle_url":"{{host}}/sub/ai.json","ai_type":1},
  {"id":2,"lan":"zh-CN","lan_doc":"中文（中国）","subtitle_url":"{{host}}/sub/zh.json"}
]`

func TestSubtitleConfig(t *testing.T) {
	srv, c := newAPI(t, twoTracks)

	tracks, err := c.SubtitleConfig(context.Background(), model.VideoIDs{BVID: "BV1", CID: 111})
	if err != nil {
		t.Fatalf("SubtitleConfig: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("got %d tracks", len(tracks))
	}
	if !tracks[0].AI || tracks[1].AI {
		t.Errorf("ai flags = %v, %v", tracks[0].AI, tracks[1].AI)
	}
	if want := srv.URL + "/sub/zh.json"; tracks[1].URL != want {
		t.Errorf("url = %q, want %q", tracks[1].URL, want)
	}
}

func TestSubtitleConfigNoSubtitle(t *testing.T) {
	_, c := newAPI(t, `[]`)
	_, err := c.SubtitleConfig(context.Background(), model.VideoIDs{BVID: "BV1", CID: 111})
	if !errors.Is(err, ErrNoSubtitle) {
		t.Fatalf("err = %v, want ErrNoSubtitle", err)
	}
}

func TestSubtitleConfigMissingCID(t *testing.T) {
	_, c := newAPI(t, twoTracks)
	_, err := c.SubtitleConfig(context.Background(), model.VideoIDs{BVID: "BV1"})
	if !errors.Is(err, ErrMissingIDs) {
		t.Fatalf("err = %v, want ErrMissingIDs", err)
	}
}

func TestTrack(t *testing.T) {
	_, c := newAPI(t, twoTracks)

	tr, meta, err := c.Track(context.Background(), model.VideoIDs{BVID: "BV1", CID: 111}, "zh-CN")
	if err != nil {
		t.Fatalf("Track: %v", err)
	}
	if meta.Title != "测试视频" {
		t.Errorf("title = %q", meta.Title)
	}
	if tr.Lang != "zh-CN" || tr.Len() != 2 || tr.Entries[1].Text != "世界" {
		t.Errorf("track = %+v", tr)
	}

	_, _, err = c.Track(context.Background(), model.VideoIDs{BVID: "BV1", CID: 111}, "fr-FR")
	if !errors.Is(err, ErrNoSubtitle) {
		t.Errorf("unknown lang err = %v", err)
	}
}

func TestAPIErrorCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":-404,"message":"啥都木有"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil, nil)
	_, err := c.PageList(context.Background(), "BV1")
	if !errors.Is(err, ErrAPI) {
		t.Fatalf("err = %v, want ErrAPI", err)
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := map[string]string{
		"//i0.hdslb.com/bfs/subtitle/a.json":      "https://i0.hdslb.com/bfs/subtitle/a.json",
		"http://i0.hdslb.com/bfs/subtitle/a.json": "https://i0.hdslb.com/bfs/subtitle/a.json",
		"https://example.test/a.json":             "https://example.test/a.json",
		"  ":                                      "",
	}
	for in, want := range tests {
		if got := normalizeURL(in); got != want {
			t.Errorf("normalizeURL(%q) = %q, want %q", in, got, want)
		}
	}
}
