// Package bilibili interroge l'API publique du site pour localiser les pistes CC
// d'une vidéo et télécharger leurs documents.
package bilibili

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/patrickprogramme/ccviewer/internal/fetch"
	"github.com/patrickprogramme/ccviewer/internal/subtitles"
	"github.com/patrickprogramme/ccviewer/pkg/model"
)

const DefaultAPI = "https://api.bilibili.com"

var (
	// ErrNoSubtitle : la vidéo n'a aucune piste CC (ou aucune dans la langue demandée).
	ErrNoSubtitle = subtitles.ErrNoSubtitle
	ErrAPI        = errors.New("bilibili api error")
	ErrMissingIDs = errors.New("missing video identifiers")
)

// Client parle à l'API. La valeur zéro utilise DefaultAPI et un fetch.Client par défaut.
type Client struct {
	API   string
	Fetch *fetch.Client
	Log   *slog.Logger
}

// NewClient construit un Client ; api vide -> DefaultAPI.
func NewClient(api string, fc *fetch.Client, log *slog.Logger) *Client {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{API: api, Fetch: fc, Log: log}
}

func (c *Client) logger() *slog.Logger {
	if c.Log == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Log
}

func (c *Client) endpoint(path string, q url.Values) string {
	base := strings.TrimRight(c.API, "/")
	if base == "" {
		base = DefaultAPI
	}
	return base + path + "?" + q.Encode()
}

// get décode l'enveloppe et vérifie code == 0.
func get[T any](ctx context.Context, c *Client, path string, q url.Values) (T, error) {
	var zero T
	resp, err := fetch.JSON[apiResponse[T]](ctx, c.Fetch, c.endpoint(path, q))
	if err != nil {
		return zero, err
	}
	if resp.Code != 0 {
		return zero, fmt.Errorf("%w: %s: code %d: %s", ErrAPI, path, resp.Code, resp.Message)
	}
	return resp.Data, nil
}

// SubtitleConfig liste les pistes CC de la vidéo (un seul endpoint, pas de repli).
func (c *Client) SubtitleConfig(ctx context.Context, ids model.VideoIDs) ([]model.SubtitleTrack, error) {
	if !ids.HasCID() {
		return nil, fmt.Errorf("subtitle config: %w: cid", ErrMissingIDs)
	}
	q := url.Values{}
	q.Set("cid", strconv.FormatInt(ids.CID, 10))
	if ids.BVID != "" {
		q.Set("bvid", ids.BVID)
	}
	if ids.AID > 0 {
		q.Set("aid", strconv.FormatInt(ids.AID, 10))
	}

	data, err := get[playerData](ctx, c, "/x/player/v2", q)
	if err != nil {
		return nil, fmt.Errorf("subtitle config: %w", err)
	}
	if len(data.Subtitle.Subtitles) == 0 {
		return nil, fmt.Errorf("subtitle config %s: %w", ids, ErrNoSubtitle)
	}
	tracks := make([]model.SubtitleTrack, 0, len(data.Subtitle.Subtitles))
	for _, s := range data.Subtitle.Subtitles {
		tracks = append(tracks, s.toTrack())
	}
	c.logger().Debug("subtitle config", slog.String("bvid", ids.BVID), slog.Int64("cid", ids.CID), slog.Int("tracks", len(tracks)))
	return tracks, nil
}

// SubtitleDocument télécharge le document brut d'une piste ; force https.
func (c *Client) SubtitleDocument(ctx context.Context, rawURL string) ([]byte, error) {
	u := normalizeURL(rawURL)
	if u == "" {
		return nil, fmt.Errorf("subtitle document: empty url")
	}
	b, err := c.Fetch.Bytes(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("subtitle document: %w", err)
	}
	return b, nil
}

// Title retourne le titre de la vidéo (via bvid, sinon aid).
func (c *Client) Title(ctx context.Context, ids model.VideoIDs) (string, error) {
	q := url.Values{}
	switch {
	case ids.BVID != "":
		q.Set("bvid", ids.BVID)
	case ids.AID > 0:
		q.Set("aid", strconv.FormatInt(ids.AID, 10))
	default:
		return "", fmt.Errorf("title: %w", ErrMissingIDs)
	}
	v, err := get[viewData](ctx, c, "/x/web-interface/view", q)
	if err != nil {
		return "", fmt.Errorf("title: %w", err)
	}
	return v.Title, nil
}

// Meta regroupe titre et pistes. Le titre est facultatif : un échec est seulement journalisé.
func (c *Client) Meta(ctx context.Context, ids model.VideoIDs) (*model.Meta, error) {
	tracks, err := c.SubtitleConfig(ctx, ids)
	if err != nil {
		return nil, err
	}
	m := &model.Meta{IDs: ids, Tracks: tracks}
	if title, err := c.Title(ctx, ids); err != nil {
		c.logger().Warn("title lookup failed", slog.String("bvid", ids.BVID), slog.Any("err", err))
	} else {
		m.Title = title
	}
	return m, nil
}

// Track localise, télécharge et parse la piste de langue lang (première piste si vide).
func (c *Client) Track(ctx context.Context, ids model.VideoIDs, lang string) (model.Track, *model.Meta, error) {
	m, err := c.Meta(ctx, ids)
	if err != nil {
		return model.Track{}, nil, err
	}
	d, ok := subtitles.NewDownloadFromMeta(m, lang)
	if !ok {
		return model.Track{}, m, fmt.Errorf("lang %q: %w", lang, ErrNoSubtitle)
	}
	if d.Data, err = c.SubtitleDocument(ctx, d.Track.URL); err != nil {
		return model.Track{}, m, err
	}
	tr, err := d.ParseTrack()
	if err != nil {
		return model.Track{}, m, err
	}
	c.logger().Info("subtitle track loaded",
		slog.String("bvid", ids.BVID),
		slog.String("lang", tr.Lang),
		slog.Int("entries", tr.Len()),
	)
	return tr, m, nil
}

// PageList retourne les pages (parties) d'une vidéo.
func (c *Client) PageList(ctx context.Context, bvid string) ([]Page, error) {
	if bvid == "" {
		return nil, fmt.Errorf("pagelist: %w: bvid", ErrMissingIDs)
	}
	q := url.Values{}
	q.Set("bvid", bvid)
	pages, err := get[[]Page](ctx, c, "/x/player/pagelist", q)
	if err != nil {
		return nil, fmt.Errorf("pagelist: %w", err)
	}
	return pages, nil
}

// normalizeURL force https sur les URL relatives au protocole ou en http.
func normalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(raw, "//"):
		return "https:" + raw
	case strings.HasPrefix(raw, "http://"):
		return "https://" + strings.TrimPrefix(raw, "http://")
	}
	return raw
}
