package bridge

import (
	"context"
	"fmt"

	"github.com/patrickprogramme/ccviewer/internal/bilibili"
	"github.com/patrickprogramme/ccviewer/internal/subtitles"
	"github.com/patrickprogramme/ccviewer/pkg/model"
)

// LoadRequest est le corps de POST /sessions.
// SubtitleURL court-circuite l'API : la page a déjà la config des sous-titres.
type LoadRequest struct {
	BVID        string `json:"bvid"`
	AID         int64  `json:"aid"`
	CID         int64  `json:"cid"`
	Page        int    `json:"page"`
	Lang        string `json:"lang"`
	SubtitleURL string `json:"subtitleUrl"`
	Title       string `json:"title"`
}

// TrackLoader charge la piste d'une session.
type TrackLoader interface {
	Load(ctx context.Context, req LoadRequest) (model.Track, *model.Meta, error)
}

// BilibiliLoader charge via l'API publique.
type BilibiliLoader struct {
	Client *bilibili.Client
}

func (l BilibiliLoader) Load(ctx context.Context, req LoadRequest) (model.Track, *model.Meta, error) {
	ids := model.VideoIDs{AID: req.AID, BVID: req.BVID, CID: req.CID}

	if req.SubtitleURL != "" {
		b, err := l.Client.SubtitleDocument(ctx, req.SubtitleURL)
		if err != nil {
			return model.Track{}, nil, err
		}
		tr, err := subtitles.ParseDocument(b)
		if err != nil {
			return model.Track{}, nil, err
		}
		tr.Lang = req.Lang
		meta := &model.Meta{IDs: ids, Title: req.Title, Tracks: []model.SubtitleTrack{{Lang: req.Lang, URL: req.SubtitleURL}}}
		return tr, meta, nil
	}

	provider := bilibili.Chain{
		bilibili.StaticContext{IDs: ids},
		bilibili.PageListContext{Client: l.Client, BVID: req.BVID, Page: req.Page},
	}
	resolved, err := provider.VideoIDs(ctx)
	if err != nil {
		return model.Track{}, nil, fmt.Errorf("resolve video: %w", err)
	}
	resolved.AID = req.AID
	tr, meta, err := l.Client.Track(ctx, resolved, req.Lang)
	if err != nil {
		return model.Track{}, meta, err
	}
	if meta != nil && req.Title != "" {
		meta.Title = req.Title
	}
	return tr, meta, nil
}
