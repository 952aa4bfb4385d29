package bilibili

import (
	"context"
	"errors"
	"fmt"

	"github.com/patrickprogramme/ccviewer/pkg/model"
)

// ContextProvider fournit les identifiants de la vidéo courante.
type ContextProvider interface {
	VideoIDs(ctx context.Context) (model.VideoIDs, error)
}

// StaticContext : identifiants connus d'avance (flags, requête du bridge).
type StaticContext struct {
	IDs model.VideoIDs
}

func (s StaticContext) VideoIDs(context.Context) (model.VideoIDs, error) {
	if !s.IDs.HasCID() {
		return s.IDs, fmt.Errorf("static context: %w: cid", ErrMissingIDs)
	}
	return s.IDs, nil
}

// PageListContext résout le cid d'une page (1 par défaut) à partir du bvid.
type PageListContext struct {
	Client *Client
	BVID   string
	Page   int
}

func (p PageListContext) VideoIDs(ctx context.Context) (model.VideoIDs, error) {
	ids := model.VideoIDs{BVID: p.BVID}
	if p.Client == nil {
		return ids, errors.New("pagelist context: nil client")
	}
	pages, err := p.Client.PageList(ctx, p.BVID)
	if err != nil {
		return ids, err
	}
	want := p.Page
	if want <= 0 {
		want = 1
	}
	for _, pg := range pages {
		if pg.Page == want {
			ids.CID = pg.CID
			return ids, nil
		}
	}
	return ids, fmt.Errorf("pagelist context: page %d not found (%d pages)", want, len(pages))
}

// Chain essaie chaque provider dans l'ordre ; le premier qui fournit un cid gagne.
type Chain []ContextProvider

func (c Chain) VideoIDs(ctx context.Context) (model.VideoIDs, error) {
	var errs []error
	for _, p := range c {
		ids, err := p.VideoIDs(ctx)
		if err == nil && ids.HasCID() {
			return ids, nil
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return model.VideoIDs{}, fmt.Errorf("context chain: %w", ErrMissingIDs)
	}
	return model.VideoIDs{}, errors.Join(errs...)
}
