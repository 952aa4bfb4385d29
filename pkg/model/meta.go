package model

import (
	"fmt"
	"strings"
)

// VideoIDs regroupe les identifiants d'une vidéo : aid (numérique), bvid (BV...)
// et cid (identifiant de la page / du flux, requis pour les sous-titres).
type VideoIDs struct {
	AID  int64  `json:"aid,omitempty"`
	BVID string `json:"bvid,omitempty"`
	CID  int64  `json:"cid,omitempty"`
}

// HasCID indique si les identifiants suffisent pour interroger l'API des sous-titres.
func (v VideoIDs) HasCID() bool {
	return v.CID > 0
}

func (v VideoIDs) String() string {
	return fmt.Sprintf("VideoIDs(aid=%d, bvid=%s, cid=%d)", v.AID, v.BVID, v.CID)
}

// SubtitleTrack décrit une piste CC disponible pour une vidéo (avant téléchargement).
type SubtitleTrack struct {
	ID      int64  `json:"id,omitempty"`
	Lang    string `json:"lan"`
	LangDoc string `json:"lan_doc,omitempty"`
	URL     string `json:"subtitle_url"`
	AI      bool   `json:"ai,omitempty"` // piste générée automatiquement
}

func (s SubtitleTrack) String() string {
	return fmt.Sprintf("SubtitleTrack(lang=%s, doc=%s, ai=%t)", s.Lang, s.LangDoc, s.AI)
}

// Meta regroupe ce que l'on sait d'une vidéo au moment du chargement.
type Meta struct {
	IDs    VideoIDs        `json:"ids"`
	Title  string          `json:"title,omitempty"`
	Tracks []SubtitleTrack `json:"tracks,omitempty"`
}

func (m Meta) HasSubtitles() bool {
	return len(m.Tracks) != 0
}

// Pretty retourne une fiche multi-lignes simple.
func (m Meta) Pretty() string {
	langs := make([]string, 0, len(m.Tracks))
	for _, t := range m.Tracks {
		if t.Lang == "" {
			continue
		}
		l := t.Lang
		if t.LangDoc != "" {
			l += " (" + t.LangDoc + ")"
		}
		langs = append(langs, l)
	}
	list := "(aucun)"
	if len(langs) > 0 {
		list = strings.Join(langs, ", ")
	}
	return fmt.Sprintf(
		"Meta:\n"+
			"  BVID       : %s\n"+
			"  AID        : %d\n"+
			"  CID        : %d\n"+
			"  Title      : %q\n"+
			"  Subtitles  : %s\n",
		m.IDs.BVID,
		m.IDs.AID,
		m.IDs.CID,
		m.Title,
		list,
	)
}
