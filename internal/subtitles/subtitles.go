package subtitles

import (
	"strings"

	"github.com/patrickprogramme/ccviewer/pkg/model"
)

// NewDownloadFromMeta : constructeur pur, sans réseau.
// Choisit la piste de langue lang (insensible à la casse), ou la première piste
// ayant une URL si lang est vide. Retourne false si aucune piste ne convient.
func NewDownloadFromMeta(m *model.Meta, lang string) (Download, bool) {
	if m == nil || !m.HasSubtitles() {
		return Download{}, false
	}
	lang = strings.TrimSpace(lang)
	for _, t := range m.Tracks {
		if t.URL == "" {
			continue
		}
		if lang != "" && !strings.EqualFold(t.Lang, lang) {
			continue
		}
		return Download{Title: titleOrID(m), Track: t}, true
	}
	return Download{}, false
}

// titleOrID retourne le titre, ou sinon le BVID de la vidéo
func titleOrID(m *model.Meta) string {
	if s := strings.TrimSpace(m.Title); s != "" {
		return s
	}
	if m.IDs.BVID != "" {
		return m.IDs.BVID
	}
	return "subtitle"
}
