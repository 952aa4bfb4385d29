package subtitles

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/patrickprogramme/ccviewer/internal/fsutil"
	"github.com/patrickprogramme/ccviewer/pkg/model"
)

var (
	ErrNoSubtitle    = errors.New("no subtitle available for given language")
	ErrUnknownFormat = errors.New("unknown export format")
)

// Download contient la piste choisie + contexte utile (titre) + payload.
type Download struct {
	Title string
	Track model.SubtitleTrack
	Data  []byte // nil tant que non téléchargé
}

// ParseTrack parse Data et renseigne la langue de la piste.
func (d *Download) ParseTrack() (model.Track, error) {
	if d == nil {
		return model.Track{}, fmt.Errorf("ParseTrack: Download est nil")
	}
	if len(d.Data) == 0 {
		return model.Track{}, fmt.Errorf("ParseTrack: pas de données dans Download (nil/empty)")
	}
	tr, err := ParseDocumentBytes(d.Data)
	if err != nil {
		return model.Track{}, err
	}
	tr.Lang = d.Track.Lang
	tr.LangDoc = d.Track.LangDoc
	return tr, nil
}

// Filename compose "<titre> (<langue>)<ext>" avec un titre nettoyé.
func Filename(title, lang string, format model.Format) string {
	base := fsutil.SanitizeFilename(strings.TrimSpace(title))
	lang = strings.TrimSpace(lang)
	if lang == "" {
		lang = "und"
	}
	suffix := ""
	switch format {
	case model.FormatTime:
		suffix = " horodaté"
	case model.FormatFull:
		suffix = " texte complet"
	}
	return filepath.Base(fmt.Sprintf("%s (%s)%s%s", base, lang, suffix, format.Extension()))
}
