package subtitles

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/patrickprogramme/ccviewer/pkg/model"
)

// ParseDocument est l'entrée principale : document brut -> piste normalisée.
func ParseDocument(b []byte) (model.Track, error) {
	return ParseDocumentBytes(b)
}

// ParseDocumentBytes parse un document de sous-titres ([]byte) et retourne la piste.
//
// Utilise json.Decoder sur un bytes.Reader : les documents tiennent en mémoire.
// Les entrées ne sont ni triées ni filtrées : l'ordre est une précondition, vérifiée
// à part par Validate.
func ParseDocumentBytes(b []byte) (model.Track, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return model.Track{}, fmt.Errorf("ParseDocumentBytes: empty input")
	}
	return ParseDocumentReader(bytes.NewReader(b))
}

// ParseDocumentReader parse depuis un io.Reader.
func ParseDocumentReader(r io.Reader) (model.Track, error) {
	var raw rawDocument
	dec := json.NewDecoder(r)
	// Pas de DisallowUnknownFields : le document contient des champs de style inutiles.
	if err := dec.Decode(&raw); err != nil {
		return model.Track{}, fmt.Errorf("ParseDocument: decode error: %w", err)
	}
	return raw.toTrack(), nil
}

func (d rawDocument) toTrack() model.Track {
	tr := model.Track{Entries: make([]model.Entry, 0, len(d.Body))}
	for _, e := range d.Body {
		tr.Entries = append(tr.Entries, model.Entry{
			Start: model.Seconds(e.From),
			End:   model.Seconds(e.To),
			Text:  cleanContent(e.Content),
		})
	}
	return tr
}

// cleanContent normalise les fins de ligne et retire les espaces en bord.
// Les retours à la ligne internes sont conservés (sous-titres sur deux lignes).
func cleanContent(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.TrimSpace(s)
}
