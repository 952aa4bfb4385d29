package subtitles

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/patrickprogramme/ccviewer/pkg/model"
)

// Export rend la piste dans le format demandé.
func Export(tr model.Track, format model.Format) (string, error) {
	switch format {
	case model.FormatTXT:
		return PlainText(tr), nil
	case model.FormatTime:
		return TextWithTime(tr), nil
	case model.FormatSRT:
		return SRT(tr), nil
	case model.FormatFull:
		return Merged(tr), nil
	case model.FormatJSON:
		return JSON(tr)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// PlainText : une entrée par ligne, sans horodatage (action "copier le texte").
func PlainText(tr model.Track) string {
	lines := make([]string, 0, len(tr.Entries))
	for _, e := range tr.Entries {
		lines = append(lines, e.Text)
	}
	return strings.Join(lines, "\n")
}

// TextWithTime : "[MM:SS] texte", une entrée par ligne.
func TextWithTime(tr model.Track) string {
	var b strings.Builder
	for i, e := range tr.Entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteByte('[')
		b.WriteString(e.Start.TimestampMMSS())
		b.WriteString("] ")
		b.WriteString(e.Text)
	}
	return b.String()
}

// SRT : blocs numérotés à partir de 1, séparés par une ligne vide.
func SRT(tr model.Track) string {
	var b strings.Builder
	for i, e := range tr.Entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteByte('\n')
		b.WriteString(e.Start.TimestampSRT())
		b.WriteString(" --> ")
		b.WriteString(e.End.TimestampSRT())
		b.WriteByte('\n')
		b.WriteString(e.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

// Merged : tout le texte sur un paragraphe (mode d'affichage "complet").
func Merged(tr model.Track) string {
	parts := make([]string, 0, len(tr.Entries))
	for _, e := range tr.Entries {
		if t := strings.Join(strings.Fields(e.Text), " "); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// JSON ré-encode la piste au format du document d'origine ({"body": [...]}).
func JSON(tr model.Track) (string, error) {
	doc := rawDocument{Body: make([]rawEntry, 0, len(tr.Entries))}
	for _, e := range tr.Entries {
		doc.Body = append(doc.Body, rawEntry{From: float64(e.Start), To: float64(e.End), Content: e.Text})
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("export json: %w", err)
	}
	return string(out), nil
}
