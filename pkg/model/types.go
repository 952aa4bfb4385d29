package model

import (
	"fmt"
	"math"
)

// Seconds représente une position de lecture en secondes (fractionnaire).
type Seconds float64

// Milliseconds arrondit Seconds à la milliseconde la plus proche.
func (s Seconds) Milliseconds() int64 {
	return int64(math.Round(float64(s) * 1000))
}

// Valid indique si la valeur est utilisable (ni NaN, ni infinie).
func (s Seconds) Valid() bool {
	f := float64(s)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// TimestampMMSS formate Seconds en "MM:SS", les minutes pouvant dépasser 59.
// C'est le format affiché dans la liste et dans l'export texte horodaté.
func (s Seconds) TimestampMMSS() string {
	total := s.wholeSeconds()
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// TimestampSRT formate Seconds en "HH:MM:SS,mmm".
func (s Seconds) TimestampSRT() string {
	ms := s.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	h := ms / 3_600_000
	m := (ms % 3_600_000) / 60_000
	sec := (ms % 60_000) / 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, sec, ms%1000)
}

// wholeSeconds tronque vers le bas, les valeurs négatives ou invalides valent 0.
func (s Seconds) wholeSeconds() int64 {
	if !s.Valid() || s < 0 {
		return 0
	}
	return int64(math.Floor(float64(s)))
}

// constantes pour les formats d'export
type Format string

const (
	FormatTXT  Format = "txt"  // texte brut, une entrée par ligne
	FormatTime Format = "time" // texte horodaté "[MM:SS] texte"
	FormatSRT  Format = "srt"
	FormatJSON Format = "json" // document de sous-titres ré-encodé
	FormatFull Format = "full" // texte fusionné (mode d'affichage complet)
)

// du format en chaine à la constante de type Format, return une erreur si format inconnu
func ParseFormat(s string) (Format, error) {
	switch s {
	case "txt":
		return FormatTXT, nil
	case "time":
		return FormatTime, nil
	case "srt":
		return FormatSRT, nil
	case "json":
		return FormatJSON, nil
	case "full":
		return FormatFull, nil
	default:
		return "", fmt.Errorf("format demandé inconnu: %s", s)
	}
}

func (f Format) IsTextual() bool {
	return f == FormatTXT || f == FormatTime || f == FormatFull
}

// Extension renvoie l'extension de fichier ; les variantes textuelles finissent en .txt
func (f Format) Extension() string {
	if f.IsTextual() {
		return ".txt"
	}
	return "." + string(f)
}

func (f Format) String() string {
	return string(f)
}
