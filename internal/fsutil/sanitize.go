package fsutil

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxNameBytes borne la longueur du nom (en octets, la limite des systèmes de fichiers).
const maxNameBytes = 200

// invalidFileRunes : caractères interdits dans un nom de fichier, \x00-\x1F = contrôle.
var invalidFileRunes = regexp.MustCompile(`[<>"/\\|?*\x00-\x1F]`)

var multiSpace = regexp.MustCompile(`\s+`)

// SanitizeFilename transforme un titre de vidéo en nom de fichier valide :
// ":" devient "-", les autres caractères interdits un espace, les espaces sont
// réduits, les points finaux retirés, et le nom est coupé à maxNameBytes sans
// jamais couper un caractère (les titres sont souvent en CJK, 3 octets par caractère).
// Vide -> "untitled".
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, ":", "-")
	clean := invalidFileRunes.ReplaceAllString(name, " ")
	clean = multiSpace.ReplaceAllString(strings.TrimSpace(clean), " ")
	clean = strings.TrimRight(clean, ".")

	clean = truncateUTF8(clean, maxNameBytes)
	clean = strings.TrimRight(clean, " .")
	if clean == "" {
		return "untitled"
	}
	return CapitalizeFirst(clean)
}

// truncateUTF8 coupe s à au plus n octets, sur une frontière de caractère.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// CapitalizeFirst met en majuscule le premier caractère de s, sans toucher au reste.
func CapitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return s
	}
	up := unicode.ToUpper(r)
	if up == r {
		return s
	}
	return string(up) + s[size:]
}
