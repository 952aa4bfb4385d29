package bilibili

import (
	"regexp"
	"strconv"
	"strings"
)

// bvidRe : "BV" suivi de 10 caractères base58.
var bvidRe = regexp.MustCompile(`BV1[1-9A-HJ-NP-Za-km-z]{9}`)

// avidRe : "av123456" (ancien format d'identifiant).
var avidRe = regexp.MustCompile(`(?i)\bav(\d+)\b`)

// ParseBVID extrait un BVID d'une chaîne libre (URL de vidéo, texte collé...).
func ParseBVID(s string) (string, bool) {
	m := bvidRe.FindString(s)
	return m, m != ""
}

// ParseAID extrait un aid d'une chaîne du type "av170001".
func ParseAID(s string) (int64, bool) {
	m := avidRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// IsVideoRef indique si s contient un identifiant de vidéo exploitable.
func IsVideoRef(s string) bool {
	if _, ok := ParseBVID(s); ok {
		return true
	}
	_, ok := ParseAID(s)
	return ok
}
