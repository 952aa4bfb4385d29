package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"
)

var (
	// ErrEmpty : on refuse de vider le presse-papier par erreur.
	ErrEmpty = errors.New("le texte à copier ne peut pas être vide")
	// ErrUnavailable : aucun outil de presse-papier (xclip, xsel, wl-copy) sous Linux.
	ErrUnavailable = errors.New("presse-papier indisponible (installez xclip, xsel ou wl-clipboard)")
)

// Writer abstrait l'écriture dans le presse-papier (remplacé dans les tests).
type Writer interface {
	WriteAll(text string) error
}

// System utilise le presse-papier du système.
type System struct{}

func (System) WriteAll(text string) error {
	if !Available() {
		return ErrUnavailable
	}
	return WriteAll(text)
}

// ReadAll lit le contenu texte du presse-papier.
// Retourne une chaîne de caractères et une erreur éventuelle.
func ReadAll() (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", err
	}
	return text, nil
}

// WriteAll écrit une chaîne de caractères dans le presse-papier.
// Retourne une erreur si l'opération échoue.
func WriteAll(text string) error {
	if text == "" {
		return ErrEmpty
	}
	return clipboard.WriteAll(text)
}

// Available indique si un presse-papier est utilisable (xclip/xsel sous Linux).
func Available() bool {
	return !clipboard.Unsupported
}
