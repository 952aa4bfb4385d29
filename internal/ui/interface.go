package ui

import (
	"context"
)

type Interface interface {
	// GetVideoRef doit renvoyer une référence de vidéo valide (URL, BVID ou avXXX).
	// Implémentation terminale : priorité clipboard -> prompt
	GetVideoRef(ctx context.Context) (string, error)

	PrintInfo(ctx context.Context, s string)
	PrintError(ctx context.Context, s string)

	// ReadCommand lit une commande clavier du mode suivi (une ligne, sans espaces).
	// io.EOF quand l'entrée est fermée.
	ReadCommand(ctx context.Context) (string, error)
}
