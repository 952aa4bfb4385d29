package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// countingReader compte le nombre d'octets lus via Read.
type countingReader struct {
	R io.Reader
	N int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.R.Read(p)
	if n > 0 {
		c.N += int64(n)
	}
	return n, err
}

// JSONInto télécharge rawURL et décode le JSON directement dans dst (dst doit être un pointeur).
// Utilise un json.Decoder sur un reader limité et détecte si le decode a nécessité
// plus de MaxBytes en vérifiant le compteur.
func (c *Client) JSONInto(ctx context.Context, rawURL string, dst interface{}) error {
	resp, cancel, err := c.do(ctx, rawURL)
	if err != nil {
		return fmt.Errorf("fetch json: %w", err)
	}
	defer cancel()
	defer resp.Body.Close()

	max := c.maxBytes()
	cr := &countingReader{R: io.LimitReader(resp.Body, max+1)}
	if err := json.NewDecoder(cr).Decode(dst); err != nil {
		// erreur de décodage (JSON invalide, EOF inattendu, etc.)
		return fmt.Errorf("fetch json: decode: %w", err)
	}
	// si on a lu plus que max, le decode a consommé max+1 => overflow
	if cr.N > max {
		return fmt.Errorf("fetch json: %w", ErrTooLarge)
	}
	return nil
}

// JSON générique : fetch + unmarshal dans une valeur typée.
func JSON[T any](ctx context.Context, c *Client, rawURL string) (T, error) {
	var v T
	if err := c.JSONInto(ctx, rawURL, &v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}
