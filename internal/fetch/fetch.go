// Package fetch fournit des utilitaires légers et testables pour télécharger
// des ressources HTTP (réponses d'API et documents de sous-titres).
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	DefaultTimeout   = 15 * time.Second
	DefaultMaxBytes  = 10_000_000
	DefaultUserAgent = "ccviewer/1.0"
)

// Erreurs exportées
var (
	ErrStatus   = errors.New("unexpected HTTP status")
	ErrTooLarge = errors.New("response body too large")
)

// Client regroupe les réglages d'un téléchargement. La valeur zéro est utilisable.
type Client struct {
	HTTP      *http.Client // nil -> http.DefaultClient
	Timeout   time.Duration
	MaxBytes  int64
	UserAgent string
	Header    http.Header // en-têtes additionnels (Referer...)
}

func (c *Client) httpClient() *http.Client {
	if c == nil || c.HTTP == nil {
		return http.DefaultClient
	}
	return c.HTTP
}

func (c *Client) timeout() time.Duration {
	if c == nil || c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

func (c *Client) maxBytes() int64 {
	if c == nil || c.MaxBytes <= 0 {
		return DefaultMaxBytes
	}
	return c.MaxBytes
}

// do prépare et envoie la requête GET. L'appelant ferme le body et appelle cancel.
func (c *Client) do(ctx context.Context, rawURL string) (*http.Response, context.CancelFunc, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	// valider l'URL tôt
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return nil, nil, fmt.Errorf("invalid url %q: %w", rawURL, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("new request: %w", err)
	}
	ua := DefaultUserAgent
	if c != nil && c.UserAgent != "" {
		ua = c.UserAgent
	}
	req.Header.Set("User-Agent", ua)
	if c != nil {
		for k, vs := range c.Header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		cancel()
		return nil, nil, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}
	// si Content-Length connu et supérieur à maxBytes -> échouer vite
	if max := c.maxBytes(); resp.ContentLength > max {
		resp.Body.Close()
		cancel()
		return nil, nil, fmt.Errorf("%w: content-length %d exceeds limit %d", ErrTooLarge, resp.ContentLength, max)
	}
	return resp, cancel, nil
}

// Bytes télécharge l'URL et retourne les octets.
// Note : lit tout en mémoire (OK pour des documents JSON de quelques centaines de Ko).
func (c *Client) Bytes(ctx context.Context, rawURL string) ([]byte, error) {
	resp, cancel, err := c.do(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer cancel()
	defer resp.Body.Close()

	max := c.maxBytes()
	r := io.LimitReader(resp.Body, max+1) // +1 pour détecter dépassement
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("fetch: read body: %w", err)
	}
	if int64(len(data)) > max {
		return nil, fmt.Errorf("fetch: %w (>%d bytes)", ErrTooLarge, max)
	}
	return data, nil
}
