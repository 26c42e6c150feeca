// Package provider implements translation backends for the hop chain.
package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ZaguanLabs/badtl"
)

// AIProvider is the interface for translation backends.
// This is an alias to the main package interface for convenience.
type AIProvider = badtl.AIProvider

// TranslateRequest is an alias to the main package type.
type TranslateRequest = badtl.TranslateRequest

// ProviderFunc is an alias to the main package adapter.
type ProviderFunc = badtl.ProviderFunc

// DefaultTimeout bounds a single HTTP translation request.
const DefaultTimeout = 30 * time.Second

// maxBodySize caps how much of a response body is read.
const maxBodySize = 4 << 20

// httpGetter performs the GET requests shared by the HTTP providers.
type httpGetter struct {
	client    *http.Client
	userAgent string
	name      string
}

func newHTTPGetter(name string, client *http.Client, timeout time.Duration) httpGetter {
	if client == nil {
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return httpGetter{client: client, userAgent: badtl.UserAgent(), name: name}
}

// get fetches rawURL and returns the body. Non-2xx responses become a
// ProviderError, retryable for 429 and 5xx.
func (g httpGetter) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &badtl.ProviderError{Message: g.name + ": building request", Cause: err}
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, &badtl.ProviderError{
			Message:   g.name + ": request failed",
			Cause:     err,
			Retryable: ctx.Err() == nil,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &badtl.ProviderError{
			Message:    g.name + ": reading response",
			Cause:      err,
			StatusCode: resp.StatusCode,
			Retryable:  true,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &badtl.ProviderError{
			Message:    fmt.Sprintf("%s: unexpected response %q", g.name, snippet(body)),
			StatusCode: resp.StatusCode,
			Retryable:  retryableStatus(resp.StatusCode),
		}
	}

	return body, nil
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 120 {
		s = s[:120] + "..."
	}
	return s
}

// translateEach calls fn once per text of the request.
func translateEach(ctx context.Context, req TranslateRequest, fn func(ctx context.Context, text string) (string, error)) ([]string, error) {
	results := make([]string, len(req.Texts))
	for i, text := range req.Texts {
		translated, err := fn(ctx, text)
		if err != nil {
			return nil, err
		}
		results[i] = translated
	}
	return results, nil
}
