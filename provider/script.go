package provider

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ZaguanLabs/badtl"
)

// ScriptProvider calls a deployed translation web-app script with the
// q, source and target query parameters. The response body is the
// translated text.
type ScriptProvider struct {
	endpoint *url.URL
	getter   httpGetter
}

// ScriptConfig holds configuration for the script provider.
type ScriptConfig struct {
	URL        string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// NewScriptProvider creates a new script provider.
func NewScriptProvider(cfg ScriptConfig) (*ScriptProvider, error) {
	if cfg.URL == "" {
		return nil, &badtl.ConfigError{Field: "ScriptURL", Message: "is required"}
	}
	u, err := url.Parse(cfg.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, &badtl.ConfigError{Field: "ScriptURL", Message: "must be an absolute URL"}
	}

	return &ScriptProvider{
		endpoint: u,
		getter:   newHTTPGetter("script", cfg.HTTPClient, cfg.Timeout),
	}, nil
}

// Translate translates each text with one request.
func (p *ScriptProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	return translateEach(ctx, req, func(ctx context.Context, text string) (string, error) {
		u := *p.endpoint
		q := u.Query()
		q.Set("q", text)
		q.Set("target", req.TargetLang)
		q.Set("source", req.SourceLang)
		u.RawQuery = q.Encode()

		body, err := p.getter.get(ctx, u.String())
		if err != nil {
			return "", err
		}

		// the body is read line by line and the lines concatenated
		out := strings.ReplaceAll(string(body), "\r\n", "")
		return strings.ReplaceAll(out, "\n", ""), nil
	})
}

var _ AIProvider = (*ScriptProvider)(nil)
