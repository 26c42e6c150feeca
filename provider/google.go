package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ZaguanLabs/badtl"
)

// DefaultGoogleURL is the public endpoint used by browser extensions.
const DefaultGoogleURL = "https://translate.googleapis.com"

// GoogleProvider translates through the translate_a/single gtx endpoint.
type GoogleProvider struct {
	baseURL string
	getter  httpGetter
}

// GoogleConfig holds configuration for the Google provider.
type GoogleConfig struct {
	BaseURL    string        // Endpoint root (default: DefaultGoogleURL)
	Timeout    time.Duration // Per-request timeout (default: DefaultTimeout)
	HTTPClient *http.Client  // Optional custom client; Timeout is ignored when set
}

// NewGoogleProvider creates a new Google provider.
func NewGoogleProvider(cfg GoogleConfig) *GoogleProvider {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultGoogleURL
	}
	return &GoogleProvider{
		baseURL: strings.TrimRight(base, "/"),
		getter:  newHTTPGetter("google", cfg.HTTPClient, cfg.Timeout),
	}
}

// Translate translates each text with one request.
func (p *GoogleProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	return translateEach(ctx, req, func(ctx context.Context, text string) (string, error) {
		return p.translate(ctx, text, req.SourceLang, req.TargetLang)
	})
}

func (p *GoogleProvider) translate(ctx context.Context, text, from, to string) (string, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", from)
	q.Set("tl", to)
	q.Set("dt", "t")
	q.Set("q", text)

	body, err := p.getter.get(ctx, p.baseURL+"/translate_a/single?"+q.Encode())
	if err != nil {
		return "", err
	}
	return parseGoogleResponse(body)
}

// parseGoogleResponse joins the translated segments of a gtx response:
// [[["seg1","src1",...],["seg2","src2",...]], ...].
func parseGoogleResponse(body []byte) (string, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || len(raw) == 0 {
		return "", &badtl.ProviderError{Message: "google: malformed response", Cause: err}
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(raw[0], &segments); err != nil {
		return "", &badtl.ProviderError{Message: "google: malformed segments", Cause: err}
	}

	var b strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var s string
		if err := json.Unmarshal(seg[0], &s); err != nil {
			continue // null entries carry transliteration data
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

var _ AIProvider = (*GoogleProvider)(nil)
