package provider

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ZaguanLabs/badtl"
)

// DefaultWebURL serves the lightweight mobile translation page.
const DefaultWebURL = "https://translate.google.com"

// DefaultResultSelector locates the translated text on the mobile page.
const DefaultResultSelector = ".result-container"

// WebProvider scrapes the mobile translation page. It needs no API key.
type WebProvider struct {
	baseURL  string
	selector string
	getter   httpGetter
}

// WebConfig holds configuration for the web provider.
type WebConfig struct {
	BaseURL    string        // Page root (default: DefaultWebURL)
	Selector   string        // CSS selector of the result (default: DefaultResultSelector)
	Timeout    time.Duration
	HTTPClient *http.Client
}

// NewWebProvider creates a new web provider.
func NewWebProvider(cfg WebConfig) *WebProvider {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultWebURL
	}
	selector := cfg.Selector
	if selector == "" {
		selector = DefaultResultSelector
	}
	return &WebProvider{
		baseURL:  strings.TrimRight(base, "/"),
		selector: selector,
		getter:   newHTTPGetter("web", cfg.HTTPClient, cfg.Timeout),
	}
}

// Translate translates each text with one page request.
func (p *WebProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	return translateEach(ctx, req, func(ctx context.Context, text string) (string, error) {
		q := url.Values{}
		q.Set("sl", req.SourceLang)
		q.Set("tl", req.TargetLang)
		q.Set("q", text)

		body, err := p.getter.get(ctx, p.baseURL+"/m?"+q.Encode())
		if err != nil {
			return "", err
		}
		return p.extract(body)
	})
}

// extract returns the text of the first element matching the selector.
// Entities in the page are decoded by the HTML parser.
func (p *WebProvider) extract(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", &badtl.ProviderError{Message: "web: parsing page", Cause: err}
	}

	sel := doc.Find(p.selector).First()
	if sel.Length() == 0 {
		return "", &badtl.ProviderError{
			Message:   "web: no " + p.selector + " in page",
			Retryable: true,
		}
	}
	return sel.Text(), nil
}

var _ AIProvider = (*WebProvider)(nil)
