package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ZaguanLabs/badtl"
)

func TestGoogleProvider_Translate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/translate_a/single" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if q.Get("client") != "gtx" || q.Get("sl") != "en" || q.Get("tl") != "af" || q.Get("dt") != "t" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if q.Get("q") != "<NUL><msg_1><NUL>Hello. How are you?" {
			t.Errorf("unexpected text %q", q.Get("q"))
		}
		if !strings.Contains(r.UserAgent(), "badtl") {
			t.Errorf("unexpected user agent %q", r.UserAgent())
		}
		w.Write([]byte(`[[["<NUL><msg_1><NUL>Hallo. ","<NUL><msg_1><NUL>Hello. ",null,null,10],["Hoe gaan dit?","How are you?",null,null,10]],null,"en"]`))
	}))
	defer srv.Close()

	p := NewGoogleProvider(GoogleConfig{BaseURL: srv.URL})

	result, err := p.Translate(context.Background(), TranslateRequest{
		Texts:      []string{"<NUL><msg_1><NUL>Hello. How are you?"},
		SourceLang: "en",
		TargetLang: "af",
	})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if result[0] != "<NUL><msg_1><NUL>Hallo. Hoe gaan dit?" {
		t.Errorf("unexpected result %q", result[0])
	}
}

func TestGoogleProvider_StatusErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		retryable bool
	}{
		{"too many requests", http.StatusTooManyRequests, true},
		{"server error", http.StatusBadGateway, true},
		{"bad request", http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer srv.Close()

			p := NewGoogleProvider(GoogleConfig{BaseURL: srv.URL})
			_, err := p.Translate(context.Background(), TranslateRequest{Texts: []string{"x"}, SourceLang: "en", TargetLang: "ja"})

			var perr *badtl.ProviderError
			if !errors.As(err, &perr) {
				t.Fatalf("Expected ProviderError, got %v", err)
			}
			if perr.StatusCode != tt.status || perr.Retryable != tt.retryable {
				t.Errorf("got status %d retryable %v", perr.StatusCode, perr.Retryable)
			}
		})
	}
}

func TestParseGoogleResponse_Malformed(t *testing.T) {
	for _, body := range []string{"", "{}", "[]", `["x"]`} {
		if _, err := parseGoogleResponse([]byte(body)); err == nil {
			t.Errorf("expected error for %q", body)
		}
	}
}

func TestScriptProvider_Translate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("key") != "abc" {
			t.Errorf("existing query parameters should be kept, got %s", r.URL.RawQuery)
		}
		if q.Get("source") != "pt" || q.Get("target") != "sw" {
			t.Errorf("unexpected languages %s", r.URL.RawQuery)
		}
		w.Write([]byte("Habari\nrafiki\n"))
	}))
	defer srv.Close()

	p, err := NewScriptProvider(ScriptConfig{URL: srv.URL + "/exec?key=abc"})
	if err != nil {
		t.Fatalf("NewScriptProvider failed: %v", err)
	}

	result, err := p.Translate(context.Background(), TranslateRequest{
		Texts:      []string{"Olá amigo"},
		SourceLang: "pt",
		TargetLang: "sw",
	})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if result[0] != "Habarirafiki" {
		t.Errorf("expected body lines concatenated, got %q", result[0])
	}
}

func TestNewScriptProvider_InvalidURL(t *testing.T) {
	for _, u := range []string{"", "not-a-url", "/relative/path"} {
		_, err := NewScriptProvider(ScriptConfig{URL: u})

		var cerr *badtl.ConfigError
		if !errors.As(err, &cerr) {
			t.Errorf("URL %q: expected ConfigError, got %v", u, err)
		}
	}
}

func TestWebProvider_Translate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/m" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("tl") != "ru" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><body>
<div class="result-container">&lt;NUL&gt;&lt;msg_1&gt;&lt;NUL&gt;Привет, &quot;друг&quot;</div>
<div class="result-container">second</div>
</body></html>`))
	}))
	defer srv.Close()

	p := NewWebProvider(WebConfig{BaseURL: srv.URL})

	result, err := p.Translate(context.Background(), TranslateRequest{
		Texts:      []string{"<NUL><msg_1><NUL>Hello, \"friend\""},
		SourceLang: "en",
		TargetLang: "ru",
	})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if result[0] != `<NUL><msg_1><NUL>Привет, "друг"` {
		t.Errorf("unexpected result %q", result[0])
	}
}

func TestWebProvider_MissingResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><form>captcha</form></body></html>`))
	}))
	defer srv.Close()

	p := NewWebProvider(WebConfig{BaseURL: srv.URL})
	_, err := p.Translate(context.Background(), TranslateRequest{Texts: []string{"x"}, SourceLang: "en", TargetLang: "fr"})

	if !badtl.IsRetryable(err) {
		t.Errorf("missing result should be retryable, got %v", err)
	}
}

func TestHTTPProvider_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[[["x","x"]]]`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewGoogleProvider(GoogleConfig{BaseURL: srv.URL})
	_, err := p.Translate(ctx, TranslateRequest{Texts: []string{"x"}, SourceLang: "en", TargetLang: "fr"})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled in chain, got %v", err)
	}
	if badtl.IsRetryable(err) {
		t.Error("cancelled request should not be retryable")
	}
}

func TestProviderFunc_Alias(t *testing.T) {
	var p AIProvider = ProviderFunc(func(ctx context.Context, text, from, to string) (string, error) {
		return from + ">" + to + ":" + text, nil
	})

	result, err := p.Translate(context.Background(), TranslateRequest{Texts: []string{"hi"}, SourceLang: "en", TargetLang: "yi"})
	if err != nil || result[0] != "en>yi:hi" {
		t.Errorf("unexpected result %v, %v", result, err)
	}
}
