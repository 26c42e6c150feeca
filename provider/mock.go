package provider

import (
	"context"
	"sync"
)

// MockProvider is a deterministic provider for tests and dry runs.
// Unknown texts are returned unchanged, so a chain through a bare
// MockProvider is the identity.
type MockProvider struct {
	// Translations maps "target:text" or plain "text" to a translation.
	Translations map[string]string
	// Failures maps a target language to the error returned for it.
	Failures map[string]error
	// Transform, when set, handles texts missing from Translations.
	Transform func(text, sourceLang, targetLang string) string

	mu          sync.Mutex
	callCount   int
	lastRequest *TranslateRequest
}

// NewMockProvider creates an empty mock provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Translations: make(map[string]string),
		Failures:     make(map[string]error),
	}
}

// Translate returns mock translations.
func (m *MockProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	m.mu.Lock()
	m.callCount++
	m.lastRequest = &req
	failure := m.Failures[req.TargetLang]
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if failure != nil {
		return nil, failure
	}

	results := make([]string, len(req.Texts))
	for i, text := range req.Texts {
		switch {
		case m.Translations[req.TargetLang+":"+text] != "":
			results[i] = m.Translations[req.TargetLang+":"+text]
		case m.Translations[text] != "":
			results[i] = m.Translations[text]
		case m.Transform != nil:
			results[i] = m.Transform(text, req.SourceLang, req.TargetLang)
		default:
			results[i] = text
		}
	}

	return results, nil
}

// CallCount returns how many times Translate was called.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// LastRequest returns the last request received, or nil.
func (m *MockProvider) LastRequest() *TranslateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastRequest
}

// Reset resets the call count and last request.
func (m *MockProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.lastRequest = nil
}

var _ AIProvider = (*MockProvider)(nil)
