package badtl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Translator runs content through the configured chain of translation hops.
type Translator struct {
	config     Config
	hops       []Hop
	provider   AIProvider
	cache      TranslationCache
	cacheScope string
	context    string
	logger     *slog.Logger
	workers    int
	processors map[string]ContentProcessor
}

// AIProvider is the interface for translation backends.
type AIProvider interface {
	Translate(ctx context.Context, req TranslateRequest) ([]string, error)
}

// TranslateRequest contains the parameters for one hop.
type TranslateRequest struct {
	Texts      []string
	SourceLang string
	TargetLang string
	Context    string // Free-form hint for providers that accept one
}

// ProviderFunc adapts a single-text translate function to AIProvider.
type ProviderFunc func(ctx context.Context, text, sourceLang, targetLang string) (string, error)

// Translate calls f once per text.
func (f ProviderFunc) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	results := make([]string, len(req.Texts))
	for i, text := range req.Texts {
		translated, err := f(ctx, text, req.SourceLang, req.TargetLang)
		if err != nil {
			return nil, err
		}
		results[i] = translated
	}
	return results, nil
}

// TranslationCache is the interface for hop caching.
type TranslationCache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}

// ContentProcessor is the interface for content processing.
type ContentProcessor interface {
	Extract(content string) (interface{}, []TextNode, error)
	Apply(parsed interface{}, nodes []TextNode, translations map[string]string) (string, error)
	ContentType() string
}

// ConfigurableProcessor is a ContentProcessor that depends on the pipeline
// budgets. NewTranslator registers Configured(config) in its place, so the
// translator's Config is the one that applies.
type ConfigurableProcessor interface {
	ContentProcessor
	Configured(cfg Config) ContentProcessor
}

// TranslatorOption is a functional option for configuring the Translator.
type TranslatorOption func(*Translator)

// WithConfig replaces the whole configuration record.
func WithConfig(cfg Config) TranslatorOption {
	return func(t *Translator) {
		t.config = cfg
	}
}

// WithSourceLang sets the source language.
func WithSourceLang(lang string) TranslatorOption {
	return func(t *Translator) {
		t.config.SourceLang = lang
	}
}

// WithLanguages sets the intermediate language sequence.
func WithLanguages(langs []string) TranslatorOption {
	return func(t *Translator) {
		t.config.Languages = langs
	}
}

// WithChunkBudget sets the maximum characters per chunk.
func WithChunkBudget(n int) TranslatorOption {
	return func(t *Translator) {
		t.config.ChunkBudget = n
	}
}

// WithLineBudget sets the maximum visible characters per output line. Zero
// disables wrapping.
func WithLineBudget(n int) TranslatorOption {
	return func(t *Translator) {
		t.config.LineBudget = n
	}
}

// WithCache sets the hop cache.
func WithCache(cache TranslationCache) TranslatorOption {
	return func(t *Translator) {
		t.cache = cache
	}
}

// WithCacheScope adds name to every cache key, so caches shared between
// providers keep their translations apart.
func WithCacheScope(name string) TranslatorOption {
	return func(t *Translator) {
		t.cacheScope = name
	}
}

// WithContext sets a hint passed to providers along with every hop.
func WithContext(ctx string) TranslatorOption {
	return func(t *Translator) {
		t.context = ctx
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) TranslatorOption {
	return func(t *Translator) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithWorkers sets how many chunks are chained concurrently. Output order
// does not depend on it.
func WithWorkers(n int) TranslatorOption {
	return func(t *Translator) {
		t.workers = n
	}
}

// WithProcessor registers a content processor.
func WithProcessor(processor ContentProcessor) TranslatorOption {
	return func(t *Translator) {
		t.processors[processor.ContentType()] = processor
	}
}

// NewTranslator creates a new Translator using provider for every hop.
func NewTranslator(provider AIProvider, opts ...TranslatorOption) *Translator {
	t := &Translator{
		config:     DefaultConfig(),
		provider:   provider,
		logger:     slog.New(slog.DiscardHandler),
		workers:    1,
		processors: make(map[string]ContentProcessor),
	}

	for _, opt := range opts {
		opt(t)
	}

	for contentType, p := range t.processors {
		if cp, ok := p.(ConfigurableProcessor); ok {
			t.processors[contentType] = cp.Configured(t.config)
		}
	}

	t.hops = t.config.Hops()
	return t
}

// Process translates content of the specified type.
func (t *Translator) Process(ctx context.Context, content string, contentType string) (*ProcessedContent, error) {
	if err := t.config.Validate(); err != nil {
		return nil, err
	}
	if t.provider == nil && len(t.hops) > 0 {
		return nil, &ConfigError{Field: "provider", Message: "is required when languages are configured"}
	}

	processor, ok := t.processors[contentType]
	if !ok {
		return nil, &ProcessorError{
			Op:          "process",
			Message:     "no processor registered for content type",
			ContentType: contentType,
		}
	}

	parsed, nodes, err := processor.Extract(content)
	if err != nil {
		return nil, err
	}

	log := t.logger.With("run_id", uuid.NewString(), "content_type", contentType)
	log.Info("translation run started", "chunks", len(nodes), "hops", len(t.hops))

	result := &ProcessedContent{TotalChunks: len(nodes)}

	translations := make(map[string]string)
	if len(t.hops) > 0 && len(nodes) > 0 {
		translations, err = t.translateNodes(ctx, log, nodes, result)
		if err != nil {
			return nil, err
		}
	}

	content, err = processor.Apply(parsed, nodes, translations)
	if err != nil {
		return nil, err
	}
	result.Content = content

	log.Info("translation run finished",
		"translated_hops", result.TranslatedHops,
		"cached_hops", result.CachedHops,
		"fallback_chunks", result.FallbackChunks,
	)
	return result, nil
}

// ProcessDialogue is a convenience method for processing dialogue files.
func (t *Translator) ProcessDialogue(ctx context.Context, content string) (*ProcessedContent, error) {
	return t.Process(ctx, content, ContentTypeDialogue)
}

// ProcessStream reads all of r as dialogue, translates it and writes the
// result to w.
func (t *Translator) ProcessStream(ctx context.Context, r io.Reader, w io.Writer) (*ProcessedContent, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ProcessorError{Op: "read", Message: "failed to read input", Cause: err, ContentType: ContentTypeDialogue}
	}

	result, err := t.ProcessDialogue(ctx, string(data))
	if err != nil {
		return nil, err
	}

	if _, err := io.WriteString(w, result.Content); err != nil {
		return nil, &ProcessorError{Op: "write", Message: "failed to write output", Cause: err, ContentType: ContentTypeDialogue}
	}
	return result, nil
}

// Chain runs text through every hop. When a hop fails the original text is
// returned together with the error.
func (t *Translator) Chain(ctx context.Context, text string) (string, error) {
	out, _, err := t.chain(ctx, text, -1)
	return out, err
}

// translateNodes chains every distinct node and records the outcome in result.
// It only fails when ctx is done.
func (t *Translator) translateNodes(ctx context.Context, log *slog.Logger, nodes []TextNode, result *ProcessedContent) (map[string]string, error) {
	var unique []TextNode
	seen := make(map[string]bool)
	for _, node := range nodes {
		if !seen[node.Hash] {
			seen[node.Hash] = true
			unique = append(unique, node)
		}
	}

	results := t.runChains(ctx, unique)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	translations := make(map[string]string, len(unique))
	for i, node := range unique {
		r := results[i]
		result.TranslatedHops += r.stats.translated
		result.CachedHops += r.stats.cached

		if r.err != nil {
			if errors.Is(r.err, context.Canceled) || errors.Is(r.err, context.DeadlineExceeded) {
				return nil, r.err
			}
			log.Warn("chunk passed through untranslated", "chunk", node.ID, "error", r.err)
			result.FallbackChunks++
		}
		translations[node.Hash] = r.text
	}

	return translations, nil
}

// chainStats counts how each hop of one chain was answered.
type chainStats struct {
	translated int
	cached     int
}

func (t *Translator) chain(ctx context.Context, text string, chunk int) (string, chainStats, error) {
	var stats chainStats
	current := text

	for _, hop := range t.hops {
		if err := ctx.Err(); err != nil {
			return text, stats, err
		}

		key := t.cacheKey(current, hop)
		if t.cache != nil {
			if cached, ok := t.cache.Get(key); ok {
				current = cached
				stats.cached++
				continue
			}
		}

		if t.provider == nil {
			return text, stats, &ConfigError{Field: "provider", Message: "is required when languages are configured"}
		}

		results, err := t.provider.Translate(ctx, TranslateRequest{
			Texts:      []string{current},
			SourceLang: hop.From,
			TargetLang: hop.To,
			Context:    t.context,
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return text, stats, ctxErr
			}
			return text, stats, &TranslationError{Hop: hop, Chunk: chunk, Cause: err}
		}
		if len(results) != 1 {
			return text, stats, &TranslationError{Hop: hop, Chunk: chunk, Cause: &CountMismatchError{Expected: 1, Got: len(results)}}
		}

		current = results[0]
		stats.translated++

		if t.cache != nil {
			if err := t.cache.Set(key, current); err != nil {
				t.logger.Debug("cache set failed", "hop", hop.String(), "error", err)
			}
		}
	}

	return current, stats, nil
}

func (t *Translator) cacheKey(text string, hop Hop) string {
	if t.cacheScope == "" {
		return CacheKey(HashText(text), hop.From, hop.To)
	}
	return CacheKeyExtended(HashText(text), hop.From, hop.To, t.cacheScope)
}

// chunkIndex reads the chunk index a processor recorded for node.
func chunkIndex(node TextNode) int {
	if idx, err := strconv.Atoi(node.Metadata["chunk_index"]); err == nil {
		return idx
	}
	return -1
}

// Config returns the configuration record.
func (t *Translator) Config() Config {
	return t.config
}

// Hops returns the expanded hop sequence.
func (t *Translator) Hops() []Hop {
	return t.hops
}

// SourceLang returns the source language.
func (t *Translator) SourceLang() string {
	return t.config.SourceLang
}

// Languages returns the intermediate language sequence.
func (t *Translator) Languages() []string {
	return t.config.Languages
}

// Route describes the hop chain with language names, e.g.
// "English → Afrikaans → ... → English".
func (t *Translator) Route() string {
	if len(t.hops) == 0 {
		return GetLanguageName(t.config.SourceLang)
	}
	names := []string{GetLanguageName(t.hops[0].From)}
	for _, hop := range t.hops {
		names = append(names, GetLanguageName(hop.To))
	}
	return strings.Join(names, " → ")
}

// String implements fmt.Stringer.
func (t *Translator) String() string {
	return fmt.Sprintf("Translator(%d hops, %d workers)", len(t.hops), t.workers)
}
