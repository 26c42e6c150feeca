package badtl

import (
	"fmt"
	"strings"
)

// Defaults for the chunk and line budgets. 950 characters keeps a chunk well
// under the translation endpoint's request limit; 26 characters fit the
// in-game text box.
const (
	DefaultChunkBudget = 950
	DefaultLineBudget  = 26
	DefaultSourceLang  = "en"
)

// ContentTypeDialogue is the content type handled by the dialogue processor.
const ContentTypeDialogue = "dialogue"

// TextNode represents one translation unit. For dialogue content a node is a
// whole chunk.
type TextNode struct {
	ID       string            // Stable identifier within one extraction ("chunk-3")
	Text     string            // Text sent to the translator, whitespace preserved
	Hash     string            // SHA-256 of Text
	NodeType string            // Content type: "dialogue_chunk", ...
	Metadata map[string]string // Additional info (chunk index, line count, etc.)
}

// Config is the pipeline configuration record.
type Config struct {
	ChunkBudget int      // Maximum characters per chunk
	LineBudget  int      // Maximum visible characters per output line
	SourceLang  string   // Language of the input, and of the final output
	Languages   []string // Ordered intermediate languages
}

// DefaultConfig returns the configuration the dialogue files were tuned for.
func DefaultConfig() Config {
	langs := make([]string, len(DefaultLanguages))
	copy(langs, DefaultLanguages)
	return Config{
		ChunkBudget: DefaultChunkBudget,
		LineBudget:  DefaultLineBudget,
		SourceLang:  DefaultSourceLang,
		Languages:   langs,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.ChunkBudget < 0 {
		return &ConfigError{Field: "ChunkBudget", Message: fmt.Sprintf("must not be negative, got %d", c.ChunkBudget)}
	}
	if c.LineBudget < 0 {
		return &ConfigError{Field: "LineBudget", Message: fmt.Sprintf("must not be negative, got %d", c.LineBudget)}
	}
	if strings.TrimSpace(c.SourceLang) == "" {
		return &ConfigError{Field: "SourceLang", Message: "is required"}
	}
	for i, lang := range c.Languages {
		if strings.TrimSpace(lang) == "" {
			return &ConfigError{Field: "Languages", Message: fmt.Sprintf("entry %d is empty", i)}
		}
	}
	return nil
}

// Hop is a single translation step.
type Hop struct {
	From string
	To   string
}

func (h Hop) String() string {
	return h.From + "->" + h.To
}

// Hops expands the language sequence into ordered hops, starting and ending at
// the source language. The sequence is followed literally; only a hop whose
// two ends are the same code is dropped.
func (c Config) Hops() []Hop {
	if len(c.Languages) == 0 {
		return nil
	}

	chain := make([]string, 0, len(c.Languages)+2)
	chain = append(chain, NormalizeLang(c.SourceLang))
	for _, lang := range c.Languages {
		chain = append(chain, NormalizeLang(lang))
	}
	chain = append(chain, NormalizeLang(c.SourceLang))

	var hops []Hop
	from := chain[0]
	for _, to := range chain[1:] {
		if from == to {
			continue
		}
		hops = append(hops, Hop{From: from, To: to})
		from = to
	}
	return hops
}

// ProcessedContent is the result of a translation run.
type ProcessedContent struct {
	Content        string // Restored, translated content
	TotalChunks    int    // Number of chunks extracted
	TranslatedHops int    // Hops answered by the provider
	CachedHops     int    // Hops answered by the cache
	FallbackChunks int    // Chunks passed through untranslated after a failure
}
