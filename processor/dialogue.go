package processor

import (
	"strconv"
	"strings"

	"github.com/ZaguanLabs/badtl"
)

// DialogueProcessor prepares game dialogue for translation and restores it
// afterwards. Each chunk of the encoded text is one translation node.
type DialogueProcessor struct {
	chunkBudget int
	lineBudget  int
}

// DialogueOption configures the dialogue processor.
type DialogueOption func(*DialogueProcessor)

// WithChunkBudget sets the maximum characters per chunk.
func WithChunkBudget(n int) DialogueOption {
	return func(p *DialogueProcessor) {
		p.chunkBudget = n
	}
}

// WithLineBudget sets the maximum visible characters per output line.
func WithLineBudget(n int) DialogueOption {
	return func(p *DialogueProcessor) {
		p.lineBudget = n
	}
}

// WithBudgets takes both budgets from a pipeline configuration.
func WithBudgets(cfg badtl.Config) DialogueOption {
	return func(p *DialogueProcessor) {
		p.chunkBudget = cfg.ChunkBudget
		p.lineBudget = cfg.LineBudget
	}
}

// NewDialogueProcessor creates a dialogue processor with the default budgets.
// A Translator replaces the budgets with those of its Config.
func NewDialogueProcessor(opts ...DialogueOption) *DialogueProcessor {
	p := &DialogueProcessor{
		chunkBudget: badtl.DefaultChunkBudget,
		lineBudget:  badtl.DefaultLineBudget,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// parsedDialogue holds the chunks in input order.
type parsedDialogue struct {
	chunks []Chunk
}

// Extract encodes content and splits it into chunk nodes.
func (p *DialogueProcessor) Extract(content string) (interface{}, []badtl.TextNode, error) {
	var encoded strings.Builder
	if err := Encode(strings.NewReader(content), &encoded, p.chunkBudget); err != nil {
		return nil, nil, err
	}
	chunks := SplitChunks(encoded.String())

	nodes := make([]badtl.TextNode, len(chunks))
	for i, c := range chunks {
		text := c.Text()
		nodes[i] = badtl.TextNode{
			ID:       "chunk-" + strconv.Itoa(c.Index),
			Text:     text,
			Hash:     badtl.HashText(text),
			NodeType: "dialogue_chunk",
			Metadata: map[string]string{
				"chunk_index": strconv.Itoa(c.Index),
				"line_count":  strconv.Itoa(len(c.Lines)),
				"length":      strconv.Itoa(c.Len()),
			},
		}
	}

	return &parsedDialogue{chunks: chunks}, nodes, nil
}

// Apply wraps every translated chunk to the line budget, in input order, and
// decodes the result. A chunk without a translation is passed through.
func (p *DialogueProcessor) Apply(parsed interface{}, nodes []badtl.TextNode, translations map[string]string) (string, error) {
	pd, ok := parsed.(*parsedDialogue)
	if !ok {
		return "", &badtl.ProcessorError{
			Op:          "apply",
			Message:     "invalid parsed content type",
			ContentType: badtl.ContentTypeDialogue,
		}
	}

	var b strings.Builder
	for _, c := range pd.chunks {
		text := c.Text()
		translated, ok := translations[badtl.HashText(text)]
		if !ok {
			translated = text
		}
		b.WriteString(WrapLines(translated, p.lineBudget))
	}

	var out strings.Builder
	if err := Decode(strings.NewReader(b.String()), &out); err != nil {
		return "", err
	}
	return out.String(), nil
}

// Configured returns a copy of p using the budgets of cfg.
func (p *DialogueProcessor) Configured(cfg badtl.Config) badtl.ContentProcessor {
	return &DialogueProcessor{
		chunkBudget: cfg.ChunkBudget,
		lineBudget:  cfg.LineBudget,
	}
}

// ContentType returns "dialogue".
func (p *DialogueProcessor) ContentType() string {
	return badtl.ContentTypeDialogue
}

// ChunkBudget returns the configured chunk budget.
func (p *DialogueProcessor) ChunkBudget() int {
	return p.chunkBudget
}

// LineBudget returns the configured line budget.
func (p *DialogueProcessor) LineBudget() int {
	return p.lineBudget
}

// Verify DialogueProcessor implements ConfigurableProcessor
var _ badtl.ConfigurableProcessor = (*DialogueProcessor)(nil)
