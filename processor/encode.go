package processor

import (
	"bufio"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ZaguanLabs/badtl"
)

// Placeholder tokens written in place of bytes and markup the translator
// would otherwise drop or mangle.
const (
	NulPlaceholder = "<NUL>"
	ParagraphTag   = "<p>"
	ParagraphAlias = "<placeholder>"
)

// identifierPattern matches a run of word characters containing an
// underscore, e.g. msg_stg1_01.
var identifierPattern = regexp.MustCompile(`\w*_\w*`)

// EncodeLine protects the structure of one line: identifiers are wrapped in
// angle brackets, NUL bytes become <NUL> and <p> becomes <placeholder>.
// Every identifier is bracketed where it was found, so repeated identifiers
// and identifiers that are substrings of one another are handled.
func EncodeLine(line string) string {
	line = identifierPattern.ReplaceAllString(line, "<$0>")
	line = strings.ReplaceAll(line, "\x00", NulPlaceholder)
	line = strings.ReplaceAll(line, ParagraphTag, ParagraphAlias)
	return line
}

// Encode reads lines from r, encodes each and writes them to w. A blank line
// is written before a line that would push the running character count of the
// current chunk over chunkBudget. A single line longer than the budget forms
// its own chunk. A chunkBudget of zero or less disables splitting.
func Encode(r io.Reader, w io.Writer, chunkBudget int) error {
	bw := bufio.NewWriter(w)

	count := 0
	err := readLines(r, "encode", func(raw string) error {
		line := EncodeLine(raw)
		n := utf8.RuneCountInString(line)

		if chunkBudget > 0 && count != 0 && count+n > chunkBudget {
			if err := bw.WriteByte('\n'); err != nil {
				return writeError("encode", err)
			}
			count = 0
		}

		count += n
		if _, err := bw.WriteString(line); err != nil {
			return writeError("encode", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return writeError("encode", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := bw.Flush(); err != nil {
		return writeError("encode", err)
	}
	return nil
}

// EncodeString is Encode over an in-memory string.
// Lines have no length limit, so only the reader or writer can fail and
// neither does in memory.
func EncodeString(text string, chunkBudget int) string {
	var b strings.Builder
	_ = Encode(strings.NewReader(text), &b, chunkBudget)
	return b.String()
}

// Chunk is a group of encoded lines sent to the translator as one unit.
type Chunk struct {
	Index int
	Lines []string
}

// Text returns the chunk as a single logical line: its lines concatenated
// without separators.
func (c Chunk) Text() string {
	return strings.Join(c.Lines, "")
}

// Len returns the chunk length in characters.
func (c Chunk) Len() int {
	n := 0
	for _, line := range c.Lines {
		n += utf8.RuneCountInString(line)
	}
	return n
}

// SplitChunks parses an encoded stream into its chunks. Blank lines are
// chunk boundaries; runs of blank lines never produce empty chunks.
func SplitChunks(encoded string) []Chunk {
	var chunks []Chunk
	var current []string

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunks = append(chunks, Chunk{Index: len(chunks), Lines: current})
		current = nil
	}

	for _, line := range strings.Split(strings.TrimSuffix(encoded, "\n"), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return chunks
}

// readLines calls fn with every line of r, without its line terminator. A
// final line lacking a newline is still reported. Errors from fn are returned
// as is; read errors are wrapped in a ProcessorError.
func readLines(r io.Reader, op string, fn func(line string) error) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			line = strings.TrimSuffix(line, "\n")
			line = strings.TrimSuffix(line, "\r")
			if ferr := fn(line); ferr != nil {
				return ferr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &badtl.ProcessorError{
				Op:          op,
				Message:     "failed to read input",
				Cause:       err,
				ContentType: badtl.ContentTypeDialogue,
			}
		}
	}
}

func writeError(op string, err error) error {
	return &badtl.ProcessorError{
		Op:          op,
		Message:     "failed to write output",
		Cause:       err,
		ContentType: badtl.ContentTypeDialogue,
	}
}
