package processor

import (
	"bufio"
	"io"
	"regexp"
	"strings"
)

// bracketedIdentifierPattern matches an identifier wrapped by EncodeLine.
var bracketedIdentifierPattern = regexp.MustCompile(`<(\w*_\w*)>`)

// EntityRepair is a literal substitution undoing an entity the translation
// service introduced.
type EntityRepair struct {
	Old string
	New string
}

// EntityRepairs are applied in order. The three &gt; rules go from the most
// specific corruption to the plain entity.
var EntityRepairs = []EntityRepair{
	{Old: "&#39;", New: "'"},
	{Old: "&quot;", New: `"`},
	{Old: "&gt;f", New: ">"},
	{Old: " &gt;", New: ">"},
	{Old: "&gt;", New: ">"},
}

// DecodeLine reverses EncodeLine on one line and repairs entity corruption.
func DecodeLine(line string) string {
	line = bracketedIdentifierPattern.ReplaceAllString(line, "$1")
	line = strings.ReplaceAll(line, NulPlaceholder, "\x00")
	line = strings.ReplaceAll(line, ParagraphAlias, ParagraphTag)
	return RepairEntities(line)
}

// RepairEntities applies EntityRepairs in order.
func RepairEntities(line string) string {
	for _, r := range EntityRepairs {
		line = strings.ReplaceAll(line, r.Old, r.New)
	}
	return line
}

// Decode reads lines from r and writes each non-empty line, decoded and
// newline terminated, to w. Empty lines are chunk separators or wrap
// artifacts and are dropped.
func Decode(r io.Reader, w io.Writer) error {
	bw := bufio.NewWriter(w)

	err := readLines(r, "decode", func(line string) error {
		if line == "" {
			return nil
		}
		if _, err := bw.WriteString(DecodeLine(line)); err != nil {
			return writeError("decode", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return writeError("decode", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := bw.Flush(); err != nil {
		return writeError("decode", err)
	}
	return nil
}

// DecodeString is Decode over an in-memory string, where neither side can
// fail.
func DecodeString(text string) string {
	var b strings.Builder
	_ = Decode(strings.NewReader(text), &b)
	return b.String()
}
