package processor

import "strings"

// WrapLines breaks a translated chunk, which arrives on a single line, into
// lines of at most maxCharsPerLine visible characters.
//
// Characters inside <...> do not count toward the line length and a break is
// never placed inside a tag. A tag that follows visible text starts a new
// line; consecutive tags stay together. When the budget is reached the break
// is deferred to the next space or tag, so a word longer than the budget
// overflows the line instead of being split. The output always starts with a
// line break. A budget of zero or less disables length-based breaks.
func WrapLines(chunk string, maxCharsPerLine int) string {
	runes := []rune(chunk)

	var b strings.Builder
	b.Grow(len(chunk) + len(chunk)/8 + 1)
	b.WriteByte('\n')

	depth := 0
	visible := 0
	previousWasTag := true

	for pos := 0; pos < len(runes); {
		c := runes[pos]

		if c == '<' {
			depth++
			if !previousWasTag {
				b.WriteByte('\n')
			}
			previousWasTag = true
			visible = 0
		}
		// a stray '>' must not leave the scan stuck "inside" a tag
		if c == '>' && depth > 0 {
			depth--
		}

		if depth == 0 && c != '>' {
			previousWasTag = false
			visible++

			if maxCharsPerLine > 0 && visible >= maxCharsPerLine {
				end := pos + 1
				for end < len(runes) && runes[end] != ' ' && runes[end] != '<' {
					end++
				}

				b.WriteString(string(runes[pos:end]))
				b.WriteByte('\n')
				pos = end
				visible = 0
				continue
			}
		}

		b.WriteRune(c)
		pos++
	}

	return b.String()
}
