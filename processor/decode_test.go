package processor

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/ZaguanLabs/badtl"
)

func TestDecodeLine(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "identifier",
			input:    "<go_home> you",
			expected: "go_home you",
		},
		{
			name:     "null placeholder",
			input:    "Hello<NUL>World",
			expected: "Hello\x00World",
		},
		{
			name:     "paragraph placeholder",
			input:    "First<placeholder>Second",
			expected: "First<p>Second",
		},
		{
			name:     "real record",
			input:    "<NUL><msg_stg1_01><NUL><placeholder>Hello",
			expected: "\x00msg_stg1_01\x00<p>Hello",
		},
		{
			name:     "double bracketed identifier",
			input:    "<<go_home>> you",
			expected: "<go_home> you",
		},
		{
			name:     "other tags untouched",
			input:    "<wait 250>Hmm<b>",
			expected: "<wait 250>Hmm<b>",
		},
		{
			name:     "apostrophe entity",
			input:    "It&#39;s me",
			expected: "It's me",
		},
		{
			name:     "quote entity",
			input:    "&quot;Run!&quot;",
			expected: `"Run!"`,
		},
		{
			name:     "corrupted closing brackets",
			input:    "&gt;f&gt; &gt;",
			expected: ">>>",
		},
		{
			name:     "spaced entity",
			input:    "<wait 250 &gt;Hmm",
			expected: "<wait 250>Hmm",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DecodeLine(tt.input)
			if result != tt.expected {
				t.Errorf("DecodeLine(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestDecode_SkipsSeparators(t *testing.T) {
	result := DecodeString("\n<NUL><msg_1><NUL>Hi\n\n\nthere\n")
	expected := "\x00msg_1\x00Hi\nthere\n"

	if result != expected {
		t.Errorf("DecodeString() = %q, want %q", result, expected)
	}
}

func TestDecode_ReadError(t *testing.T) {
	var b strings.Builder
	err := Decode(iotest.ErrReader(errors.New("disk gone")), &b)

	var perr *badtl.ProcessorError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProcessorError, got %v", err)
	}
	if perr.Op != "decode" {
		t.Errorf("expected op decode, got %q", perr.Op)
	}
}

func TestDecode_WriteError(t *testing.T) {
	err := Decode(strings.NewReader("hello\n"), failingWriter{})
	if err == nil {
		t.Fatal("expected error from failing writer")
	}
}

func TestRepairEntities_Order(t *testing.T) {
	// the apostrophe and quote rules do not overlap and commute
	input := "&#39;&quot;&#39;"
	swapped := strings.ReplaceAll(strings.ReplaceAll(input, "&quot;", `"`), "&#39;", "'")
	if RepairEntities(input) != swapped {
		t.Errorf("RepairEntities(%q) = %q, want %q", input, RepairEntities(input), swapped)
	}

	// the &gt; family is order dependent: the plain rule first would leave
	// the stray "f" and the space behind
	input = "&gt;f&gt; &gt;"
	plainFirst := strings.ReplaceAll(input, "&gt;", ">")
	if RepairEntities(input) == plainFirst {
		t.Errorf("expected the specific &gt; rules to run before the plain one")
	}
	if RepairEntities(input) != ">>>" {
		t.Errorf("RepairEntities(%q) = %q, want %q", input, RepairEntities(input), ">>>")
	}
}

func TestRoundTrip(t *testing.T) {
	input := "\x00msg_stg1_01\x00<p>Hello there!\n" +
		"I am <b>bold</b> and go_home go_home xgo_home\n" +
		"\x00choice_yes\x00Yes\x00choice_no\x00No\n" +
		"<msg_1> already bracketed\n" +
		"_lead trail_ and a_b_c\n" +
		"wörld_ünïcode stays\n"

	for _, budget := range []int{0, 5, 20, 950} {
		result := DecodeString(EncodeString(input, budget))
		if result != input {
			t.Errorf("budget %d: round trip gave %q, want %q", budget, result, input)
		}
	}
}

func TestRoundTrip_ConcreteScenarios(t *testing.T) {
	if got := EncodeLine("go_home you"); got != "<go_home> you" {
		t.Errorf("EncodeLine = %q", got)
	}
	if got := DecodeLine("<go_home> you"); got != "go_home you" {
		t.Errorf("DecodeLine = %q", got)
	}

	line := "left\x00right"
	encoded := EncodeLine(line)
	if encoded != "left<NUL>right" {
		t.Errorf("EncodeLine(%q) = %q", line, encoded)
	}
	decoded := DecodeLine(encoded)
	if decoded != line || strings.IndexByte(decoded, 0) != 4 {
		t.Errorf("DecodeLine(%q) = %q", encoded, decoded)
	}
}

func TestDecode_LongLine(t *testing.T) {
	long := strings.Repeat("y", 17<<20)

	var b strings.Builder
	if err := Decode(strings.NewReader("<a_b>\n\n"+long+"\n"), &b); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if want := "a_b\n" + long + "\n"; b.String() != want {
		t.Errorf("long line lost: got %d bytes, want %d", b.Len(), len(want))
	}
}
