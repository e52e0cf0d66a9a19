package llm

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateText(t *testing.T) {
	short := "hello"
	if got := TruncateText(short); got != short {
		t.Errorf("short text changed: %q", got)
	}

	long := strings.Repeat("a", MaxTextChars+100)
	if got := TruncateText(long); len(got) != MaxTextChars {
		t.Errorf("len = %d, want %d", len(got), MaxTextChars)
	}
}

func TestTruncateTextKeepsValidUTF8(t *testing.T) {
	// Place a multi-byte rune straddling the cut point.
	text := strings.Repeat("a", MaxTextChars-1) + "é" + strings.Repeat("b", 50)
	got := TruncateText(text)
	if !utf8.ValidString(got) {
		t.Fatalf("truncated text is not valid UTF-8: %q", got[len(got)-4:])
	}
	if len(got) > MaxTextChars {
		t.Errorf("len = %d, want <= %d", len(got), MaxTextChars)
	}
}
