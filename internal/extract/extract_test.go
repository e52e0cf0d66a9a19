package extract

import (
	"strings"
	"testing"
)

func TestLegible(t *testing.T) {
	if Legible("   \n ") {
		t.Error("whitespace should not be legible")
	}
	if Legible("short") {
		t.Error("text below threshold should not be legible")
	}
	if !Legible(strings.Repeat("word ", 10)) {
		t.Error("expected long text to be legible")
	}
}

func TestPDFTextGarbageInput(t *testing.T) {
	if _, err := PDFText([]byte("this is not a pdf")); err == nil {
		t.Fatal("expected error for non-PDF input")
	}
}

func TestContentStreamText(t *testing.T) {
	cases := []struct {
		name   string
		stream string
		want   string
	}{
		{"simple", "BT (Hello) Tj (World) Tj ET", "Hello World"},
		{"nested parens", "((inner)) Tj", "(inner)"},
		{"escapes", `(line\none \(x\)) Tj`, "line\none (x)"},
		{"no strings", "BT /F1 12 Tf ET", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := contentStreamText([]byte(tc.stream))
			if got != tc.want {
				t.Errorf("contentStreamText(%q) = %q, want %q", tc.stream, got, tc.want)
			}
		})
	}
}
