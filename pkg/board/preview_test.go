package board

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestMakePreview_Truncation(t *testing.T) {
	long := strings.Repeat("a", 300)
	preview := makePreview("<p>" + long + "</p>")

	if !strings.HasSuffix(preview, "…") {
		t.Error("Truncated preview should end in an ellipsis")
	}
	if got := utf8.RuneCountInString(strings.TrimSuffix(preview, "…")); got != PreviewLength {
		t.Errorf("Preview text length = %d runes, want %d", got, PreviewLength)
	}
}

func TestMakePreview_ShortUnchanged(t *testing.T) {
	short := strings.Repeat("b", 50)
	preview := makePreview("<p>" + short + "</p>")

	if preview != short {
		t.Errorf("Short description should pass through unchanged, got %q", preview)
	}
	if strings.Contains(preview, "…") {
		t.Error("Short preview must not carry an ellipsis")
	}
}

func TestMakePreview_StripsMarkupAndWhitespace(t *testing.T) {
	preview := makePreview("<p>line one</p>\n\n<p>line   two</p>")
	if preview != "line one line two" {
		t.Errorf("Preview = %q, want collapsed plain text", preview)
	}
}

func TestMakePreview_MultibyteSafe(t *testing.T) {
	long := strings.Repeat("ü", 200)
	preview := makePreview(long)

	if !utf8.ValidString(preview) {
		t.Fatal("Preview must remain valid UTF-8")
	}
	if got := utf8.RuneCountInString(preview); got != PreviewLength+1 {
		t.Errorf("Preview rune count = %d, want %d", got, PreviewLength+1)
	}
}
