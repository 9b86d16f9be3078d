package board

import (
	"github.com/featurekit/board-widget/pkg/sanitize"
)

// PreviewLength is the character budget for card description previews.
const PreviewLength = 140

// makePreview derives a card preview from an untrusted HTML description:
// HTML stripped to plain text with whitespace collapsed, then truncated to
// the preview budget with an ellipsis appended if truncated. Truncation is
// rune-based so multibyte text never splits mid-character.
func makePreview(rawHTML string) string {
	text := sanitize.Strip(rawHTML)

	runes := []rune(text)
	if len(runes) <= PreviewLength {
		return text
	}
	return string(runes[:PreviewLength]) + "…"
}
