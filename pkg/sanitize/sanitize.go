// Package sanitize provides conservative allowlist-based HTML sanitization
// for untrusted board content (feature descriptions and comments):
//   - removes <script>, <style>, <iframe>, <object>, <embed>, <link>, <meta>
//     including their contents
//   - removes event handler attributes (on*) and javascript: URLs
//   - keeps basic formatting tags
//
// It also provides Strip to extract plain text for card previews.
package sanitize

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// blockedTags are removed entirely, contents included.
var blockedTags = map[string]bool{
	"script": true,
	"style":  true,
	"iframe": true,
	"object": true,
	"embed":  true,
	"link":   true,
	"meta":   true,
}

// voidTags have no end tag; a blocked void tag is dropped without
// content skipping.
var voidTags = map[string]bool{
	"link": true,
	"meta": true,
}

var javascriptURL = regexp.MustCompile(`(?i)^\s*javascript:`)

// HTML sanitizes untrusted HTML for safe rendering.
func HTML(input string) string {
	if input == "" {
		return ""
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(input))

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// io.EOF or malformed input; either way, emit what we have
			return b.String()
		}

		tok := z.Token()
		switch tt {
		case html.TextToken:
			b.WriteString(html.EscapeString(tok.Data))

		case html.StartTagToken, html.SelfClosingTagToken:
			name := strings.ToLower(tok.Data)
			if blockedTags[name] {
				if tt == html.StartTagToken && !voidTags[name] {
					skipElement(z, name)
				}
				continue
			}
			writeTag(&b, tok, tt == html.SelfClosingTagToken)

		case html.EndTagToken:
			name := strings.ToLower(tok.Data)
			if blockedTags[name] {
				continue
			}
			b.WriteString("</")
			b.WriteString(name)
			b.WriteString(">")

		case html.CommentToken, html.DoctypeToken:
			// dropped
		}
	}
}

// skipElement consumes tokens until the matching end tag of a blocked
// element, discarding everything in between.
func skipElement(z *html.Tokenizer, name string) {
	depth := 1
	for depth > 0 {
		tt := z.Next()
		if tt == html.ErrorToken {
			return
		}
		tok := z.Token()
		tag := strings.ToLower(tok.Data)
		switch tt {
		case html.StartTagToken:
			if tag == name {
				depth++
			}
		case html.EndTagToken:
			if tag == name {
				depth--
			}
		}
	}
}

// writeTag renders a start tag, filtering dangerous attributes.
func writeTag(b *strings.Builder, tok html.Token, selfClosing bool) {
	b.WriteString("<")
	b.WriteString(strings.ToLower(tok.Data))

	for _, attr := range tok.Attr {
		name := strings.ToLower(attr.Key)
		if strings.HasPrefix(name, "on") {
			continue
		}
		if (name == "href" || name == "src") && javascriptURL.MatchString(attr.Val) {
			continue
		}
		b.WriteString(" ")
		b.WriteString(name)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(attr.Val))
		b.WriteString(`"`)
	}

	if selfClosing {
		b.WriteString("/")
	}
	b.WriteString(">")
}

// Strip extracts the plain text content of untrusted HTML with interior
// whitespace collapsed to single spaces and the result trimmed.
func Strip(input string) string {
	if input == "" {
		return ""
	}

	var parts []string
	z := html.NewTokenizer(strings.NewReader(input))

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
		}

		tok := z.Token()
		switch tt {
		case html.TextToken:
			parts = append(parts, tok.Data)
		case html.StartTagToken:
			name := strings.ToLower(tok.Data)
			if blockedTags[name] && !voidTags[name] {
				skipElement(z, name)
			}
		}
	}
}
