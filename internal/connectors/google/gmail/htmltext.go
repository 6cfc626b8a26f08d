package gmail

import (
	"html"
	"regexp"
	"strings"
)

var (
	invisibleElements = regexp.MustCompile(`(?is)<(script|style|head|noscript|svg)\b[^>]*>.*?</(script|style|head|noscript|svg)>`)
	htmlComment       = regexp.MustCompile(`(?s)<!--.*?-->`)
	lineBreaks        = regexp.MustCompile(`(?i)<br\s*/?>|<hr\s*/?>|</?(p|div|h[1-6]|li|tr|blockquote|pre|table)\b[^>]*>`)
	anyTag            = regexp.MustCompile(`<[^>]+>`)
	runsOfBlanks      = regexp.MustCompile(`[ \t\p{Zs}]+`)
)

// htmlToText reduces an HTML mail body to readable lines. Block elements
// become line breaks and entities are decoded.
func htmlToText(body string) string {
	if body == "" {
		return ""
	}

	body = invisibleElements.ReplaceAllString(body, "")
	body = htmlComment.ReplaceAllString(body, "")
	body = lineBreaks.ReplaceAllString(body, "\n")
	body = anyTag.ReplaceAllString(body, "")
	body = html.UnescapeString(body)

	var lines []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(runsOfBlanks.ReplaceAllString(line, " "))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
