package providers

import (
	"regexp"
	"strings"
)

var (
	mdImage      = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	mdLink       = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	mdHeading    = regexp.MustCompile(`^#{1,6}\s+`)
	mdListMarker = regexp.MustCompile(`^(?:[-*+]|\d+[.)])\s+`)
	mdTableRule  = regexp.MustCompile(`^\|?\s*:?-{3,}:?\s*(?:\|\s*:?-{3,}:?\s*)*\|?$`)
	mdEmphasis   = strings.NewReplacer("**", "", "__", "", "`", "")
)

// SplitLines splits plain text into trimmed, non-empty lines.
func SplitLines(text string) []string {
	var out []string
	for _, l := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// MarkdownToLines flattens OCR markdown into plain text lines. Table rows
// become one line per row with cells separated by single spaces.
func MarkdownToLines(md string) []string {
	var out []string
	for _, l := range SplitLines(md) {
		if mdTableRule.MatchString(l) {
			continue
		}
		l = mdImage.ReplaceAllString(l, "")
		l = mdLink.ReplaceAllString(l, "$1")
		l = mdHeading.ReplaceAllString(l, "")
		l = mdListMarker.ReplaceAllString(l, "")
		l = strings.TrimPrefix(l, "> ")
		l = mdEmphasis.Replace(l)
		if strings.HasPrefix(l, "|") || strings.HasSuffix(l, "|") {
			cells := strings.Split(strings.Trim(l, "|"), "|")
			parts := cells[:0]
			for _, c := range cells {
				if c = strings.TrimSpace(c); c != "" {
					parts = append(parts, c)
				}
			}
			l = strings.Join(parts, " ")
		}
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
