// ABOUTME: VisibleWidth and TruncateToWidth with grapheme-aware measurement
// ABOUTME: ANSI sequences count as zero columns; fast path for plain ASCII

package width

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// VisibleWidth returns the display width of s, accounting for ANSI escape
// sequences (zero width) and grapheme clusters (which may be two cells for
// East Asian characters and emoji).
func VisibleWidth(s string) int {
	if isPlainASCII(s) {
		return len(s)
	}
	stripped := StripANSI(s)
	w := 0
	state := -1
	for len(stripped) > 0 {
		var cluster string
		cluster, stripped, _, state = uniseg.FirstGraphemeClusterInString(stripped, state)
		w += graphemeWidth(cluster)
	}
	return w
}

// TruncateToWidth cuts s to at most maxWidth visible columns. When it cuts,
// the last column becomes an ellipsis and styling is reset before it.
func TruncateToWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if VisibleWidth(s) <= maxWidth {
		return s
	}
	if maxWidth == 1 {
		return "…"
	}

	var b strings.Builder
	col := 0
	target := maxWidth - 1
	for i := 0; i < len(s) && col < target; {
		if s[i] == '\x1b' {
			end := skipANSISequence(s, i)
			b.WriteString(s[i:end])
			i = end
			continue
		}
		cluster, rest, _, _ := uniseg.FirstGraphemeClusterInString(s[i:], -1)
		cw := graphemeWidth(cluster)
		if col+cw > target {
			break
		}
		b.WriteString(cluster)
		col += cw
		i += len(s[i:]) - len(rest)
	}
	b.WriteString("\x1b[0m…")
	return b.String()
}

// isPlainASCII reports whether s holds only printable ASCII.
func isPlainASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7E {
			return false
		}
	}
	return true
}

func graphemeWidth(cluster string) int {
	if cluster == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(cluster)
	return runewidth.RuneWidth(r)
}
