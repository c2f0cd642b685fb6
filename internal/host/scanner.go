package host

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MarkerToken asks for an MCP lookup when typed as a separate word.
const MarkerToken = "->mcp"

// Marker is the byte range [Start, End) of a marker in a buffer.
type Marker struct {
	Start int
	End   int
}

// FindMarker returns the first MarkerToken that has whitespace immediately
// before and after it. The start and end of buf do not count as whitespace.
func FindMarker(buf string) (Marker, bool) {
	from := 0
	for from < len(buf) {
		i := strings.Index(buf[from:], MarkerToken)
		if i < 0 {
			break
		}
		start := from + i
		end := start + len(MarkerToken)
		if start > 0 && end < len(buf) {
			before, _ := utf8.DecodeLastRuneInString(buf[:start])
			after, _ := utf8.DecodeRuneInString(buf[end:])
			if unicode.IsSpace(before) && unicode.IsSpace(after) {
				return Marker{Start: start, End: end}, true
			}
		}
		from = start + 1
	}
	return Marker{}, false
}

// dropMarker joins the text around a declined marker, removing one of the
// two whitespace runes that surrounded it.
func dropMarker(prefix, suffix string) string {
	if r, size := utf8.DecodeRuneInString(suffix); size > 0 && unicode.IsSpace(r) {
		if last, _ := utf8.DecodeLastRuneInString(prefix); prefix == "" || unicode.IsSpace(last) {
			return prefix + suffix[size:]
		}
		return prefix + suffix
	}
	if suffix == "" {
		return strings.TrimRightFunc(prefix, unicode.IsSpace)
	}
	return prefix + suffix
}
