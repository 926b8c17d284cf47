package quizgen

import (
	"regexp"
	"strings"
)

// fencedBlock matches the first fenced block: an opening marker, an optional
// language tag, the body, and the closing marker. A tag ends at a line break;
// a bare json tag may also sit on the same line as the body.
var fencedBlock = regexp.MustCompile("(?s)```(?:[A-Za-z0-9_+-]+[ \\t]*\\r?\\n|json\\b)?\\s*(.*?)\\s*```")

// Normalize strips one fenced block wrapper from raw provider output and
// returns the trimmed body. Input without a complete fenced block is
// returned trimmed. Normalize(Normalize(x)) == Normalize(x) for any x with
// at most one fenced block.
func Normalize(raw string) string {
	if m := fencedBlock.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(raw)
}
