package normalization

import (
	"strings"
)

func ParseInputString(input string) string {
	normalized := strings.ToLower(strings.TrimSpace(input))
	return normalized
}

// NormalizeSkillName canonicalizes a skill name for equality comparison only.
// The canonical form is never stored or displayed: lowercase, periods/hyphens/
// underscores removed, runs of whitespace collapsed to one space, trimmed.
// Any input normalizes to some string; degenerate input yields "".
func NormalizeSkillName(name string) string {
	lowered := strings.ToLower(name)

	var b strings.Builder
	b.Grow(len(lowered))
	prevSpace := false
	for _, r := range lowered {
		switch {
		case r == '.' || r == '-' || r == '_':
			// dropped entirely, "node.js" and "nodejs" compare equal
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if !prevSpace {
				b.WriteRune(' ')
				prevSpace = true
			}
		default:
			b.WriteRune(r)
			prevSpace = false
		}
	}
	return strings.TrimSpace(b.String())
}
