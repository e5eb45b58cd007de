package subtitle

import (
	"regexp"
	"strings"
)

// Fixer is the pluggable content-correction pass applied between
// normalization and deduplication. It must be pure text-in, text-out; the
// pipeline treats it as opaque.
type Fixer func(string) string

// ChainFixers composes fixers left to right.
func ChainFixers(fixers ...Fixer) Fixer {
	return func(text string) string {
		for _, fix := range fixers {
			if fix != nil {
				text = fix(text)
			}
		}
		return text
	}
}

var trailingSpaceRe = regexp.MustCompile(`[ \t]+\n`)

// DefaultFixer corrects transcription defects the platform is known to ship:
// Unicode ellipsis and one-dot leader characters, CRLF line endings, and
// trailing whitespace on cue lines.
func DefaultFixer() Fixer {
	return func(text string) string {
		text = strings.ReplaceAll(text, "\r\n", "\n")
		text = strings.ReplaceAll(text, "…", "...")
		text = strings.ReplaceAll(text, "․", ".")
		text = trailingSpaceRe.ReplaceAllString(text, "\n")
		return text
	}
}
