package utils

import (
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2/lexers"
)

// DetectLanguage returns the language name chroma associates with the
// filename, or "text" when no lexer matches. The tag is advisory metadata for
// display purposes.
func DetectLanguage(filename string) string {
	lexer := lexers.Match(filename)
	if lexer == nil {
		return "text"
	}
	return lexer.Config().Name
}

// IsLikelyText reports whether content looks like text rather than binary
// data: valid UTF-8 with no null bytes in the leading sample.
func IsLikelyText(content []byte) bool {
	sample := content
	truncated := false
	if len(sample) > 8192 {
		sample = sample[:8192]
		truncated = true
	}
	for _, b := range sample {
		if b == 0 {
			return false
		}
	}
	if truncated {
		// Drop a partial rune left at the cut point before validating.
		for len(sample) > 0 && !utf8.Valid(sample) {
			sample = sample[:len(sample)-1]
			if len(sample) < 8189 {
				break
			}
		}
	}
	return utf8.Valid(sample)
}
