package frames

import "strings"

// CodeIndicators are the substrings that mark OCR text as code-like.
// Matching is case-sensitive. "for" is not an indicator.
var CodeIndicators = []string{
	"{", "}", "[", "]", "(", ")", ";", "==", "!=", "+=", "-=", "=>",
	"function", "class", "const", "let", "var", "if", "else", "while",
	"return", "import", "from", "def", "print", "public", "private", "static",
}

// HasCode reports whether text contains any of CodeIndicators.
func HasCode(text string) bool {
	for _, indicator := range CodeIndicators {
		if strings.Contains(text, indicator) {
			return true
		}
	}
	return false
}
