package nlp

import (
	"strings"
	"unicode"
)

// EmptyContentError reports that a document contained no usable text after
// normalization.
type EmptyContentError struct{}

func (e *EmptyContentError) Error() string { return "document contains no usable text" }

func isKeptPunct(r rune) bool {
	switch r {
	case '.', ',', '!', '?', '-':
		return true
	}
	return false
}

// Normalize cleans raw extracted text into a canonical form ready for
// sentence segmentation: characters outside alphanumerics, whitespace and
// basic punctuation are dropped, and all whitespace runs collapse to single
// spaces.
func Normalize(raw string) (string, error) {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || isKeptPunct(r) {
			b.WriteRune(r)
		}
	}

	cleaned := strings.Join(strings.Fields(b.String()), " ")
	if cleaned == "" {
		return "", &EmptyContentError{}
	}
	return cleaned, nil
}
