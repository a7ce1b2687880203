package nlp

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"collapses whitespace runs", "The  quick\t\tbrown\n\nfox.", "The quick brown fox."},
		{"strips special characters", "Water (H2O) boils @ 100°C!", "Water H2O boils 100C!"},
		{"keeps basic punctuation", "Wait, really? Yes! Well-known.", "Wait, really? Yes! Well-known."},
		{"trims surrounding space", "   padded text   ", "padded text"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.input)
			if err != nil {
				t.Fatalf("Normalize returned error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestNormalizeEmptyContent(t *testing.T) {
	for _, input := range []string{"", "   \n\t  ", "@#$%^&*"} {
		_, err := Normalize(input)
		var emptyErr *EmptyContentError
		if !errors.As(err, &emptyErr) {
			t.Errorf("Normalize(%q): expected EmptyContentError, got %v", input, err)
		}
	}
}

func TestMapPennTag(t *testing.T) {
	tests := []struct {
		tag      string
		expected POS
	}{
		{"NN", POSNoun},
		{"NNS", POSNoun},
		{"NNP", POSNoun},
		{"VB", POSVerb},
		{"VBD", POSVerb},
		{"JJ", POSAdjective},
		{"JJR", POSAdjective},
		{"RB", POSAdverb},
		{"DT", POSOther},
		{"IN", POSOther},
	}

	for _, tc := range tests {
		if got := MapPennTag(tc.tag); got != tc.expected {
			t.Errorf("MapPennTag(%q): expected %s, got %s", tc.tag, tc.expected, got)
		}
	}
}

func TestIsStopWord(t *testing.T) {
	for _, w := range []string{"the", "The", "AND", "with"} {
		if !IsStopWord(w) {
			t.Errorf("Expected %q to be a stop word", w)
		}
	}
	for _, w := range []string{"photosynthesis", "quiz", "gravity"} {
		if IsStopWord(w) {
			t.Errorf("Did not expect %q to be a stop word", w)
		}
	}
}
