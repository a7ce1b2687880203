package generator

import (
	"math/rand"
	"strings"
	"unicode"

	"quizforge-backend/internal/nlp"
)

// DistractorGenerator produces plausible-but-wrong options for a given
// correct answer from its surrounding context. When the context is too
// sparse it pads with a fixed sequence of three synthetic fallbacks and
// never fails. Counts up to three are always filled; larger counts can come
// back short once context candidates and the fallbacks are exhausted.
type DistractorGenerator struct {
	rng *rand.Rand
}

func NewDistractorGenerator(rng *rand.Rand) *DistractorGenerator {
	return &DistractorGenerator{rng: rng}
}

func (d *DistractorGenerator) Generate(answer, context string, count int) []string {
	candidates := make([]string, 0)
	seen := make(map[string]struct{})

	for _, word := range tokenizeWords(context) {
		if len(word) <= 3 || nlp.IsStopWord(word) || strings.EqualFold(word, answer) {
			continue
		}
		titled := titleCase(word)
		if _, ok := seen[titled]; ok {
			continue
		}
		seen[titled] = struct{}{}
		candidates = append(candidates, titled)
	}

	distractors := make([]string, 0, count)
	for _, i := range d.rng.Perm(len(candidates)) {
		if len(distractors) >= count {
			break
		}
		distractors = append(distractors, candidates[i])
	}

	// Synthetic fallbacks, in fixed order, until count entries exist.
	for _, fb := range []string{"Not " + answer, "None of the above", "All of the above"} {
		if len(distractors) >= count {
			break
		}
		if !containsFold(distractors, fb) {
			distractors = append(distractors, fb)
		}
	}

	return distractors
}

func tokenizeWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func titleCase(w string) string {
	if w == "" {
		return w
	}
	runes := []rune(strings.ToLower(w))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
