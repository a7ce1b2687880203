package generator

import (
	"math/rand"
	"strings"
	"sync"

	"quizforge-backend/internal/models"
	"quizforge-backend/internal/nlp"
)

const blankMarker = "_____"

// Generic filler options per word class, used when a sentence does not hold
// enough same-class words to fill four choices.
var genericOptions = map[nlp.POS][]string{
	nlp.POSNoun:      {"object", "item", "thing", "element", "part", "system", "component"},
	nlp.POSVerb:      {"make", "take", "give", "find", "show", "create", "perform"},
	nlp.POSAdjective: {"good", "new", "first", "last", "long", "important", "different"},
}

// generateMCQ scans sentences in original order, replacing one content word
// per usable sentence with a blank and building four shuffled options around
// it. Per-sentence candidate extraction is independent work and runs
// concurrently; selection stays sequential and in input order, so output is
// deterministic for a fixed seed.
func (g *Generator) generateMCQ(sentences []nlp.Sentence, numQuestions int, rng *rand.Rand) ([]models.Question, error) {
	eligible := make([][]nlp.Token, len(sentences))

	var wg sync.WaitGroup
	for i := range sentences {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			eligible[i] = answerCandidates(sentences[i])
		}(i)
	}
	wg.Wait()

	used := make(map[string]struct{})
	questions := make([]models.Question, 0, numQuestions)

	for i, sent := range sentences {
		if len(questions) >= numQuestions {
			break
		}

		candidates := make([]nlp.Token, 0, len(eligible[i]))
		for _, tok := range eligible[i] {
			if _, taken := used[strings.ToLower(tok.Word)]; !taken {
				candidates = append(candidates, tok)
			}
		}
		if len(candidates) == 0 {
			continue
		}

		answer := candidates[rng.Intn(len(candidates))]
		questions = append(questions, buildMCQ(sent, answer, rng))
		used[strings.ToLower(answer.Word)] = struct{}{}
	}

	if len(questions) < numQuestions {
		return nil, &InsufficientContentError{Required: numQuestions, Usable: len(questions)}
	}
	return questions, nil
}

// answerCandidates returns the tokens of a sentence that can serve as a
// correct answer: content-class words longer than three characters that are
// not stop words.
func answerCandidates(sent nlp.Sentence) []nlp.Token {
	var out []nlp.Token
	for _, tok := range sent.Tokens {
		switch tok.POS {
		case nlp.POSNoun, nlp.POSVerb, nlp.POSAdjective:
		default:
			continue
		}
		if len(tok.Word) <= 3 || nlp.IsStopWord(tok.Word) {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func buildMCQ(sent nlp.Sentence, answer nlp.Token, rng *rand.Rand) models.Question {
	text := "What is the correct word in: '" + strings.Replace(sent.Text, answer.Word, blankMarker, 1) + "'"

	options := []string{answer.Word}

	// Same-class words from the same sentence make the best distractors.
	var similar []string
	for _, tok := range sent.Tokens {
		if tok.POS == answer.POS && tok.Word != answer.Word && !containsFold(similar, tok.Word) {
			similar = append(similar, tok.Word)
		}
	}
	rng.Shuffle(len(similar), func(i, j int) { similar[i], similar[j] = similar[j], similar[i] })
	for _, w := range similar {
		if len(options) >= 3 {
			break
		}
		if !containsFold(options, w) {
			options = append(options, w)
		}
	}

	generic := genericOptions[answer.POS]
	if generic == nil {
		generic = genericOptions[nlp.POSNoun]
	}
	for len(options) < 4 {
		filler := generic[rng.Intn(len(generic))]
		if !containsFold(options, filler) {
			options = append(options, filler)
		}
	}

	rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })

	correct := 0
	for i, opt := range options {
		if opt == answer.Word {
			correct = i
			break
		}
	}

	return models.Question{
		Text:          text,
		Type:          models.QuizTypeMCQ,
		Options:       options,
		CorrectIndex:  correct,
		CorrectAnswer: answer.Word,
		SourceContext: sent.Text,
	}
}
