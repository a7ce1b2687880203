package generator

import (
	"context"
	"errors"
	"math/rand"
	"strings"

	"quizforge-backend/internal/models"
	"quizforge-backend/internal/nlp"
)

// generateObjective builds MCQ questions with a text-to-text model: one
// generated question per sampled sentence, the answer extracted back out of
// the same sentence by the QA capability, and three distractors from the
// surrounding context.
func (g *Generator) generateObjective(ctx context.Context, sentences []nlp.Sentence, numQuestions int, rng *rand.Rand) ([]models.Question, error) {
	if g.textGen == nil || g.qa == nil {
		return nil, &GenerationError{Stage: "objective", Err: errors.New("no generative model configured")}
	}

	meaningful := meaningfulSentences(sentences)
	if len(meaningful) < numQuestions {
		return nil, &InsufficientContentError{Required: numQuestions, Usable: len(meaningful)}
	}

	distractor := NewDistractorGenerator(rng)
	questions := make([]models.Question, 0, numQuestions)

	for _, i := range rng.Perm(len(meaningful))[:numQuestions] {
		sentCtx := meaningful[i].Text

		questionText, err := g.textGen.GenerateText(ctx, "Generate a factual question about this text: "+sentCtx, 50)
		if err != nil {
			return nil, &GenerationError{Stage: "question generation", Err: err}
		}

		answer, err := g.qa.ExtractAnswer(ctx, questionText, sentCtx)
		if err != nil {
			return nil, &GenerationError{Stage: "answer extraction", Err: err}
		}

		options := append([]string{answer}, distractor.Generate(answer, sentCtx, 3)...)
		rng.Shuffle(len(options), func(a, b int) { options[a], options[b] = options[b], options[a] })

		correct := 0
		for idx, opt := range options {
			if opt == answer {
				correct = idx
				break
			}
		}

		questions = append(questions, models.Question{
			Text:          strings.TrimSpace(questionText),
			Type:          models.QuizTypeObjective,
			Options:       options,
			CorrectIndex:  correct,
			CorrectAnswer: answer,
			SourceContext: sentCtx,
		})
	}

	return questions, nil
}

// meaningfulSentences keeps only sentences substantial enough to ask about:
// more than 8 word tokens, more than 5 of them content words.
func meaningfulSentences(sentences []nlp.Sentence) []nlp.Sentence {
	var out []nlp.Sentence
	for _, sent := range sentences {
		words := 0
		content := 0
		for _, tok := range sent.Tokens {
			if !isWordToken(tok.Word) {
				continue
			}
			words++
			if !nlp.IsStopWord(tok.Word) {
				content++
			}
		}
		if words > 8 && content > 5 {
			out = append(out, sent)
		}
	}
	return out
}

func isWordToken(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return s != ""
}
