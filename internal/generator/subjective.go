package generator

import (
	"context"
	"errors"
	"math/rand"
	"strings"

	"quizforge-backend/internal/models"
	"quizforge-backend/internal/nlp"
)

var questionStarters = []string{
	"Explain how",
	"Describe why",
	"Analyze the",
	"Compare and contrast",
	"What are the implications of",
	"Evaluate the importance of",
	"Discuss the relationship between",
	"What conclusions can be drawn about",
	"How would you interpret",
	"What evidence supports",
}

// generateSubjective samples 3-sentence paragraphs, asks the model for a
// question about each, and pairs it with the paragraph as a model answer.
// There is no correctness check; subjective submissions are human-graded.
func (g *Generator) generateSubjective(ctx context.Context, sentences []nlp.Sentence, numQuestions int, rng *rand.Rand) ([]models.Question, error) {
	if g.textGen == nil {
		return nil, &GenerationError{Stage: "subjective", Err: errors.New("no generative model configured")}
	}

	paragraphs := groupParagraphs(sentences, 3)
	if len(paragraphs) < numQuestions {
		return nil, &InsufficientContentError{Required: numQuestions, Usable: len(paragraphs)}
	}

	questions := make([]models.Question, 0, numQuestions)
	for _, i := range rng.Perm(len(paragraphs))[:numQuestions] {
		para := paragraphs[i]

		generated, err := g.textGen.GenerateText(ctx, "Generate a thought-provoking question about this text: "+para, 50)
		if err != nil {
			return nil, &GenerationError{Stage: "question generation", Err: err}
		}

		starter := questionStarters[rng.Intn(len(questionStarters))]
		questions = append(questions, models.Question{
			Text:          starter + " " + strings.ToLower(strings.TrimSpace(generated)),
			Type:          models.QuizTypeSubjective,
			CorrectAnswer: para,
			SourceContext: para,
		})
	}

	return questions, nil
}

// groupParagraphs joins consecutive sentences into paragraphs of the given
// size; a shorter trailing group still counts as a paragraph.
func groupParagraphs(sentences []nlp.Sentence, size int) []string {
	var paragraphs []string
	var current []string
	for _, sent := range sentences {
		current = append(current, sent.Text)
		if len(current) >= size {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = nil
		}
	}
	if len(current) > 0 {
		paragraphs = append(paragraphs, strings.Join(current, " "))
	}
	return paragraphs
}
