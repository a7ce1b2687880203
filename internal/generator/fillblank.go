package generator

import (
	"math/rand"
	"strings"

	"quizforge-backend/internal/models"
	"quizforge-backend/internal/nlp"
)

// generateFillBlank removes the first eligible content word of each sentence
// and records it as the sole accepted answer (matched case-insensitively at
// scoring time). Sentences without an eligible word are skipped.
func (g *Generator) generateFillBlank(sentences []nlp.Sentence, numQuestions int, _ *rand.Rand) ([]models.Question, error) {
	used := make(map[string]struct{})
	questions := make([]models.Question, 0, numQuestions)

	for _, sent := range sentences {
		if len(questions) >= numQuestions {
			break
		}

		var answer *nlp.Token
		for _, tok := range answerCandidates(sent) {
			if _, taken := used[strings.ToLower(tok.Word)]; taken {
				continue
			}
			tok := tok
			answer = &tok
			break
		}
		if answer == nil {
			continue
		}

		questions = append(questions, models.Question{
			Text:          strings.Replace(sent.Text, answer.Word, blankMarker, 1),
			Type:          models.QuizTypeFillBlank,
			Options:       []string{answer.Word},
			CorrectIndex:  0,
			CorrectAnswer: answer.Word,
			SourceContext: sent.Text,
		})
		used[strings.ToLower(answer.Word)] = struct{}{}
	}

	if len(questions) < numQuestions {
		return nil, &InsufficientContentError{Required: numQuestions, Usable: len(questions)}
	}
	return questions, nil
}
