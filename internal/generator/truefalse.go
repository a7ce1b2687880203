package generator

import (
	"math/rand"
	"strings"

	"quizforge-backend/internal/models"
	"quizforge-backend/internal/nlp"
)

// Antonym pairs used to corrupt a statement into a false one.
var antonyms = map[string]string{
	"good": "bad", "bad": "good",
	"high": "low", "low": "high",
	"large": "small", "small": "large",
	"fast": "slow", "slow": "fast",
	"early": "late", "late": "early",
	"hot": "cold", "cold": "hot",
	"new": "old", "old": "new",
	"right": "wrong", "wrong": "right",
}

// generateTrueFalse takes the first numQuestions sentences and flips a fair
// coin per sentence. A "false" outcome substitutes the first adjective,
// adverb or verb that has a known antonym. When no token has an antonym the
// statement stays unchanged but keeps its false label.
func (g *Generator) generateTrueFalse(sentences []nlp.Sentence, numQuestions int, rng *rand.Rand) ([]models.Question, error) {
	if len(sentences) < numQuestions {
		return nil, &InsufficientContentError{Required: numQuestions, Usable: len(sentences)}
	}

	questions := make([]models.Question, 0, numQuestions)
	for _, sent := range sentences[:numQuestions] {
		truth := rng.Intn(2) == 0
		text := sent.Text

		if !truth {
			for _, tok := range sent.Tokens {
				switch tok.POS {
				case nlp.POSAdjective, nlp.POSAdverb, nlp.POSVerb:
				default:
					continue
				}
				if ant, ok := antonyms[strings.ToLower(tok.Word)]; ok {
					text = strings.Replace(text, tok.Word, ant, 1)
					break
				}
			}
		}

		correctIndex := 0
		correctAnswer := "true"
		if !truth {
			correctIndex = 1
			correctAnswer = "false"
		}

		questions = append(questions, models.Question{
			Text:          text,
			Type:          models.QuizTypeTrueFalse,
			CorrectIndex:  correctIndex,
			CorrectAnswer: correctAnswer,
			SourceContext: sent.Text,
		})
	}

	return questions, nil
}
