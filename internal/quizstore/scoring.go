package quizstore

import (
	"strconv"
	"strings"

	"quizforge-backend/internal/models"
)

// scoreAnswer compares one answer to one question. Index-typed questions
// (mcq, true_false, objective) compare the answer parsed as an option index;
// text-typed ones compare case-insensitively. Subjective questions are
// human-graded and never counted.
func scoreAnswer(q models.Question, answer string) (correct, graded bool) {
	trimmed := strings.TrimSpace(answer)
	switch q.Type {
	case models.QuizTypeMCQ, models.QuizTypeTrueFalse, models.QuizTypeObjective:
		idx, err := strconv.Atoi(trimmed)
		return err == nil && idx == q.CorrectIndex, true
	case models.QuizTypeSubjective:
		return false, false
	default:
		return strings.EqualFold(trimmed, q.CorrectAnswer), true
	}
}

func scoreSubmission(questions []models.Question, answers []string) (score int, percent float64, feedback []models.AnswerFeedback) {
	graded := 0
	feedback = make([]models.AnswerFeedback, 0, len(questions))

	for i, q := range questions {
		correct, counts := scoreAnswer(q, answers[i])
		if counts {
			graded++
			if correct {
				score++
			}
		}
		feedback = append(feedback, models.AnswerFeedback{
			QuestionIndex: i,
			Correct:       correct,
			StudentAnswer: answers[i],
			CorrectAnswer: q.CorrectAnswer,
		})
	}

	if graded > 0 {
		percent = float64(score) / float64(graded) * 100
	}
	return score, percent, feedback
}
