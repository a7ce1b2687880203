package quizstore

import (
	"testing"

	"quizforge-backend/internal/models"
)

func TestScoreAnswer(t *testing.T) {
	mcq := models.Question{Type: models.QuizTypeMCQ, CorrectIndex: 2, CorrectAnswer: "Paris"}
	tf := models.Question{Type: models.QuizTypeTrueFalse, CorrectIndex: 1, CorrectAnswer: "false"}
	fill := models.Question{Type: models.QuizTypeFillBlank, CorrectIndex: 0, CorrectAnswer: "Mitochondria"}
	subj := models.Question{Type: models.QuizTypeSubjective, CorrectAnswer: "reference paragraph"}

	tests := []struct {
		name    string
		q       models.Question
		answer  string
		correct bool
		graded  bool
	}{
		{"mcq correct index", mcq, "2", true, true},
		{"mcq wrong index", mcq, "0", false, true},
		{"mcq answer text not index", mcq, "Paris", false, true},
		{"mcq garbage", mcq, "two", false, true},
		{"mcq whitespace tolerated", mcq, " 2 ", true, true},
		{"true_false correct", tf, "1", true, true},
		{"true_false wrong", tf, "0", false, true},
		{"fill_blank exact", fill, "Mitochondria", true, true},
		{"fill_blank case insensitive", fill, "mitochondria", true, true},
		{"fill_blank trimmed", fill, "  MITOCHONDRIA  ", true, true},
		{"fill_blank wrong", fill, "ribosome", false, true},
		{"subjective never graded", subj, "my long essay answer", false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			correct, graded := scoreAnswer(tc.q, tc.answer)
			if correct != tc.correct {
				t.Errorf("correct: expected %v, got %v", tc.correct, correct)
			}
			if graded != tc.graded {
				t.Errorf("graded: expected %v, got %v", tc.graded, graded)
			}
		})
	}
}

func TestScoreSubmission_MixedTypes(t *testing.T) {
	questions := []models.Question{
		{Type: models.QuizTypeMCQ, CorrectIndex: 1, CorrectAnswer: "sunlight"},
		{Type: models.QuizTypeFillBlank, CorrectAnswer: "glucose"},
		{Type: models.QuizTypeSubjective, CorrectAnswer: "reference paragraph"},
	}
	answers := []string{"1", "GLUCOSE", "a free-form essay"}

	score, percent, feedback := scoreSubmission(questions, answers)
	if score != 2 {
		t.Errorf("Expected score 2, got %d", score)
	}
	// Percent is over the two graded questions, the subjective one is excluded.
	if percent != 100 {
		t.Errorf("Expected 100%%, got %v", percent)
	}
	if len(feedback) != 3 {
		t.Fatalf("Expected feedback for all 3 questions, got %d", len(feedback))
	}
	if feedback[2].Correct {
		t.Error("Subjective feedback should never be marked correct")
	}
}

func TestScoreSubmission_AllSubjective(t *testing.T) {
	questions := []models.Question{
		{Type: models.QuizTypeSubjective, CorrectAnswer: "a"},
		{Type: models.QuizTypeSubjective, CorrectAnswer: "b"},
	}

	score, percent, _ := scoreSubmission(questions, []string{"x", "y"})
	if score != 0 || percent != 0 {
		t.Errorf("Ungraded quiz should score 0 with 0%%, got %d (%v%%)", score, percent)
	}
}
