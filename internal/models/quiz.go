package models

import (
	"time"

	"github.com/google/uuid"
)

type QuizType string

const (
	QuizTypeMCQ        QuizType = "mcq"
	QuizTypeTrueFalse  QuizType = "true_false"
	QuizTypeFillBlank  QuizType = "fill_blank"
	QuizTypeObjective  QuizType = "objective"  // generative MCQ
	QuizTypeSubjective QuizType = "subjective" // generative, human-graded
)

// Question is immutable once generated. For mcq/objective questions
// CorrectIndex points into Options; for true_false it is 0 (true) or 1
// (false) with no options; for fill_blank Options holds the single accepted
// answer. CorrectAnswer always carries the canonical answer text used for
// feedback and for case-insensitive text scoring.
type Question struct {
	Text          string   `json:"question"`
	Type          QuizType `json:"type"`
	Options       []string `json:"options,omitempty"`
	CorrectIndex  int      `json:"correct_index"`
	CorrectAnswer string   `json:"correct_answer"`
	SourceContext string   `json:"source_context,omitempty"`
}

type Quiz struct {
	Code          string       `json:"code"`
	Type          QuizType     `json:"type"`
	Questions     []Question   `json:"questions"`
	CreatedBy     string       `json:"created_by"`
	CreatedAt     time.Time    `json:"created_at"`
	ExpiresAt     time.Time    `json:"expires_at"`
	TotalAttempts int          `json:"total_attempts"`
	AverageScore  float64      `json:"average_score"`
	Submissions   []Submission `json:"submissions,omitempty"`
}

type Submission struct {
	ID           uuid.UUID        `json:"id"`
	StudentName  string           `json:"student_name"`
	Answers      []string         `json:"answers"`
	SubmittedAt  time.Time        `json:"submitted_at"`
	Score        int              `json:"score"`
	ScorePercent float64          `json:"score_percent"`
	Feedback     []AnswerFeedback `json:"feedback"`
}

type AnswerFeedback struct {
	QuestionIndex int    `json:"question_index"`
	Correct       bool   `json:"correct"`
	StudentAnswer string `json:"student_answer"`
	CorrectAnswer string `json:"correct_answer"`
}

// QuizStats is recomputed exactly from stored submissions, independent of the
// incrementally maintained Quiz.AverageScore.
type QuizStats struct {
	TotalAttempts int                 `json:"total_attempts"`
	AverageScore  float64             `json:"average_score"`
	HighestScore  float64             `json:"highest_score"`
	LowestScore   float64             `json:"lowest_score"`
	Submissions   []SubmissionSummary `json:"submissions"`
}

type SubmissionSummary struct {
	StudentName string    `json:"student_name"`
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	Percentage  float64   `json:"percentage"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type SubmitQuizRequest struct {
	StudentName string   `json:"student_name"`
	Answers     []string `json:"answers"`
}
