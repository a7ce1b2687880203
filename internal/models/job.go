package models

import (
	"time"

	"github.com/google/uuid"
)

// GenerationJob is the payload queued to the worker pool for the generative
// quiz types, which can take several seconds of model time. The extracted
// document text travels inside the payload so workers need no shared storage.
type GenerationJob struct {
	ID           uuid.UUID `json:"id"`
	QuizType     QuizType  `json:"quiz_type"`
	NumQuestions int       `json:"num_questions"`
	CreatedBy    string    `json:"created_by"`
	Text         string    `json:"text"`
	CreatedAt    time.Time `json:"created_at"`
}

const (
	JobStatusQueued     = "queued"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

type JobStatus struct {
	ID       uuid.UUID `json:"id"`
	Status   string    `json:"status"`
	QuizCode string    `json:"quiz_code,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// API error response

type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
