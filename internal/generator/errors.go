package generator

import (
	"fmt"

	"quizforge-backend/internal/models"
)

// InsufficientContentError is returned when the source text yields fewer
// usable sentences or paragraphs than the requested question count. A short
// quiz is never returned silently.
type InsufficientContentError struct {
	Required int
	Usable   int
}

func (e *InsufficientContentError) Error() string {
	return fmt.Sprintf("not enough content: requested %d questions, source yields %d", e.Required, e.Usable)
}

type UnsupportedQuizTypeError struct {
	Type models.QuizType
}

func (e *UnsupportedQuizTypeError) Error() string {
	return fmt.Sprintf("unsupported quiz type: %s", e.Type)
}

// GenerationError wraps a failure of an external model capability (text
// generation or extractive QA) or unusable model output.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed at %s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
