package services

import (
	"context"
	"log"
	"os"

	"quizforge-backend/internal/generator"
	"quizforge-backend/internal/models"
	"quizforge-backend/internal/quizstore"
)

// QuizService ties the pipeline together: extract text from an upload, run
// the question generator, then hand the finished questions to the store.
// Generation (including model inference) finishes before the store is ever
// touched, so nothing slow runs under the store lock.
type QuizService struct {
	extract *FileExtractService
	gen     *generator.Generator
	store   *quizstore.Store
}

func NewQuizService(extract *FileExtractService, gen *generator.Generator, store *quizstore.Store) *QuizService {
	return &QuizService{extract: extract, gen: gen, store: store}
}

// GenerateFromFile extracts the document at path and creates a quiz from it.
// The scratch file is deleted afterwards; a failed deletion is logged and
// ignored since it cannot affect quiz data.
func (s *QuizService) GenerateFromFile(ctx context.Context, path string, numQuestions int, quizType models.QuizType, createdBy string) (*models.Quiz, error) {
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("Failed to remove scratch file %s (ignored): %v", path, err)
		}
	}()

	text, err := s.extract.ExtractTextFromPath(path)
	if err != nil {
		return nil, err
	}
	return s.GenerateFromText(ctx, text, numQuestions, quizType, createdBy)
}

// GenerateFromText runs the generator over already-extracted text and stores
// the result under a fresh code.
func (s *QuizService) GenerateFromText(ctx context.Context, text string, numQuestions int, quizType models.QuizType, createdBy string) (*models.Quiz, error) {
	questions, err := s.gen.GenerateQuiz(ctx, text, numQuestions, quizType)
	if err != nil {
		return nil, err
	}
	return s.store.CreateQuiz(ctx, questions, quizType, createdBy)
}

// ExtractText exposes extraction alone, for callers that defer generation to
// the worker pool.
func (s *QuizService) ExtractText(path string) (string, error) {
	return s.extract.ExtractTextFromPath(path)
}

// SupportsGenerative reports whether the objective and subjective quiz types
// can run, which requires a configured model.
func (s *QuizService) SupportsGenerative() bool {
	return s.gen.HasModel()
}
