package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"quizforge-backend/internal/models"
)

// ArchiveRepo persists expired quizzes to Postgres so attempt history
// survives process restarts. It implements quizstore.ArchiveSink.
type ArchiveRepo struct {
	db *pgxpool.Pool
}

func NewArchiveRepo(db *pgxpool.Pool) *ArchiveRepo {
	return &ArchiveRepo{db: db}
}

func (r *ArchiveRepo) ArchiveQuiz(ctx context.Context, quiz *models.Quiz) error {
	questions, err := json.Marshal(quiz.Questions)
	if err != nil {
		return fmt.Errorf("failed to marshal questions: %w", err)
	}

	submissions, err := json.Marshal(quiz.Submissions)
	if err != nil {
		return fmt.Errorf("failed to marshal submissions: %w", err)
	}

	query := `
		INSERT INTO archived_quizzes (code, quiz_type, created_by, created_at, expires_at,
			total_attempts, average_score, questions, submissions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (code) DO UPDATE SET
			total_attempts = EXCLUDED.total_attempts,
			average_score = EXCLUDED.average_score,
			submissions = EXCLUDED.submissions
	`

	_, err = r.db.Exec(ctx, query,
		quiz.Code, string(quiz.Type), quiz.CreatedBy, quiz.CreatedAt, quiz.ExpiresAt,
		quiz.TotalAttempts, quiz.AverageScore, questions, submissions)
	if err != nil {
		return fmt.Errorf("failed to archive quiz %s: %w", quiz.Code, err)
	}

	return nil
}

// GetArchivedQuiz loads a previously archived quiz by code.
func (r *ArchiveRepo) GetArchivedQuiz(ctx context.Context, code string) (*models.Quiz, error) {
	query := `
		SELECT code, quiz_type, created_by, created_at, expires_at,
			total_attempts, average_score, questions, submissions
		FROM archived_quizzes
		WHERE code = $1
	`

	var quiz models.Quiz
	var quizType string
	var questions, submissions []byte

	err := r.db.QueryRow(ctx, query, code).Scan(
		&quiz.Code, &quizType, &quiz.CreatedBy, &quiz.CreatedAt, &quiz.ExpiresAt,
		&quiz.TotalAttempts, &quiz.AverageScore, &questions, &submissions)
	if err != nil {
		return nil, fmt.Errorf("failed to get archived quiz %s: %w", code, err)
	}

	quiz.Type = models.QuizType(quizType)
	if err := json.Unmarshal(questions, &quiz.Questions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal questions: %w", err)
	}
	if err := json.Unmarshal(submissions, &quiz.Submissions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal submissions: %w", err)
	}

	return &quiz, nil
}
