package quizstore

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"quizforge-backend/internal/models"
)

// QuizNotFoundError covers both unknown and expired codes; callers cannot
// distinguish the two, by contract.
type QuizNotFoundError struct{ Code string }

func (e *QuizNotFoundError) Error() string {
	return fmt.Sprintf("quiz %s not found or expired", e.Code)
}

type AnswerCountMismatchError struct {
	Expected int
	Got      int
}

func (e *AnswerCountMismatchError) Error() string {
	return fmt.Sprintf("expected %d answers, got %d", e.Expected, e.Got)
}

// ArchiveSink receives quizzes demoted by the cleanup sweep, for durable
// audit retention. Sink failures never affect in-memory state.
type ArchiveSink interface {
	ArchiveQuiz(ctx context.Context, quiz *models.Quiz) error
}

type Config struct {
	Expiry          time.Duration // defaults to 24h
	CleanupInterval time.Duration // defaults to 1h
	Now             func() time.Time
	Rand            *rand.Rand
	Archive         ArchiveSink // optional
}

// Store owns the lifecycle of generated quizzes: code assignment, expiry,
// submission scoring and statistics. All state is in-process; a single
// mutex serializes mutation, which is fine at expected load since nothing
// slow ever runs under the lock.
type Store struct {
	mu          sync.Mutex
	active      map[string]*models.Quiz
	archived    map[string]*models.Quiz
	expiry      time.Duration
	interval    time.Duration
	lastCleanup time.Time
	now         func() time.Time
	rng         *rand.Rand
	sink        ArchiveSink
}

func New(cfg Config) *Store {
	if cfg.Expiry == 0 {
		cfg.Expiry = 24 * time.Hour
	}
	if cfg.CleanupInterval == 0 {
		cfg.CleanupInterval = time.Hour
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Store{
		active:      make(map[string]*models.Quiz),
		archived:    make(map[string]*models.Quiz),
		expiry:      cfg.Expiry,
		interval:    cfg.CleanupInterval,
		lastCleanup: cfg.Now(),
		now:         cfg.Now,
		rng:         cfg.Rand,
		sink:        cfg.Archive,
	}
}

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 8
)

// CreateQuiz registers a generated question set under a fresh unique code
// and stamps its expiry. It also triggers the lazy cleanup sweep, at most
// once per configured interval.
func (s *Store) CreateQuiz(ctx context.Context, questions []models.Question, quizType models.QuizType, createdBy string) (*models.Quiz, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("cannot create a quiz with no questions")
	}

	s.mu.Lock()
	s.maybeSweepLocked(ctx)

	code := s.newCodeLocked()
	now := s.now()
	quiz := &models.Quiz{
		Code:      code,
		Type:      quizType,
		Questions: questions,
		CreatedBy: createdBy,
		CreatedAt: now,
		ExpiresAt: now.Add(s.expiry),
	}
	s.active[code] = quiz
	out := snapshotQuiz(quiz)
	s.mu.Unlock()

	return out, nil
}

func (s *Store) newCodeLocked() string {
	for {
		b := make([]byte, codeLength)
		for i := range b {
			b[i] = codeAlphabet[s.rng.Intn(len(codeAlphabet))]
		}
		code := string(b)
		if _, taken := s.active[code]; taken {
			continue
		}
		if _, taken := s.archived[code]; taken {
			continue
		}
		return code
	}
}

// GetQuiz returns a snapshot of an active quiz. Expired or unknown codes
// behave identically as not-found; this is a normal result, not an error.
func (s *Store) GetQuiz(code string) (*models.Quiz, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	quiz, ok := s.active[normalizeCode(code)]
	if !ok || !s.now().Before(quiz.ExpiresAt) {
		return nil, false
	}
	return snapshotQuiz(quiz), true
}

// GetExpiredQuiz looks a quiz up in the read-only archive. Quizzes past
// their expiry that the sweep has not yet demoted are visible here too.
func (s *Store) GetExpiredQuiz(code string) (*models.Quiz, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := normalizeCode(code)
	if quiz, ok := s.archived[key]; ok {
		return snapshotQuiz(quiz), true
	}
	if quiz, ok := s.active[key]; ok && !s.now().Before(quiz.ExpiresAt) {
		return snapshotQuiz(quiz), true
	}
	return nil, false
}

// SubmitQuiz scores a student's answers against an active quiz, records the
// submission and maintains the O(1) running average. Expired quizzes reject
// submissions.
func (s *Store) SubmitQuiz(ctx context.Context, code, studentName string, answers []string) (*models.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	quiz, ok := s.active[normalizeCode(code)]
	if !ok || !s.now().Before(quiz.ExpiresAt) {
		return nil, &QuizNotFoundError{Code: code}
	}

	if len(answers) != len(quiz.Questions) {
		return nil, &AnswerCountMismatchError{Expected: len(quiz.Questions), Got: len(answers)}
	}

	score, percent, feedback := scoreSubmission(quiz.Questions, answers)

	submission := models.Submission{
		ID:           uuid.New(),
		StudentName:  studentName,
		Answers:      answers,
		SubmittedAt:  s.now(),
		Score:        score,
		ScorePercent: percent,
		Feedback:     feedback,
	}

	quiz.Submissions = append(quiz.Submissions, submission)
	quiz.TotalAttempts++
	n := float64(quiz.TotalAttempts)
	quiz.AverageScore = (quiz.AverageScore*(n-1) + percent) / n

	out := submission
	return &out, nil
}

// GetQuizStats recomputes exact aggregate statistics from the stored
// submissions rather than reusing the incremental average, so reported
// numbers carry no accumulated floating-point drift.
func (s *Store) GetQuizStats(code string) (*models.QuizStats, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	quiz, ok := s.active[normalizeCode(code)]
	if !ok || !s.now().Before(quiz.ExpiresAt) {
		return nil, false
	}

	stats := &models.QuizStats{
		TotalAttempts: len(quiz.Submissions),
		Submissions:   make([]models.SubmissionSummary, 0, len(quiz.Submissions)),
	}
	if len(quiz.Submissions) == 0 {
		return stats, true
	}

	var sum float64
	for i, sub := range quiz.Submissions {
		score, percent, _ := scoreSubmission(quiz.Questions, sub.Answers)
		sum += percent
		if i == 0 || percent > stats.HighestScore {
			stats.HighestScore = round1(percent)
		}
		if i == 0 || percent < stats.LowestScore {
			stats.LowestScore = round1(percent)
		}
		stats.Submissions = append(stats.Submissions, models.SubmissionSummary{
			StudentName: sub.StudentName,
			Score:       score,
			Total:       len(quiz.Questions),
			Percentage:  round1(percent),
			SubmittedAt: sub.SubmittedAt,
		})
	}
	stats.AverageScore = round1(sum / float64(len(quiz.Submissions)))

	return stats, true
}

// CleanupExpired demotes every quiz past its expiry into the archive and
// reports how many moved. It is idempotent and safe to run concurrently
// with lookups; archive sink writes happen outside the lock and their
// failures are logged and ignored.
func (s *Store) CleanupExpired(ctx context.Context) int {
	s.mu.Lock()
	moved := s.sweepLocked()
	s.mu.Unlock()

	s.persistArchived(ctx, moved)
	return len(moved)
}

func (s *Store) maybeSweepLocked(ctx context.Context) {
	now := s.now()
	if now.Sub(s.lastCleanup) < s.interval {
		return
	}
	moved := s.sweepLocked()
	if len(moved) > 0 {
		go s.persistArchived(context.WithoutCancel(ctx), moved)
	}
}

func (s *Store) sweepLocked() []*models.Quiz {
	now := s.now()
	var moved []*models.Quiz
	for code, quiz := range s.active {
		if now.Before(quiz.ExpiresAt) {
			continue
		}
		delete(s.active, code)
		s.archived[code] = quiz
		moved = append(moved, snapshotQuiz(quiz))
	}
	s.lastCleanup = now
	return moved
}

func (s *Store) persistArchived(ctx context.Context, quizzes []*models.Quiz) {
	if s.sink == nil {
		return
	}
	for _, quiz := range quizzes {
		if err := s.sink.ArchiveQuiz(ctx, quiz); err != nil {
			log.Printf("Archive write for quiz %s failed (ignored): %v", quiz.Code, err)
		}
	}
}

// RunCleanupLoop periodically sweeps expired quizzes until ctx is done.
func (s *Store) RunCleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.CleanupExpired(ctx); n > 0 {
				log.Printf("Cleanup sweep archived %d expired quizzes", n)
			}
		}
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// snapshotQuiz copies the quiz header and its slices so callers can read
// without holding the store lock. Questions and submissions are immutable
// once created, so element-level sharing is safe.
func snapshotQuiz(q *models.Quiz) *models.Quiz {
	out := *q
	out.Questions = append([]models.Question(nil), q.Questions...)
	out.Submissions = append([]models.Submission(nil), q.Submissions...)
	return &out
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
