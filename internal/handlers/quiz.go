package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"quizforge-backend/internal/generator"
	"quizforge-backend/internal/middleware"
	"quizforge-backend/internal/models"
	"quizforge-backend/internal/nlp"
	"quizforge-backend/internal/quizstore"
	"quizforge-backend/internal/services"
	"quizforge-backend/internal/worker"
)

const defaultNumQuestions = 5

// ArchiveReader loads quizzes that were archived to durable storage. Misses
// surface as pgx.ErrNoRows.
type ArchiveReader interface {
	GetArchivedQuiz(ctx context.Context, code string) (*models.Quiz, error)
}

type QuizHandler struct {
	quizService *services.QuizService
	store       *quizstore.Store
	auth        *middleware.OwnerAuth
	redis       *redis.Client
	archive     ArchiveReader
	storagePath string
	maxUpload   int64
	tokenTTL    time.Duration
}

func NewQuizHandler(
	quizService *services.QuizService,
	store *quizstore.Store,
	auth *middleware.OwnerAuth,
	redisClient *redis.Client,
	archive ArchiveReader,
	storagePath string,
	maxUploadBytes int64,
	tokenTTL time.Duration,
) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
		store:       store,
		auth:        auth,
		redis:       redisClient,
		archive:     archive,
		storagePath: storagePath,
		maxUpload:   maxUploadBytes,
		tokenTTL:    tokenTTL,
	}
}

// Generate accepts a multipart document upload and produces a quiz. The
// rule-based types answer synchronously with a quiz code; the generative
// types enqueue a background job and answer with a job id to poll.
func (h *QuizHandler) Generate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid or oversized multipart body", r))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Missing file upload", r))
		return
	}
	defer file.Close()

	numQuestions := defaultNumQuestions
	if raw := r.FormValue("num_questions"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 50 {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "num_questions must be an integer between 1 and 50", r))
			return
		}
		numQuestions = n
	}

	quizType := models.QuizType(r.FormValue("quiz_type"))
	if quizType == "" {
		quizType = models.QuizTypeMCQ
	}
	isGenerative := quizType == models.QuizTypeObjective || quizType == models.QuizTypeSubjective
	if isGenerative && !h.quizService.SupportsGenerative() {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR",
			"Generative quiz types are not enabled; no model is configured", r))
		return
	}

	createdBy := strings.TrimSpace(r.FormValue("created_by"))
	if createdBy == "" {
		createdBy = "teacher"
	}

	path, err := h.saveUpload(file, header.Filename)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to store upload", r))
		return
	}

	ownerToken, err := h.auth.GenerateOwnerToken(createdBy, h.tokenTTL)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to issue owner token", r))
		return
	}

	// Generative types run for seconds of model time; hand them to the
	// worker pool instead of blocking the request.
	if isGenerative {
		h.enqueueGeneration(w, r, path, numQuestions, quizType, createdBy, ownerToken)
		return
	}

	quiz, err := h.quizService.GenerateFromFile(r.Context(), path, numQuestions, quizType, createdBy)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"code":          quiz.Code,
		"quiz_type":     quiz.Type,
		"num_questions": len(quiz.Questions),
		"expires_at":    quiz.ExpiresAt,
		"owner_token":   ownerToken,
	})
}

func (h *QuizHandler) enqueueGeneration(w http.ResponseWriter, r *http.Request, path string, numQuestions int, quizType models.QuizType, createdBy, ownerToken string) {
	text, err := h.quizService.ExtractText(path)
	os.Remove(path)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	job := models.GenerationJob{
		ID:           uuid.New(),
		QuizType:     quizType,
		NumQuestions: numQuestions,
		CreatedBy:    createdBy,
		Text:         text,
		CreatedAt:    time.Now(),
	}

	jobBytes, _ := json.Marshal(job)
	ctx := r.Context()

	if err := h.redis.HSet(ctx, worker.JobKey(job.ID), "status", models.JobStatusQueued).Err(); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create job", r))
		return
	}
	h.redis.Expire(ctx, worker.JobKey(job.ID), 24*time.Hour)
	h.redis.LPush(ctx, worker.QueueQuizGeneration, string(jobBytes))

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"job_id":      job.ID,
		"owner_token": ownerToken,
	})
}

func (h *QuizHandler) saveUpload(file io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(h.storagePath, 0o755); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	dst, err := os.CreateTemp(h.storagePath, "upload-*"+ext)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return dst.Name(), nil
}

// questionView is the student-facing projection of a question: no correct
// index, no accepted answer, no source context.
type questionView struct {
	Text    string          `json:"question"`
	Type    models.QuizType `json:"type"`
	Options []string        `json:"options,omitempty"`
}

// Get returns the student view of an active quiz.
func (h *QuizHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	quiz, ok := h.store.GetQuiz(code)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Quiz not found", r))
		return
	}

	questions := make([]questionView, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		view := questionView{Text: q.Text, Type: q.Type, Options: q.Options}
		if q.Type == models.QuizTypeFillBlank {
			view.Options = nil // the single option is the answer
		}
		questions = append(questions, view)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"code":       quiz.Code,
		"quiz_type":  quiz.Type,
		"expires_at": quiz.ExpiresAt,
		"questions":  questions,
	})
}

// Submit scores a student's answers and returns per-question feedback.
func (h *QuizHandler) Submit(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var req models.SubmitQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if strings.TrimSpace(req.StudentName) == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"student_name": "Student name is required"}, r))
		return
	}

	submission, err := h.store.SubmitQuiz(r.Context(), code, req.StudentName, req.Answers)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, submission)
}

// Stats returns exact aggregate statistics to the quiz owner.
func (h *QuizHandler) Stats(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	quiz, ok := h.store.GetQuiz(code)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Quiz not found", r))
		return
	}
	if quiz.CreatedBy != middleware.GetOwner(r.Context()) {
		writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", "Access denied", r))
		return
	}

	stats, ok := h.store.GetQuizStats(code)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Quiz not found", r))
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Archived returns the read-only archived view of an expired quiz to its
// owner. Expired quizzes reject submissions but stay queryable here; quizzes
// archived before a restart are served from durable storage when configured.
func (h *QuizHandler) Archived(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	quiz, ok := h.store.GetExpiredQuiz(code)
	if !ok && h.archive != nil {
		stored, err := h.archive.GetArchivedQuiz(r.Context(), strings.ToUpper(strings.TrimSpace(code)))
		switch {
		case err == nil:
			quiz, ok = stored, true
		case !errors.Is(err, pgx.ErrNoRows):
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to read quiz archive", r))
			return
		}
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Quiz not found", r))
		return
	}
	if quiz.CreatedBy != middleware.GetOwner(r.Context()) {
		writeJSON(w, http.StatusForbidden, errorResp("FORBIDDEN", "Access denied", r))
		return
	}

	writeJSON(w, http.StatusOK, quiz)
}

// SupportedFormats lists accepted upload extensions. Public.
func (h *QuizHandler) SupportedFormats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"formats": []string{"pdf", "docx", "pptx", "txt"},
		"quiz_types": []models.QuizType{
			models.QuizTypeMCQ,
			models.QuizTypeTrueFalse,
			models.QuizTypeFillBlank,
			models.QuizTypeObjective,
			models.QuizTypeSubjective,
		},
	})
}

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func errorRespWithFields(code, message string, fields map[string]string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			Fields:    fields,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		emptyContent    *nlp.EmptyContentError
		insufficient    *generator.InsufficientContentError
		unsupportedType *generator.UnsupportedQuizTypeError
		generation      *generator.GenerationError
		unsupportedFmt  *services.UnsupportedFormatError
		noText          *services.NoTextFoundError
		notFound        *quizstore.QuizNotFoundError
		countMismatch   *quizstore.AnswerCountMismatchError
	)

	switch {
	case errors.As(err, &emptyContent), errors.As(err, &noText):
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("NO_TEXT_FOUND", err.Error(), r))
	case errors.As(err, &insufficient):
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("INSUFFICIENT_CONTENT", err.Error(), r))
	case errors.As(err, &unsupportedType), errors.As(err, &unsupportedFmt):
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", err.Error(), r))
	case errors.As(err, &generation):
		writeJSON(w, http.StatusBadGateway, errorResp("GENERATION_FAILED", err.Error(), r))
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Quiz not found", r))
	case errors.As(err, &countMismatch):
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", err.Error(), r))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
	}
}
