package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"quizforge-backend/internal/models"
	"quizforge-backend/internal/worker"
)

type JobHandler struct {
	redis *redis.Client
}

func NewJobHandler(redisClient *redis.Client) *JobHandler {
	return &JobHandler{redis: redisClient}
}

// Get reports the status of a queued generation job; once completed it
// carries the quiz code.
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid job ID", r))
		return
	}

	fields, err := h.redis.HGetAll(r.Context(), worker.JobKey(id)).Result()
	if err != nil || len(fields) == 0 {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Job not found", r))
		return
	}

	writeJSON(w, http.StatusOK, models.JobStatus{
		ID:       id,
		Status:   fields["status"],
		QuizCode: fields["quiz_code"],
		Error:    fields["error"],
	})
}
