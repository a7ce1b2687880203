package worker

import "github.com/google/uuid"

const (
	// QueueQuizGeneration carries GenerationJob payloads for the generative
	// quiz types.
	QueueQuizGeneration = "queue:quiz-generation"
)

// JobKey is the redis hash holding a job's status, result code and error.
func JobKey(id uuid.UUID) string {
	return "job:" + id.String()
}

func jobLockKey(id uuid.UUID) string {
	return "job_lock:" + id.String()
}
