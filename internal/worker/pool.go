package worker

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"quizforge-backend/internal/models"
	"quizforge-backend/internal/services"
)

// Pool consumes generation jobs from redis and runs the generative quiz
// pipeline for them. One quiz can cost many seconds of model inference, so
// jobs never run inside a request.
type Pool struct {
	redis       *redis.Client
	quizService *services.QuizService
	workerCount int
	stopChan    chan struct{}
}

func NewPool(redisClient *redis.Client, quizService *services.QuizService, workerCount int) *Pool {
	return &Pool{
		redis:       redisClient,
		quizService: quizService,
		workerCount: workerCount,
		stopChan:    make(chan struct{}),
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workerCount; i++ {
		go p.worker(i)
	}
	log.Printf("Started %d worker goroutines", p.workerCount)
}

func (p *Pool) Stop() {
	close(p.stopChan)
}

func (p *Pool) worker(id int) {
	for {
		select {
		case <-p.stopChan:
			log.Printf("Worker %d shutting down", id)
			return
		default:
		}

		ctx := context.Background()

		// BLPOP with 30s timeout
		result, err := p.redis.BLPop(ctx, 30*time.Second, QueueQuizGeneration).Result()
		if err != nil {
			continue // Timeout or error, retry
		}
		if len(result) < 2 {
			continue
		}

		var job models.GenerationJob
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			log.Printf("Worker %d: failed to parse job: %v", id, err)
			continue
		}

		// Another worker may already hold this job.
		locked, err := p.redis.SetNX(ctx, jobLockKey(job.ID), "1", 10*time.Minute).Result()
		if err != nil || !locked {
			continue
		}

		log.Printf("Worker %d: processing job %s (type: %s)", id, job.ID, job.QuizType)
		p.setStatus(ctx, job.ID, models.JobStatusProcessing, "", "")

		quiz, genErr := p.quizService.GenerateFromText(ctx, job.Text, job.NumQuestions, job.QuizType, job.CreatedBy)
		if genErr != nil {
			log.Printf("Worker %d: job %s failed: %v", id, job.ID, genErr)
			p.setStatus(ctx, job.ID, models.JobStatusFailed, "", genErr.Error())
		} else {
			p.setStatus(ctx, job.ID, models.JobStatusCompleted, quiz.Code, "")
		}

		p.redis.Del(ctx, jobLockKey(job.ID))
	}
}

func (p *Pool) setStatus(ctx context.Context, id uuid.UUID, status, quizCode, errMsg string) {
	fields := map[string]interface{}{"status": status}
	if quizCode != "" {
		fields["quiz_code"] = quizCode
	}
	if errMsg != "" {
		fields["error"] = errMsg
	}
	if err := p.redis.HSet(ctx, JobKey(id), fields).Err(); err != nil {
		log.Printf("Failed to update status for job %s: %v", id, err)
		return
	}
	p.redis.Expire(ctx, JobKey(id), 24*time.Hour)
}
