package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quizforge-backend/internal/config"
	"quizforge-backend/internal/database"
	"quizforge-backend/internal/generator"
	"quizforge-backend/internal/handlers"
	"quizforge-backend/internal/middleware"
	"quizforge-backend/internal/nlp"
	"quizforge-backend/internal/quizstore"
	"quizforge-backend/internal/repository"
	"quizforge-backend/internal/router"
	"quizforge-backend/internal/services"
	"quizforge-backend/internal/worker"
)

func main() {
	log.Println("🚀 Starting QuizForge Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize Redis ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	log.Println("✓ Redis connected")

	// ──── Step 3: Initialize Archive Persistence (optional) ────
	var archiveSink quizstore.ArchiveSink
	var archiveReader handlers.ArchiveReader
	if cfg.DatabaseURL != "" {
		pool, err := database.NewPostgresPool(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("✗ PostgreSQL connection failed: %v", err)
		}
		defer pool.Close()
		log.Println("✓ PostgreSQL connected")

		if err := database.RunMigrations(pool, "migrations"); err != nil {
			log.Fatalf("✗ Database migration failed: %v", err)
		}
		log.Println("✓ Database migrations applied")

		archiveRepo := repository.NewArchiveRepo(pool)
		archiveSink = archiveRepo
		archiveReader = archiveRepo
	} else {
		log.Println("  DATABASE_URL not set, expired quizzes kept in memory only")
	}

	// ──── Step 4: Initialize Quiz Store ────
	store := quizstore.New(quizstore.Config{
		Expiry:          time.Duration(cfg.QuizExpiryHours) * time.Hour,
		CleanupInterval: time.Duration(cfg.CleanupIntervalMinutes) * time.Minute,
		Archive:         archiveSink,
	})

	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	defer cancelCleanup()
	go store.RunCleanupLoop(cleanupCtx)
	log.Printf("✓ Quiz store ready (expiry %dh, cleanup every %dm)", cfg.QuizExpiryHours, cfg.CleanupIntervalMinutes)

	// ──── Step 5: Initialize Gemini Client (optional) ────
	var textGen generator.TextGenerator
	var qa generator.QuestionAnswerer
	if cfg.GeminiAPIKey != "" {
		geminiService, err := services.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiConcurrentReqs)
		if err != nil {
			log.Fatalf("✗ Gemini client initialization failed: %v", err)
		}
		defer geminiService.Close()
		textGen = geminiService
		qa = geminiService
		log.Println("✓ Gemini Flash client initialized")
	} else {
		log.Println("  GEMINI_API_KEY not set, objective/subjective quiz types disabled")
	}

	// ──── Step 6: Initialize Services ────
	tagger := nlp.NewProseTagger()
	gen := generator.New(tagger, textGen, qa)
	fileExtractService := services.NewFileExtractService()
	quizService := services.NewQuizService(fileExtractService, gen, store)
	ownerAuth := middleware.NewOwnerAuth(cfg.JWTSecret)

	// ──── Step 7: Start Job Worker Pool ────
	workerPool := worker.NewPool(redisClient, quizService, cfg.WorkerCount)
	workerPool.Start()
	log.Printf("✓ Worker pool started (%d goroutines)", cfg.WorkerCount)

	// ──── Step 8: Start HTTP Server ────
	quizHandler := handlers.NewQuizHandler(
		quizService,
		store,
		ownerAuth,
		redisClient,
		archiveReader,
		cfg.StoragePath,
		int64(cfg.MaxUploadMB)<<20,
		time.Duration(cfg.QuizExpiryHours)*time.Hour,
	)
	jobHandler := handlers.NewJobHandler(redisClient)

	r := router.New(ownerAuth, quizHandler, jobHandler, cfg.FrontendURL)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		workerPool.Stop()
		cancelCleanup()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ QuizForge Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
