package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"quizforge-backend/internal/handlers"
	"quizforge-backend/internal/middleware"
)

func New(
	ownerAuth *middleware.OwnerAuth,
	quizHandler *handlers.QuizHandler,
	jobHandler *handlers.JobHandler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Generation rate limiter (10 req/min per IP)
	generateLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Quiz Routes ────
		r.Route("/quizzes", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(generateLimiter.Middleware)
				r.Post("/generate", quizHandler.Generate)
			})

			// Student-facing, no auth
			r.Get("/{code}", quizHandler.Get)
			r.Post("/{code}/submit", quizHandler.Submit)

			// Owner-only
			r.Group(func(r chi.Router) {
				r.Use(ownerAuth.Middleware)
				r.Get("/{code}/stats", quizHandler.Stats)
				r.Get("/{code}/archive", quizHandler.Archived)
			})
		})

		// ──── Content Routes ────
		r.Route("/content", func(r chi.Router) {
			r.Get("/supported-formats", quizHandler.SupportedFormats)
		})

		// ──── Job Routes ────
		r.Route("/jobs", func(r chi.Router) {
			r.Get("/{id}", jobHandler.Get)
		})
	})

	return r
}
