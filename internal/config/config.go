package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Redis
	RedisURL string

	// Database (optional, archive persistence)
	DatabaseURL string

	// JWT
	JWTSecret string

	// Gemini AI (optional, objective/subjective generation)
	GeminiAPIKey         string
	GeminiConcurrentReqs int

	// Storage
	StoragePath string
	MaxUploadMB int

	// Quiz lifecycle
	QuizExpiryHours        int
	CleanupIntervalMinutes int
	WorkerCount            int

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:                   getEnvOrDefault("PORT", "8080"),
		Env:                    getEnvOrDefault("ENV", "development"),
		RedisURL:               mustGetEnv("REDIS_URL"),
		DatabaseURL:            getEnvOrDefault("DATABASE_URL", ""),
		JWTSecret:              mustGetEnv("JWT_SECRET"),
		GeminiAPIKey:           getEnvOrDefault("GEMINI_API_KEY", ""),
		GeminiConcurrentReqs:   getEnvAsIntOrDefault("GEMINI_CONCURRENT_REQUESTS", 5),
		StoragePath:            getEnvOrDefault("STORAGE_PATH", "./uploads"),
		MaxUploadMB:            getEnvAsIntOrDefault("MAX_UPLOAD_MB", 20),
		QuizExpiryHours:        getEnvAsIntOrDefault("QUIZ_EXPIRY_HOURS", 24),
		CleanupIntervalMinutes: getEnvAsIntOrDefault("CLEANUP_INTERVAL_MINUTES", 60),
		WorkerCount:            getEnvAsIntOrDefault("WORKER_COUNT", 3),
		FrontendURL:            getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
