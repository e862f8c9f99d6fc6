package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	PlanStore   string // "postgres" or "mongo"
	PostgresURL string
	MongoURL    string
	MongoDB     string

	RedisURL      string
	PlanCacheSize int
	PlanCacheTTL  time.Duration
	RedisCacheTTL time.Duration

	GenerationProvider string // "content_api", "gemini" or "openai"
	GenerationTimeout  time.Duration
	ContentAPIURL      string
	GeminiAPIKey       string
	GeminiModel        string
	OpenAIAPIKey       string
	OpenAIModel        string
	EmbeddingModel     string

	OpenTripMapAPIKey string
	JWTSecret         string

	LogLevel  string
	LogFormat string
}

// Load reads .env when present, then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	return Config{
		Port: getEnvWithDefault("PORT", "8080"),

		PlanStore:   getEnvWithDefault("PLAN_STORE", "postgres"),
		PostgresURL: os.Getenv("POSTGRES_URL"),
		MongoURL:    getEnvWithDefault("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:     getEnvWithDefault("MONGO_DB", "wanderplan"),

		RedisURL:      os.Getenv("REDIS_URL"),
		PlanCacheSize: getIntWithDefault("PLAN_CACHE_SIZE", 512),
		PlanCacheTTL:  getDurationWithDefault("PLAN_CACHE_TTL", 0),
		RedisCacheTTL: getDurationWithDefault("REDIS_CACHE_TTL", 24*time.Hour),

		GenerationProvider: getEnvWithDefault("GENERATION_PROVIDER", "content_api"),
		GenerationTimeout:  getDurationWithDefault("GENERATION_TIMEOUT", 60*time.Second),
		ContentAPIURL:      getEnvWithDefault("CONTENT_API_URL", "http://localhost:3000/api/content"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        getEnvWithDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:        getEnvWithDefault("OPENAI_MODEL", "gpt-4o-mini"),
		EmbeddingModel:     getEnvWithDefault("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),

		OpenTripMapAPIKey: os.Getenv("OPENTRIPMAP_API_KEY"),
		JWTSecret:         os.Getenv("JWT_SECRET"),

		LogLevel:  getEnvWithDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvWithDefault("LOG_FORMAT", "json"),
	}
}

// Validate reports settings the service cannot start without.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	return nil
}

// getEnvWithDefault returns environment variable or default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntWithDefault(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}
