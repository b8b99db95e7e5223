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

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Gemini AI (primary generative provider)
	GeminiAPIKey string
	GeminiModel  string

	// OpenRouter (secondary generative provider)
	OpenRouterAPIKey string
	OpenRouterURL    string
	OpenRouterModel  string

	// YouTube Data API
	YouTubeBaseURL string
	YouTubeRegion  string
	SearchMaxItems int

	// Pipeline tuning
	FreshnessHours     int
	ProviderTimeoutSec int
	MetadataTimeoutSec int

	// Credits
	AnalysisCreditCost int
	TitleCreditCost    int

	// Ideas of the day
	IdeasCronSpec string
	IdeasMax      int

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		Env:         getEnvOrDefault("ENV", "development"),
		DatabaseURL: mustGetEnv("DATABASE_URL"),
		RedisURL:    mustGetEnv("REDIS_URL"),

		GeminiAPIKey: mustGetEnv("GEMINI_API_KEY"),
		GeminiModel:  getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),

		OpenRouterAPIKey: getEnvOrDefault("OPENROUTER_API_KEY", ""),
		OpenRouterURL:    getEnvOrDefault("OPENROUTER_URL", "https://openrouter.ai/api/v1"),
		OpenRouterModel:  getEnvOrDefault("OPENROUTER_MODEL", "deepseek/deepseek-chat-v3-0324:free"),

		YouTubeBaseURL: getEnvOrDefault("YOUTUBE_API_URL", "https://www.googleapis.com/youtube/v3"),
		YouTubeRegion:  getEnvOrDefault("YOUTUBE_REGION", "PK"),
		SearchMaxItems: getEnvAsIntOrDefault("YOUTUBE_SEARCH_MAX", 50),

		FreshnessHours:     getEnvAsIntOrDefault("ANALYSIS_FRESHNESS_HOURS", 6),
		ProviderTimeoutSec: getEnvAsIntOrDefault("PROVIDER_TIMEOUT_SECONDS", 30),
		MetadataTimeoutSec: getEnvAsIntOrDefault("METADATA_TIMEOUT_SECONDS", 20),

		AnalysisCreditCost: getEnvAsIntOrDefault("ANALYSIS_CREDIT_COST", 1),
		TitleCreditCost:    getEnvAsIntOrDefault("TITLE_CREDIT_COST", 1),

		IdeasCronSpec: getEnvOrDefault("IDEAS_CRON_SPEC", "0 6 * * *"),
		IdeasMax:      getEnvAsIntOrDefault("IDEAS_MAX", 12),

		FrontendURL: getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
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
