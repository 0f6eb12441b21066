package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Ai       AIConfig
	Router   RouterConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	AiLogFilePath      string
	CorsAllowedOrigins string
	NatsURL            string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	GroqBaseURL      string
	GroqAPIKey       string
	LLMModel         string
	EmbeddingAPIKey  string
	EmbeddingBaseURL string
	EmbeddingModel   string
}

// RouterConfig holds the confidence thresholds for LLM-gated routing.
// Below Threshold the router decision is discarded; below HardBlock
// the decision is discarded even when every other field validates.
type RouterConfig struct {
	Threshold float64
	HardBlock float64
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			AiLogFilePath:      getEnv("AI_LOG_FILE_PATH", "ai_decisions.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			GroqBaseURL:      getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
			GroqAPIKey:       getEnv("GROQ_API_KEY", ""),
			LLMModel:         getEnv("LLM_MODEL", "llama-3.1-8b-instant"),
			EmbeddingAPIKey:  getEnv("EMBEDDING_API_KEY", ""),
			EmbeddingBaseURL: getEnv("EMBEDDING_BASE_URL", "https://api.jina.ai/v1/embeddings"),
			EmbeddingModel:   getEnv("EMBEDDING_MODEL", "jina-embeddings-v2-base-en"),
		},
		Router: RouterConfig{
			Threshold: getEnvAsFloat("ROUTER_THRESHOLD", 0.55),
			HardBlock: getEnvAsFloat("ROUTER_HARD_BLOCK_THRESHOLD", 0.35),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
