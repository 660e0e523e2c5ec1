package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Collections CollectionsConfig
	Processor   ProcessorConfig
	Ingestion   IngestionConfig
	CoverLetter CoverLetterConfig
	Gemini      GeminiConfig
	Redis       RedisConfig
	Storage     StorageConfig
	Log         LogConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// CollectionsConfig names the three record tables. The external workflow
// writes into the same tables, so the names must match its configuration.
type CollectionsConfig struct {
	Users      string
	JobOffers  string
	JobSources string
}

type ProcessorConfig struct {
	URL     string
	Timeout time.Duration
}

type IngestionConfig struct {
	TriggerURL      string
	Timeout         time.Duration
	SyncSchedule    string
	SyncConcurrency int
	SyncTimeout     time.Duration
}

type CoverLetterConfig struct {
	Provider string
	URL      string
	Timeout  time.Duration
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type RedisConfig struct {
	URL     string
	Channel string
}

type StorageConfig struct {
	MaxFileSize int64
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using environment and default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{
				"http://localhost:3000",
				"http://localhost:5678",
			}),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "job_matcher"),
		},
		Collections: CollectionsConfig{
			Users:      getEnv("USERS_COLLECTION_NAME", "users"),
			JobOffers:  getEnv("JOB_OFFERS_COLLECTION_NAME", "job_offers"),
			JobSources: getEnv("JOB_SOURCES_COLLECTION_NAME", "job_sources"),
		},
		Processor: ProcessorConfig{
			URL:     getEnv("N8N_WEBHOOK_URL", ""),
			Timeout: getEnvAsDuration("PROCESSOR_TIMEOUT", "30s"),
		},
		Ingestion: IngestionConfig{
			TriggerURL:      getEnv("JOB_LOAD_TRIGGER_URL", ""),
			Timeout:         getEnvAsDuration("JOB_LOAD_TIMEOUT", "30s"),
			SyncSchedule:    getEnv("SYNC_SCHEDULE", ""),
			SyncConcurrency: getEnvAsInt("SYNC_CONCURRENCY", 3),
			SyncTimeout:     getEnvAsDuration("SYNC_TIMEOUT", "10m"),
		},
		CoverLetter: CoverLetterConfig{
			Provider: strings.ToLower(getEnv("COVER_LETTER_PROVIDER", "webhook")),
			URL:      getEnv("COVER_LETTER_URL", ""),
			Timeout:  getEnvAsDuration("COVER_LETTER_TIMEOUT", "60s"),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		},
		Redis: RedisConfig{
			URL:     getEnv("REDIS_URL", ""),
			Channel: getEnv("REDIS_CHANNEL", "job-matcher.events"),
		},
		Storage: StorageConfig{
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Log: LogConfig{
			JSON:  getEnvAsBool("LOG_JSON", false),
			Debug: getEnvAsBool("LOG_DEBUG", false),
		},
	}
}

// GetDatabaseDSN prefers DATABASE_URL and falls back to the discrete DB_* settings.
func (c *Config) GetDatabaseDSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}

	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil && duration > 0 {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	var values []string
	for _, part := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
