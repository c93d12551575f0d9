package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string
	DatabasePath   string
	DatabaseURL    string
	MigrationsPath string
	AudioDir       string

	// Generative AI collaborator (feedback, suggestions, speech)
	GeminiAPIKey    string
	GeminiTextModel string
	GeminiTTSModel  string

	// Backup delivery via SES
	AWSRegion    string
	SESFromEmail string
	SESFromName  string

	// How long an idle quiz session survives before the sweep reaps it
	SessionMaxIdle time.Duration

	Debug bool
}

// Load reads configuration from environment variables with sensible
// defaults. A .env file in the working directory is applied first when
// present.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	return &Config{
		ServerPort:      getEnv("PORT", "8080"),
		DatabaseType:    getEnv("DATABASE_TYPE", "sqlite"),
		DatabasePath:    getEnv("DB_PATH", "./mathadventure.db"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./migrations"),
		AudioDir:        getEnv("AUDIO_DIR", "./static/audio"),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiTextModel: getEnv("GEMINI_TEXT_MODEL", "gemini-3-flash-preview"),
		GeminiTTSModel:  getEnv("GEMINI_TTS_MODEL", "gemini-2.5-flash-preview-tts"),
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail:    getEnv("SES_FROM_EMAIL", ""),
		SESFromName:     getEnv("SES_FROM_NAME", "Math Adventure"),
		SessionMaxIdle:  getMinutesEnv("SESSION_MAX_IDLE_MINUTES", 30),
		Debug:           getEnv("DEBUG", "") != "",
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getMinutesEnv reads an integer environment variable as a minute count
func getMinutesEnv(key string, defaultMinutes int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * time.Minute
		}
		log.Printf("Ignoring invalid %s value %q", key, value)
	}
	return time.Duration(defaultMinutes) * time.Minute
}
