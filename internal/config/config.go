package config

import (
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	// Optional env vars fall back to a default; empty disables the integration.
	getEnvOr := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		return fallback
	}

	redisDB := 0
	if v := getEnvOr("REDIS_DB", ""); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			log.Warn("Invalid REDIS_DB value, defaulting to 0", "value", v)
		} else {
			redisDB = parsed
		}
	}

	cfg := Config{
		DBName:        getEnv("DB_NAME"),
		MigrationsDir: "./migrations",
		Port:          getEnv("PORT"),
		Turso: TursoConfig{
			PrimaryURL: getEnvOr("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnvOr("TURSO_AUTH_TOKEN", ""),
		},
		Slack: SlackConfig{
			Token:         getEnvOr("SLACK_BOT_TOKEN", ""),
			ChannelID:     getEnvOr("SLACK_CHANNEL_ID", ""),
			SigningSecret: getEnvOr("SLACK_SIGNING_SECRET", ""),
		},
		AzureOpenAI: AzureOpenAIConfig{
			Endpoint:       getEnvOr("AZURE_OPENAI_ENDPOINT", ""),
			APIKey:         getEnvOr("AZURE_OPENAI_API_KEY", ""),
			DeploymentName: getEnvOr("AZURE_OPENAI_DEPLOYMENT", "gpt-35-turbo"),
			APIVersion:     getEnvOr("AZURE_OPENAI_API_VERSION", "2023-05-15"),
			Commentator:    getEnvOr("MATCH_COMMENTATOR", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnvOr("REDIS_ADDR", ""),
			Password: getEnvOr("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		ProjectID: getEnvOr("GCP_PROJECT", ""),
	}
	return cfg
}
