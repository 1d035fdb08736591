package config

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	Turso         TursoConfig
	Slack         SlackConfig
	AzureOpenAI   AzureOpenAIConfig
	Redis         RedisConfig
	ProjectID     string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}

// AzureOpenAIConfig configures the optional match summary generator.
// Summary generation is skipped entirely when Endpoint or APIKey is empty.
type AzureOpenAIConfig struct {
	Endpoint       string
	APIKey         string
	DeploymentName string
	APIVersion     string
	Commentator    string
}

// RedisConfig configures the optional leaderboard rating cache.
// The cache is disabled when Addr is empty.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}
