package config

import (
	"os"

	"github.com/taskrelay/taskrelay/internal/domain"
)

type Config struct {
	Port     string
	Region   string
	LogLevel string

	// Bedrock agent connection settings, env names kept from the deployment.
	AccessKeyID     string
	SecretAccessKey string
	AgentID         string
	AgentAliasID    string

	// Shared secret the chat gate compares user input against.
	AppSecretKey string

	UseMockAgent bool // true = serve a scripted agent, useful for dev
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v == "1" || v == "true" || v == "TRUE"
}

// Load reads all env vars and validates eagerly: absence of the access
// credentials (or the other required settings) is fatal before any serving
// starts. With the mock agent enabled only the shared secret is required.
func Load() (*Config, error) {
	cfg := &Config{
		Port:     getEnv("TASKRELAY_PORT", "8080"),
		Region:   getEnv("AWS_REGION", "us-east-1"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		AccessKeyID:     getEnv("ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("SECRET_ACCESS_KEY", ""),
		AgentID:         getEnv("BEDROCK_AGENT_ID", ""),
		AgentAliasID:    getEnv("BEDROCK_AGENT_ALIAS", ""),

		AppSecretKey: getEnv("APP_SECRET_KEY", ""),

		UseMockAgent: getBoolEnv("TASKRELAY_USE_MOCK_AGENT", false),
	}

	var missing []string
	if !cfg.UseMockAgent {
		if cfg.AccessKeyID == "" {
			missing = append(missing, "ACCESS_KEY_ID")
		}
		if cfg.SecretAccessKey == "" {
			missing = append(missing, "SECRET_ACCESS_KEY")
		}
		if cfg.AgentID == "" {
			missing = append(missing, "BEDROCK_AGENT_ID")
		}
		if cfg.AgentAliasID == "" {
			missing = append(missing, "BEDROCK_AGENT_ALIAS")
		}
	}
	if cfg.AppSecretKey == "" {
		missing = append(missing, "APP_SECRET_KEY")
	}

	if len(missing) > 0 {
		return nil, &domain.ConfigurationError{Missing: missing}
	}

	return cfg, nil
}
