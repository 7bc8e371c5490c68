package config

import (
	"errors"
	"testing"

	"github.com/taskrelay/taskrelay/internal/domain"
)

var allKeys = []string{
	"TASKRELAY_PORT", "AWS_REGION", "LOG_LEVEL",
	"ACCESS_KEY_ID", "SECRET_ACCESS_KEY",
	"BEDROCK_AGENT_ID", "BEDROCK_AGENT_ALIAS",
	"APP_SECRET_KEY", "TASKRELAY_USE_MOCK_AGENT",
}

// clearEnv blanks every setting so tests see only what they set themselves.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("ACCESS_KEY_ID", "AKIA-test")
	t.Setenv("SECRET_ACCESS_KEY", "secret")
	t.Setenv("BEDROCK_AGENT_ID", "AGENT1234")
	t.Setenv("BEDROCK_AGENT_ALIAS", "TSTALIASID")
	t.Setenv("APP_SECRET_KEY", "hunter2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.Region != "us-east-1" {
		t.Errorf("expected default region us-east-1, got %s", cfg.Region)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %s", cfg.LogLevel)
	}
	if cfg.UseMockAgent {
		t.Errorf("expected mock agent disabled by default")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("TASKRELAY_PORT", "9090")
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ACCESS_KEY_ID", "AKIA-test")
	t.Setenv("SECRET_ACCESS_KEY", "secret")
	t.Setenv("BEDROCK_AGENT_ID", "AGENT1234")
	t.Setenv("BEDROCK_AGENT_ALIAS", "TSTALIASID")
	t.Setenv("APP_SECRET_KEY", "hunter2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.Region != "eu-west-1" {
		t.Errorf("expected region eu-west-1, got %s", cfg.Region)
	}
	if cfg.AgentID != "AGENT1234" || cfg.AgentAliasID != "TSTALIASID" {
		t.Errorf("agent identity not loaded: %q / %q", cfg.AgentID, cfg.AgentAliasID)
	}
}

func TestLoad_MissingCredentialsIsFatal(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_SECRET_KEY", "hunter2")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error with no AWS credentials set")
	}

	var cfgErr *domain.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %T", err)
	}
	if len(cfgErr.Missing) != 4 {
		t.Errorf("expected 4 missing settings, got %v", cfgErr.Missing)
	}
}

func TestLoad_MockAgentSkipsAWSValidation(t *testing.T) {
	clearEnv(t)
	t.Setenv("TASKRELAY_USE_MOCK_AGENT", "1")
	t.Setenv("APP_SECRET_KEY", "hunter2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.UseMockAgent {
		t.Error("expected mock agent enabled")
	}
}

func TestLoad_MissingSecretKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("TASKRELAY_USE_MOCK_AGENT", "1")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error with APP_SECRET_KEY unset")
	}
}
