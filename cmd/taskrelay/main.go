package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/taskrelay/taskrelay/internal/adapters/agent"
	httpadapter "github.com/taskrelay/taskrelay/internal/adapters/http"
	"github.com/taskrelay/taskrelay/internal/adapters/storage/memory"
	"github.com/taskrelay/taskrelay/internal/app/chat"
	"github.com/taskrelay/taskrelay/internal/config"
	"github.com/taskrelay/taskrelay/internal/domain"
	"github.com/taskrelay/taskrelay/internal/observability"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		// Nothing is served on a broken configuration.
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}

	observability.Setup(cfg.LogLevel)

	slog.Info("taskrelay starting",
		"port", cfg.Port,
		"region", cfg.Region,
		"agent_id", cfg.AgentID,
		"agent_alias_id", cfg.AgentAliasID,
		"mock_agent", cfg.UseMockAgent,
	)

	var agentClient domain.AgentClient
	if cfg.UseMockAgent {
		slog.Info("using mock agent client")
		agentClient = agent.NewMockAgent()
	} else {
		client, err := agent.NewBedrockClient(ctx, agent.Options{
			Region:          cfg.Region,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
			AgentID:         cfg.AgentID,
			AgentAliasID:    cfg.AgentAliasID,
		})
		if err != nil {
			slog.Error("failed to initialize agent client", "error", err)
			os.Exit(1)
		}
		agentClient = client
	}

	svc := chat.NewService(
		agentClient,
		memory.NewSessionStore(),
		memory.NewTranscriptStore(),
		cfg.AppSecretKey,
	)

	handler := httpadapter.NewServer(svc, cfg.AgentID, cfg.AgentAliasID)

	addr := ":" + cfg.Port
	slog.Info("taskrelay listening", "addr", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
