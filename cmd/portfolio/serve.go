package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/comigor/portfolio-chat/internal/assistant"
	"github.com/comigor/portfolio-chat/internal/history"
	"github.com/comigor/portfolio-chat/internal/llm"
	"github.com/comigor/portfolio-chat/internal/logger"
	"github.com/comigor/portfolio-chat/internal/server"
	"github.com/comigor/portfolio-chat/pkg/mcptool"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the assistant endpoint",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx)
	},
}

func runServe(ctx context.Context) error {
	store := history.Open(cfg.History.DBPath)
	defer store.Close()
	if !store.Persistent() {
		logger.L.Warn("history is kept in memory only")
	}

	tools := mcptool.Connect(ctx, cfg.MCPServers)
	defer tools.Close()

	agent := assistant.New(llm.NewClient(cfg.LLM), *cfg, store, tools)
	if cfg.Server.APIKey == "" {
		logger.L.Warn("server.api_key is empty; /api/chat is unauthenticated")
	}

	return server.Run(ctx, cfg.Server, server.NewRouter(agent, cfg.Server.APIKey))
}
