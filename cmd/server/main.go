// Package main is the entry point for the chat server. It reads
// configuration from the environment, builds the logger, and starts the
// server; everything else lives in internal packages.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Rakabidaasta/npc-hackaton/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	// The chat listens on 8000 unless PORT overrides it.
	port := 8000
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	templateDir, err := filepath.Abs("web/templates")
	if err != nil {
		logger.Error("failed to resolve template directory", slog.String("error", err.Error()))
		os.Exit(1)
	}
	staticDir, err := filepath.Abs("web/static")
	if err != nil {
		logger.Error("failed to resolve static directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPath := "data/chat.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", filepath.Dir(dbPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// The session-signing secret is explicit configuration, not something
	// generated at startup: regenerating it per process would silently log
	// everyone out on every restart. Generate once with:
	//   SESSION_SECRET=$(openssl rand -hex 32)
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		logger.Error("SESSION_SECRET not set — refusing to start without a stable session secret")
		os.Exit(1)
	}

	cfg := server.Config{
		Port:          port,
		TemplateDir:   templateDir,
		StaticDir:     staticDir,
		DBPath:        dbPath,
		SessionSecret: secret,
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
