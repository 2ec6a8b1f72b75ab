package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/triagebot-ai/triagebot/internal/config"
	"github.com/triagebot-ai/triagebot/internal/linkcheck"
	logpkg "github.com/triagebot-ai/triagebot/internal/logger"
	"github.com/triagebot-ai/triagebot/internal/version"
	"github.com/triagebot-ai/triagebot/internal/wiki"
)

func main() {
	// Local development convenience, missing .env is fine.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting link check",
		zap.String("version", version.Version),
		zap.String("env", env),
		zap.String("page_id", cfg.LinkCheck.Confluence.PageID),
	)

	ctx := logpkg.ContextWithLogger(context.Background(), logger)

	client := wiki.NewClient(wiki.ClientConfig{
		BaseURL:  cfg.LinkCheck.Confluence.BaseURL,
		Username: cfg.LinkCheck.Confluence.Username,
		APIToken: cfg.LinkCheck.Confluence.APIToken,
		Timeout:  time.Duration(cfg.LinkCheck.TimeoutSec) * time.Second,
	})

	body, err := client.PageBody(ctx, cfg.LinkCheck.Confluence.PageID)
	if err != nil {
		logger.Fatal("Failed to fetch Confluence page", zap.Error(err))
	}

	rows, err := wiki.ParseTable(body)
	if err != nil {
		logger.Fatal("Failed to parse link table", zap.Error(err))
	}

	items := make([]linkcheck.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, linkcheck.Item{
			URL:    row["url"],
			Type:   row["type"],
			Ticket: row["ticket"],
		})
	}
	logger.Info("Loaded link table", zap.Int("items", len(items)))

	validator := linkcheck.New(linkcheck.Config{
		Concurrency: cfg.LinkCheck.Concurrency,
		Timeout:     time.Duration(cfg.LinkCheck.TimeoutSec) * time.Second,
		BatchPause:  time.Duration(cfg.LinkCheck.BatchPauseMS) * time.Millisecond,
	})
	results := validator.Validate(ctx, items)

	valid := 0
	for _, r := range results {
		if r.Valid {
			valid++
		}
	}
	logger.Info("Link check finished",
		zap.Int("total", len(results)),
		zap.Int("valid", valid),
		zap.Int("invalid", len(results)-valid),
	)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		logger.Fatal("Failed to write results", zap.Error(err))
	}
}
