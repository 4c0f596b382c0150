package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/feedsieve/internal/classifier"
	"github.com/phrazzld/feedsieve/internal/config"
	"github.com/phrazzld/feedsieve/internal/domain"
	"github.com/phrazzld/feedsieve/internal/engine"
	"github.com/phrazzld/feedsieve/internal/fetcher"
	"github.com/phrazzld/feedsieve/internal/platform/postgres"
	"github.com/phrazzld/feedsieve/internal/publisher"
	"github.com/phrazzld/feedsieve/internal/store"
)

// application holds all server dependencies, wired once at startup.
type application struct {
	config    *config.Config
	logger    *slog.Logger
	db        *sql.DB
	queue     store.WorkItemStore
	outcomes  store.OutcomeStore
	scheduler *engine.Scheduler
}

// newApplication wires the full dependency graph from configuration.
func newApplication(ctx context.Context, cfg *config.Config, log *slog.Logger, db *sql.DB) (*application, error) {
	queue := postgres.NewPostgresWorkItemStore(db, log)
	outcomes := postgres.NewPostgresOutcomeStore(db, log)

	groups := promptGroups(cfg.Prompts)

	cls, err := classifier.New(ctx, cfg.LLM, groups, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create classifier: %w", err)
	}

	pub := publisher.NewReadwiseClient(cfg.Readwise, log)
	fetch := fetcher.NewReadabilityFetcher(log)

	eng := engine.New(queue, outcomes, cls, pub, fetch, groups, log)
	sched := engine.NewScheduler(eng, queue, cfg.Queue, log)

	return &application{
		config:    cfg,
		logger:    log,
		db:        db,
		queue:     queue,
		outcomes:  outcomes,
		scheduler: sched,
	}, nil
}

// promptGroups converts configured prompt groups into domain values,
// preserving configuration order for first-match-wins semantics.
func promptGroups(configs []config.PromptGroupConfig) []domain.PromptGroup {
	groups := make([]domain.PromptGroup, 0, len(configs))
	for _, c := range configs {
		groups = append(groups, domain.PromptGroup{
			Patterns:       c.Sites,
			PromptTemplate: c.Prompt,
			RefetchContent: c.RefetchContent,
		})
	}
	return groups
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database connection", slog.String("error", err.Error()))
	}
}
