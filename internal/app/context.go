package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"orga/internal/config"
	"orga/internal/db"
	"orga/internal/domain"
	"orga/internal/migrate"
	"orga/internal/repo"
)

// Open prepares a workspace for use: opens the database, applies pending
// migrations, loads orga.yml (defaults when absent) and seeds the settings
// row on first run.
func Open(ctx context.Context, workspace string) (*sql.DB, *config.Config, error) {
	conn, err := db.Open(workspace)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := migrate.Apply(conn); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}

	cfg, err := config.LoadOptional(workspace)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	if cfg == nil {
		cfg = config.Default()
	}

	r := repo.Repo{DB: conn}
	if _, err := r.GetSettings(ctx); err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			conn.Close()
			return nil, nil, err
		}
		seed := domain.Settings{
			ID:              "singleton",
			EmbedLimitMB:    cfg.Storage.EmbedLimitMB,
			WorkspaceLinked: cfg.Storage.WorkspaceDir != "",
			SchemaVersion:   1,
		}
		if err := r.UpsertSettings(ctx, seed); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("seed settings: %w", err)
		}
	}
	return conn, cfg, nil
}
