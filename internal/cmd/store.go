package cmd

import (
	"context"
	"errors"

	"github.com/lendlens/lendlens/internal/config"
	"github.com/lendlens/lendlens/internal/core/store"
)

// openStore opens and migrates the report store from the loaded config.
func openStore(ctx context.Context) (*store.Store, error) {
	cfg := config.GetConfig()
	if cfg == nil {
		return nil, errors.New("config not loaded")
	}

	db, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
