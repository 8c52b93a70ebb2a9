package cmd

import (
	"context"

	"github.com/spf13/viper"

	"github.com/staffsearch/staffsearch/internal/config"
	"github.com/staffsearch/staffsearch/internal/core/store"
)

// openStore opens the employee store and applies pending migrations.
func openStore(ctx context.Context, cfg config.StoreConfig) (*store.Store, error) {
	db, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// openConfiguredStore loads the current configuration and opens its store.
func openConfiguredStore(ctx context.Context) (*store.Store, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}
	return openStore(ctx, cfg.Store)
}
