package main

import (
	"context"

	"github.com/spf13/viper"

	"github.com/bilosnizhka/bilosnizhka/internal/atelier"
	"github.com/bilosnizhka/bilosnizhka/internal/config"
	"github.com/bilosnizhka/bilosnizhka/internal/storage"
)

// openStorage opens the local database at the configured path and brings the
// schema up to date. The caller closes it.
func openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	} else {
		dbPath = config.ExpandPath(dbPath)
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// newAPIClient builds the atelier API client from config.
func newAPIClient() (*atelier.Client, error) {
	return atelier.NewClient(viper.GetString("api.base_url"))
}
