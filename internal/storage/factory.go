package storage

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/retakesallocator/loadout/internal/config"
	"github.com/retakesallocator/loadout/internal/logging"
	"github.com/retakesallocator/loadout/internal/storage/memory"
	"github.com/retakesallocator/loadout/internal/storage/postgres"
	sqlitestorage "github.com/retakesallocator/loadout/internal/storage/sqlite"
)

// Dependencies are the loggers handed to the SQL backends.
type Dependencies struct {
	LogManager *logging.SlogManager
	DBLogger   zerolog.Logger
}

// NewStore creates a preference store based on configuration. Init is left to the caller.
func NewStore(cfg config.StorageConfig, db config.DBConfig, deps Dependencies) (PreferenceStore, error) {
	switch cfg.Type {
	case "memory":
		return memory.New(), nil
	case "sqlite":
		return sqlitestorage.New(sqlitestorage.Config{
			Path:         cfg.SQLite.Path,
			DumpPath:     cfg.SQLite.DumpPath,
			DumpInterval: cfg.SQLite.DumpInterval,
		}, deps.LogManager)
	case "postgres":
		return postgres.New(db, cfg.SQLite.Path, deps.LogManager, deps.DBLogger)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
