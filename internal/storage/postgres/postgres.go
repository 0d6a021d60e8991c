// Package postgres implements storage.PreferenceStore on PostgreSQL through the
// GORM backend. When the server cannot be reached it falls back to a local SQLite
// database so preferences keep working for the session.
package postgres

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/retakesallocator/loadout/internal/config"
	"github.com/retakesallocator/loadout/internal/database"
	"github.com/retakesallocator/loadout/internal/logging"
	gormstorage "github.com/retakesallocator/loadout/internal/storage/gorm"
)

// Backend wraps the GORM backend with a managed Postgres connection.
type Backend struct {
	*gormstorage.Backend
	manager *database.Manager
}

// New connects to Postgres. sqlitePath is the fallback database file; empty means in-memory.
func New(cfg config.DBConfig, sqlitePath string, logManager *logging.SlogManager, dbLog zerolog.Logger) (*Backend, error) {
	m := database.NewManager(dbLog, sqlitePath)
	if err := m.Connect(cfg); err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	if m.ShouldSaveLocal && logManager != nil {
		logManager.WriteLog("postgres:New", "Postgres unreachable, preferences are stored in SQLite", "WARN")
	}

	return &Backend{
		Backend: gormstorage.New(gormstorage.Dependencies{DB: m.DB, LogManager: logManager}),
		manager: m,
	}, nil
}

// Init migrates the schema.
func (b *Backend) Init() error {
	if err := b.manager.Setup(); err != nil {
		return fmt.Errorf("failed to setup DB: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (b *Backend) Close() error {
	return b.manager.Close()
}

// Fallback reports whether the backend is running on the SQLite fallback.
func (b *Backend) Fallback() bool {
	return b.manager.ShouldSaveLocal
}
