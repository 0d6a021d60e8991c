package database

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/retakesallocator/loadout/internal/config"
	"github.com/retakesallocator/loadout/internal/model"
)

// memoryDSN is a private in-memory database. It lives as long as the pool's single connection.
const memoryDSN = "file::memory:"

// Manager handles database connections and operations.
type Manager struct {
	DB              *gorm.DB
	SqlDB           *sql.DB
	IsValid         bool
	ShouldSaveLocal bool
	SqliteFilePath  string
	Logger          zerolog.Logger
}

// NewManager creates a new database manager. sqlitePath is the fallback file; empty
// means in-memory.
func NewManager(log zerolog.Logger, sqlitePath string) *Manager {
	return &Manager{
		IsValid:         false,
		ShouldSaveLocal: false,
		SqliteFilePath:  sqlitePath,
		Logger:          log,
	}
}

// Connect establishes a database connection, falling back to SQLite if Postgres fails.
func (m *Manager) Connect(cfg config.DBConfig) error {
	var err error

	m.DB, err = GetPostgresDB(cfg)
	if err == nil {
		m.SqlDB, err = m.DB.DB()
		if err == nil {
			err = m.SqlDB.Ping()
		}
	}
	if err != nil {
		m.Logger.Error().Err(err).Str("host", cfg.Host).Msg("Failed to connect to Postgres DB, trying SQLite")
		return m.fallback()
	}

	m.Logger.Info().Str("host", cfg.Host).Str("database", cfg.Database).Msg("Connected to database")
	m.SqlDB.SetMaxOpenConns(10)
	m.IsValid = true
	return nil
}

func (m *Manager) fallback() error {
	var err error
	m.ShouldSaveLocal = true
	m.DB, err = GetSqliteDB(m.SqliteFilePath)
	if err != nil {
		m.IsValid = false
		return fmt.Errorf("failed to get local SQLite DB: %w", err)
	}
	if m.SqlDB, err = m.DB.DB(); err != nil {
		m.IsValid = false
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	if m.SqliteFilePath == "" {
		m.Logger.Info().Msg("Using local SQLite DB in memory")
	} else {
		m.Logger.Info().Str("path", m.SqliteFilePath).Msg("Using local SQLite DB")
	}
	m.IsValid = true
	return nil
}

// Setup migrates the preference tables.
func (m *Manager) Setup() error {
	if err := Migrate(m.DB); err != nil {
		m.IsValid = false
		return err
	}
	m.Logger.Info().Msg("Database setup complete")
	return nil
}

// Close releases the connection pool.
func (m *Manager) Close() error {
	if m.SqlDB == nil {
		return nil
	}
	return m.SqlDB.Close()
}

// Migrate creates or updates the preference tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// PostgresDSN builds the connection string for cfg.
func PostgresDSN(cfg config.DBConfig) string {
	return fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=disable`,
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Database)
}

// GetPostgresDB returns a connection to the Postgres database.
func GetPostgresDB(cfg config.DBConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  PostgresDSN(cfg),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// GetSqliteDB returns a connection to a SQLite database.
// If path is empty, uses an in-memory database.
func GetSqliteDB(path string) (*gorm.DB, error) {
	dsn := path
	if dsn == "" {
		dsn = memoryDSN
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	// one writer at a time; also keeps pragmas and attachments on a single connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql interface: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	// set PRAGMAS
	pragmas := []string{
		"PRAGMA user_version = 1;",
		"PRAGMA journal_mode = MEMORY;",
		"PRAGMA synchronous = OFF;",
		"PRAGMA cache_size = -8000;",
		"PRAGMA temp_store = MEMORY;",
	}

	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}

	return db, nil
}

// DumpMemoryDBToDisk vacuums the in-memory database to a disk file.
func DumpMemoryDBToDisk(db *gorm.DB, sqliteFilePath string) (time.Duration, error) {
	if sqliteFilePath == "" {
		return 0, fmt.Errorf("sqlite file path not set")
	}

	// remove existing file if it exists
	if exists, err := os.Stat(sqliteFilePath); err == nil && exists != nil {
		if err := os.Remove(sqliteFilePath); err != nil {
			return 0, fmt.Errorf("error removing existing DB file: %w", err)
		}
	}

	start := time.Now()
	if err := db.Exec("VACUUM INTO ?", sqliteFilePath).Error; err != nil {
		return 0, fmt.Errorf("error dumping memory DB to disk: %w", err)
	}
	return time.Since(start), nil
}
