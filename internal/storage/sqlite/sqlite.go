// Package sqlitestorage implements storage.PreferenceStore on SQLite by wrapping the
// GORM backend. With no file path the database lives in memory: it is restored
// from the dump file on Init, dumped periodically via VACUUM INTO, and dumped
// once more on Close.
package sqlitestorage

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/retakesallocator/loadout/internal/database"
	"github.com/retakesallocator/loadout/internal/logging"
	"github.com/retakesallocator/loadout/internal/model"
	gormstorage "github.com/retakesallocator/loadout/internal/storage/gorm"
)

// Config holds configuration for the SQLite storage backend.
type Config struct {
	Path         string // database file; empty means in-memory
	DumpPath     string // Path for periodic VACUUM INTO dumps of the in-memory database
	DumpInterval time.Duration
}

// Backend wraps the GORM backend for SQLite-specific behavior.
type Backend struct {
	*gormstorage.Backend
	db        *gorm.DB
	cfg       Config
	log       *logging.SlogManager
	stopChan  chan struct{}
	loopDone  sync.WaitGroup
	closeOnce sync.Once
}

// New opens the SQLite database described by cfg.
func New(cfg Config, logManager *logging.SlogManager) (*Backend, error) {
	db, err := database.GetSqliteDB(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite DB: %w", err)
	}

	return &Backend{
		Backend:  gormstorage.New(gormstorage.Dependencies{DB: db, LogManager: logManager}),
		db:       db,
		cfg:      cfg,
		log:      logManager,
		stopChan: make(chan struct{}),
	}, nil
}

func (b *Backend) inMemory() bool {
	return b.cfg.Path == ""
}

// Init migrates the schema, restores the last dump and starts the dump goroutine.
func (b *Backend) Init() error {
	if err := b.Backend.Init(); err != nil {
		return err
	}
	if !b.inMemory() || b.cfg.DumpPath == "" {
		return nil
	}

	if err := b.restore(); err != nil {
		b.log.WriteLog("sqlite:restore", fmt.Sprintf("Starting empty: %v", err), "WARN")
	}
	if b.cfg.DumpInterval > 0 {
		b.loopDone.Add(1)
		go b.dumpLoop()
	}
	return nil
}

// Close stops the dump goroutine, writes a final dump and closes the connection.
func (b *Backend) Close() error {
	var err error
	b.closeOnce.Do(func() {
		close(b.stopChan)
		b.loopDone.Wait()

		if b.inMemory() && b.cfg.DumpPath != "" {
			if _, dumpErr := database.DumpMemoryDBToDisk(b.db, b.cfg.DumpPath); dumpErr != nil {
				err = dumpErr
			}
		}
		sqlDB, dbErr := b.db.DB()
		if dbErr != nil {
			err = errors.Join(err, dbErr)
			return
		}
		err = errors.Join(err, sqlDB.Close())
	})
	return err
}

// restore copies the rows of the dump file into the in-memory database.
func (b *Backend) restore() error {
	if _, err := os.Stat(b.cfg.DumpPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	return b.db.Connection(func(tx *gorm.DB) error {
		if err := tx.Exec("ATTACH DATABASE ? AS dump", b.cfg.DumpPath).Error; err != nil {
			return fmt.Errorf("attach %s: %w", b.cfg.DumpPath, err)
		}
		defer tx.Exec("DETACH DATABASE dump")

		for _, m := range model.DatabaseModels {
			table := m.(interface{ TableName() string }).TableName()
			if err := tx.Exec(fmt.Sprintf("INSERT OR REPLACE INTO main.%[1]s SELECT * FROM dump.%[1]s", table)).Error; err != nil {
				return fmt.Errorf("restore %s: %w", table, err)
			}
		}
		b.log.WriteLog("sqlite:restore", fmt.Sprintf("Restored preferences from %s", b.cfg.DumpPath), "INFO")
		return nil
	})
}

// dumpLoop periodically dumps the in-memory SQLite database to disk via VACUUM INTO.
// VACUUM INTO creates a point-in-time snapshot, so no pause mechanism is needed.
func (b *Backend) dumpLoop() {
	defer b.loopDone.Done()
	ticker := time.NewTicker(b.cfg.DumpInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			if took, err := database.DumpMemoryDBToDisk(b.db, b.cfg.DumpPath); err != nil {
				b.log.WriteLog("sqlite:dumpLoop", fmt.Sprintf("Error dumping to disk: %v", err), "ERROR")
			} else {
				b.log.WriteLog("sqlite:dumpLoop", fmt.Sprintf("Dumped to disk in %s", took), "DEBUG")
			}
		}
	}
}
