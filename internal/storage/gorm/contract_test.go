package gormstorage_test

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/retakesallocator/loadout/internal/storage"
	gormstorage "github.com/retakesallocator/loadout/internal/storage/gorm"
	"github.com/retakesallocator/loadout/internal/storage/storagetest"
)

// Compile-time interface check
var _ storage.PreferenceStore = (*gormstorage.Backend)(nil)

func TestContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.PreferenceStore {
		db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
			SkipDefaultTransaction: true,
			Logger:                 logger.Default.LogMode(logger.Silent),
		})
		require.NoError(t, err)
		sqlDB, err := db.DB()
		require.NoError(t, err)
		sqlDB.SetMaxOpenConns(1)
		t.Cleanup(func() { _ = sqlDB.Close() })

		b := gormstorage.New(gormstorage.Dependencies{DB: db})
		require.NoError(t, b.Init())
		return b
	})
}
