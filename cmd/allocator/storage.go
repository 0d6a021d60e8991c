package main

import (
	"fmt"

	"github.com/retakesallocator/loadout/internal/config"
	"github.com/retakesallocator/loadout/internal/storage"
)

func initStorage() error {
	storageCfg := config.GetStorageConfig()

	store, err := storage.NewStore(storageCfg, config.GetDBConfig(), storage.Dependencies{
		LogManager: SlogManager,
		DBLogger:   DBLogger,
	})
	if err != nil {
		Logger.Error("Failed to create preference store", "error", err)
		return fmt.Errorf("failed to create preference store: %w", err)
	}
	if err := store.Init(); err != nil {
		Logger.Error("Failed to initialize preference store", "error", err)
		return fmt.Errorf("failed to initialize preference store: %w", err)
	}
	preferenceStore = store
	Logger.Info("Preference store initialized", "type", storageCfg.Type)
	return nil
}
