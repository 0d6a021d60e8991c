// Package gormstorage implements storage.PreferenceStore on GORM. The SQLite and
// Postgres backends wrap it and only differ in how the connection is made.
package gormstorage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/retakesallocator/loadout/internal/database"
	"github.com/retakesallocator/loadout/internal/logging"
	"github.com/retakesallocator/loadout/internal/model"
	"github.com/retakesallocator/loadout/internal/model/convert"
	"github.com/retakesallocator/loadout/pkg/core"
)

// Dependencies holds all dependencies for the GORM storage backend.
type Dependencies struct {
	DB         *gorm.DB
	LogManager *logging.SlogManager
}

// Backend implements storage.PreferenceStore with one row per preference key.
type Backend struct {
	deps Dependencies
}

var (
	weaponKey = clause.OnConflict{
		Columns:   []clause.Column{{Name: "player_id"}, {Name: "team"}, {Name: "category"}},
		DoUpdates: clause.AssignmentColumns([]string{"weapon", "updated_at"}),
	}
	errNoDB = errors.New("no database configured")
)

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	return &Backend{deps: deps}
}

// Init runs schema migration.
func (b *Backend) Init() error {
	if b.deps.DB == nil {
		return errNoDB
	}
	if err := database.Migrate(b.deps.DB); err != nil {
		return err
	}
	if b.deps.LogManager != nil {
		b.deps.LogManager.WriteLog("gorm:Init", fmt.Sprintf("Schema ready on %s", b.deps.DB.Name()), "INFO")
	}
	return nil
}

// Close is a no-op; the connection belongs to the caller.
func (b *Backend) Close() error {
	return nil
}

// DB returns the underlying connection.
func (b *Backend) DB() *gorm.DB {
	return b.deps.DB
}

// GetUserSettings loads the setting row and all weapon rows of a player.
func (b *Backend) GetUserSettings(ctx context.Context, playerID uint64) (*core.UserLoadoutSettings, error) {
	if b.deps.DB == nil {
		return nil, errNoDB
	}
	db := b.deps.DB.WithContext(ctx)

	var settings []model.UserSetting
	if err := db.Where("player_id = ?", playerID).Limit(1).Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to load user settings %d: %w", playerID, err)
	}
	var prefs []model.WeaponPreference
	if err := db.Where("player_id = ?", playerID).Order("team, category").Find(&prefs).Error; err != nil {
		return nil, fmt.Errorf("failed to load weapon preferences %d: %w", playerID, err)
	}

	if len(settings) == 0 && len(prefs) == 0 {
		return nil, nil
	}
	var setting *model.UserSetting
	if len(settings) > 0 {
		setting = &settings[0]
	}
	return convert.RowsToSettings(playerID, setting, prefs), nil
}

// SetWeaponPreference upserts one key, or deletes it when weapon is empty.
func (b *Backend) SetWeaponPreference(ctx context.Context, playerID uint64, team core.Team, category core.AllocationType, weapon core.WeaponID) error {
	if b.deps.DB == nil {
		return errNoDB
	}
	db := b.deps.DB.WithContext(ctx)

	if weapon == "" {
		err := db.Where("player_id = ? AND team = ? AND category = ?", playerID, int(team), int(category)).
			Delete(&model.WeaponPreference{}).Error
		if err != nil {
			return fmt.Errorf("failed to clear %s %s preference: %w", team, category, err)
		}
		return nil
	}

	row := convert.CoreToWeaponPreference(playerID, team, category, weapon)
	if err := db.Clauses(weaponKey).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to upsert %s %s preference: %w", team, category, err)
	}
	return nil
}

// SetSniperPreference writes the Preferred rows of both teams in one statement.
func (b *Backend) SetSniperPreference(ctx context.Context, playerID uint64, pref core.SniperPreference) error {
	if b.deps.DB == nil {
		return errNoDB
	}
	db := b.deps.DB.WithContext(ctx)

	if !pref.IsSet() {
		err := db.Where("player_id = ? AND category = ?", playerID, int(core.Preferred)).
			Delete(&model.WeaponPreference{}).Error
		if err != nil {
			return fmt.Errorf("failed to clear sniper preference: %w", err)
		}
		return nil
	}

	rows := convert.CoreToSniperPreferences(playerID, pref)
	if err := db.Clauses(weaponKey).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to upsert sniper preference: %w", err)
	}
	return nil
}

// SetZeusPreference upserts the zeus flag.
func (b *Backend) SetZeusPreference(ctx context.Context, playerID uint64, enabled bool) error {
	return b.upsertSetting(ctx, model.UserSetting{PlayerID: playerID, ZeusEnabled: enabled}, "zeus_enabled")
}

// SetEnemyEquipmentPreference upserts the enemy equipment flags.
func (b *Backend) SetEnemyEquipmentPreference(ctx context.Context, playerID uint64, flags core.EnemyStuffFlags) error {
	return b.upsertSetting(ctx, model.UserSetting{PlayerID: playerID, EnemyStuff: uint8(flags)}, "enemy_stuff")
}

// upsertSetting inserts row or, on conflict, updates only column.
func (b *Backend) upsertSetting(ctx context.Context, row model.UserSetting, column string) error {
	if b.deps.DB == nil {
		return errNoDB
	}
	err := b.deps.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "player_id"}},
		DoUpdates: clause.AssignmentColumns([]string{column, "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert %s: %w", column, err)
	}
	return nil
}
