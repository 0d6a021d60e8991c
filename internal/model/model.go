package model

import (
	"time"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&UserSetting{},
	&WeaponPreference{},
}

// UserSetting holds the per-player flags. One row per player identity.
type UserSetting struct {
	PlayerID    uint64    `json:"playerId" gorm:"primaryKey;autoIncrement:false"`
	ZeusEnabled bool      `json:"zeusEnabled" gorm:"not null"`
	EnemyStuff  uint8     `json:"enemyStuff" gorm:"not null"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (*UserSetting) TableName() string {
	return "user_settings"
}

// WeaponPreference is one explicit weapon choice. The composite key makes every
// (player, team, category) write a single-row upsert.
type WeaponPreference struct {
	PlayerID  uint64    `json:"playerId" gorm:"primaryKey;autoIncrement:false"`
	Team      int       `json:"team" gorm:"primaryKey;autoIncrement:false"`
	Category  int       `json:"category" gorm:"primaryKey;autoIncrement:false"`
	Weapon    string    `json:"weapon" gorm:"size:64;not null"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (*WeaponPreference) TableName() string {
	return "weapon_preferences"
}
