package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/retakesallocator/loadout/pkg/core"
	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "allocator.cfg.json"

// StorageConfig selects and tunes the preference store backend.
type StorageConfig struct {
	Type         string        `json:"type" mapstructure:"type"`
	WriteTimeout time.Duration `json:"writeTimeout" mapstructure:"writeTimeout"`
	QueueSize    int           `json:"queueSize" mapstructure:"queueSize"`
	SQLite       SQLiteConfig  `json:"sqlite" mapstructure:"sqlite"`
}

// SQLiteConfig holds SQLite storage backend settings.
type SQLiteConfig struct {
	Path         string        `json:"path" mapstructure:"path"`
	DumpPath     string        `json:"dumpPath" mapstructure:"dumpPath"`
	DumpInterval time.Duration `json:"dumpInterval" mapstructure:"dumpInterval"`
}

// DBConfig holds Postgres connection settings.
type DBConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
}

// LoadoutConfig holds the allocation rules and feature toggles.
type LoadoutConfig struct {
	SharedPool                 bool
	AllowWeaponSelection       bool
	EnableSniperPreference     bool
	EnableEnemyStuffPreference bool
	EnableZeusPreference       bool
	MenuCommands               []string
	UsableWeapons              []core.WeaponID
	DefaultWeapons             map[core.Team]map[core.AllocationType]core.WeaponID
	CatalogPath                string
	Locale                     string
}

// CapabilityConfig lists the players holding elevated capabilities.
type CapabilityConfig struct {
	VipPlayers        []string
	EnemyStuffVipOnly bool
	EnemyStuffPlayers []string
}

// OTelConfig holds OpenTelemetry settings.
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	Endpoint     string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure     bool          `json:"insecure" mapstructure:"insecure"`
}

// InfluxConfig holds the preference statistics sink settings.
type InfluxConfig struct {
	Enabled  bool
	Protocol string
	Host     string
	Port     string
	Token      string
	Org        string
	BackupPath string
}

// GraylogConfig holds the GELF log target.
type GraylogConfig struct {
	Enabled bool
	Address string
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	setDefaults()

	viper.SetEnvPrefix("ALLOCATOR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./allocatorlogs")

	viper.SetDefault("loadout.sharedPool", false)
	viper.SetDefault("loadout.allowWeaponSelection", true)
	viper.SetDefault("loadout.enableSniperPreference", true)
	viper.SetDefault("loadout.enableEnemyStuffPreference", false)
	viper.SetDefault("loadout.enableZeusPreference", false)
	viper.SetDefault("loadout.menuCommands", "guns,!guns,/guns")
	viper.SetDefault("loadout.usableWeapons", []string{})
	viper.SetDefault("loadout.catalogPath", "")
	viper.SetDefault("loadout.locale", "en-US")

	viper.SetDefault("capability.vipPlayers", []string{})
	viper.SetDefault("capability.enemyStuffVipOnly", true)
	viper.SetDefault("capability.enemyStuffPlayers", []string{})

	viper.SetDefault("storage.type", "sqlite")
	viper.SetDefault("storage.writeTimeout", "5s")
	viper.SetDefault("storage.queueSize", 1024)
	viper.SetDefault("storage.sqlite.path", "")
	viper.SetDefault("storage.sqlite.dumpPath", "./allocator_preferences.db")
	viper.SetDefault("storage.sqlite.dumpInterval", "3m")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "allocator")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "retakes")
	viper.SetDefault("influx.backupPath", "./allocator_stats.lp.gz")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "loadout-allocator")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetStorageConfig returns the storage backend configuration.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type:         viper.GetString("storage.type"),
		WriteTimeout: viper.GetDuration("storage.writeTimeout"),
		QueueSize:    viper.GetInt("storage.queueSize"),
		SQLite: SQLiteConfig{
			Path:         viper.GetString("storage.sqlite.path"),
			DumpPath:     viper.GetString("storage.sqlite.dumpPath"),
			DumpInterval: viper.GetDuration("storage.sqlite.dumpInterval"),
		},
	}
}

// GetDBConfig returns the Postgres connection configuration.
func GetDBConfig() DBConfig {
	return DBConfig{
		Host:     viper.GetString("db.host"),
		Port:     viper.GetString("db.port"),
		Username: viper.GetString("db.username"),
		Password: viper.GetString("db.password"),
		Database: viper.GetString("db.database"),
	}
}

// GetLoadoutConfig returns the allocation rules. Unparseable default weapon
// keys are skipped.
func GetLoadoutConfig() LoadoutConfig {
	cfg := LoadoutConfig{
		SharedPool:                 viper.GetBool("loadout.sharedPool"),
		AllowWeaponSelection:       viper.GetBool("loadout.allowWeaponSelection"),
		EnableSniperPreference:     viper.GetBool("loadout.enableSniperPreference"),
		EnableEnemyStuffPreference: viper.GetBool("loadout.enableEnemyStuffPreference"),
		EnableZeusPreference:       viper.GetBool("loadout.enableZeusPreference"),
		MenuCommands:               splitList(viper.GetString("loadout.menuCommands")),
		CatalogPath:                viper.GetString("loadout.catalogPath"),
		Locale:                     viper.GetString("loadout.locale"),
		DefaultWeapons:             map[core.Team]map[core.AllocationType]core.WeaponID{},
	}

	for _, id := range viper.GetStringSlice("loadout.usableWeapons") {
		if id = strings.TrimSpace(id); id != "" {
			cfg.UsableWeapons = append(cfg.UsableWeapons, core.WeaponID(id))
		}
	}

	// viper lowercases map keys, the parsers are case-insensitive
	for rawTeam, byCategory := range viper.GetStringMap("loadout.defaultWeapons") {
		team, err := core.ParseTeam(rawTeam)
		if err != nil || !team.IsPlaying() {
			continue
		}
		entries, ok := byCategory.(map[string]any)
		if !ok {
			continue
		}
		for rawCategory, weapon := range entries {
			category, err := core.ParseAllocationType(rawCategory)
			if err != nil {
				continue
			}
			id, ok := weapon.(string)
			if !ok || id == "" {
				continue
			}
			if cfg.DefaultWeapons[team] == nil {
				cfg.DefaultWeapons[team] = map[core.AllocationType]core.WeaponID{}
			}
			cfg.DefaultWeapons[team][category] = core.WeaponID(id)
		}
	}

	return cfg
}

// GetCapabilityConfig returns the capability lists.
func GetCapabilityConfig() CapabilityConfig {
	return CapabilityConfig{
		VipPlayers:        viper.GetStringSlice("capability.vipPlayers"),
		EnemyStuffVipOnly: viper.GetBool("capability.enemyStuffVipOnly"),
		EnemyStuffPlayers: viper.GetStringSlice("capability.enemyStuffPlayers"),
	}
}

// GetOTelConfig returns the OpenTelemetry configuration.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetInfluxConfig returns the statistics sink configuration.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:  viper.GetBool("influx.enabled"),
		Protocol: viper.GetString("influx.protocol"),
		Host:     viper.GetString("influx.host"),
		Port:     viper.GetString("influx.port"),
		Token:    viper.GetString("influx.token"),
		Org:      viper.GetString("influx.org"),

		BackupPath: viper.GetString("influx.backupPath"),
	}
}

// GetGraylogConfig returns the GELF target configuration.
func GetGraylogConfig() GraylogConfig {
	return GraylogConfig{
		Enabled: viper.GetBool("graylog.enabled"),
		Address: viper.GetString("graylog.address"),
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
