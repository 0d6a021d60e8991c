package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/retakesallocator/loadout/pkg/core"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0644))
	return dir
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"logLevel": "debug",
		"db": { "host": "10.0.0.1", "port": "5433" }
	}`)

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, "10.0.0.1", viper.GetString("db.host"))
	assert.Equal(t, "5433", viper.GetString("db.port"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{}`)))

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "./allocatorlogs", viper.GetString("logsDir"))
	assert.Equal(t, "localhost", viper.GetString("db.host"))
	assert.Equal(t, "5432", viper.GetString("db.port"))
	assert.Equal(t, "allocator", viper.GetString("db.database"))
	assert.Equal(t, false, viper.GetBool("graylog.enabled"))
	assert.Equal(t, "localhost:12201", viper.GetString("graylog.address"))
	assert.Equal(t, "sqlite", viper.GetString("storage.type"))
	assert.Equal(t, "3m", viper.GetString("storage.sqlite.dumpInterval"))
	assert.Equal(t, false, viper.GetBool("otel.enabled"))
	assert.Equal(t, "loadout-allocator", viper.GetString("otel.serviceName"))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load("/nonexistent/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("ALLOCATOR_STORAGE_TYPE", "postgres")

	require.NoError(t, Load(writeConfig(t, `{}`)))

	assert.Equal(t, "postgres", GetStorageConfig().Type)
}

func TestGetters(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testKey", "testValue")
	viper.Set("testInt", 42)
	viper.Set("testBool", true)

	assert.Equal(t, "testValue", GetString("testKey"))
	assert.Equal(t, 42, GetInt("testInt"))
	assert.Equal(t, true, GetBool("testBool"))
}

func TestGetStorageConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{}`)))

	cfg := GetStorageConfig()
	assert.Equal(t, "sqlite", cfg.Type)
	assert.Equal(t, 5*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 1024, cfg.QueueSize)
	assert.Equal(t, "", cfg.SQLite.Path)
	assert.Equal(t, "./allocator_preferences.db", cfg.SQLite.DumpPath)
	assert.Equal(t, 3*time.Minute, cfg.SQLite.DumpInterval)
}

func TestGetStorageConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{
		"storage": {
			"type": "memory",
			"writeTimeout": "1s",
			"queueSize": 8,
			"sqlite": { "path": "/tmp/prefs.db", "dumpInterval": "10m" }
		}
	}`)))

	sc := GetStorageConfig()
	assert.Equal(t, "memory", sc.Type)
	assert.Equal(t, time.Second, sc.WriteTimeout)
	assert.Equal(t, 8, sc.QueueSize)
	assert.Equal(t, "/tmp/prefs.db", sc.SQLite.Path)
	assert.Equal(t, 10*time.Minute, sc.SQLite.DumpInterval)
}

func TestGetLoadoutConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{}`)))

	cfg := GetLoadoutConfig()
	assert.False(t, cfg.SharedPool)
	assert.True(t, cfg.AllowWeaponSelection)
	assert.True(t, cfg.EnableSniperPreference)
	assert.False(t, cfg.EnableEnemyStuffPreference)
	assert.False(t, cfg.EnableZeusPreference)
	assert.Equal(t, []string{"guns", "!guns", "/guns"}, cfg.MenuCommands)
	assert.Empty(t, cfg.UsableWeapons)
	assert.Empty(t, cfg.DefaultWeapons)
	assert.Equal(t, "en-US", cfg.Locale)
}

func TestGetLoadoutConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{
		"loadout": {
			"sharedPool": true,
			"menuCommands": " guns , !loadout ,",
			"usableWeapons": ["weapon_ak47", " weapon_m4a1 "],
			"defaultWeapons": {
				"T": { "FullBuyPrimary": "weapon_ak47", "Grenade": "weapon_hegrenade" },
				"CT": { "Secondary": "weapon_usp_silencer" },
				"Spectator": { "Secondary": "weapon_glock" }
			}
		}
	}`)))

	cfg := GetLoadoutConfig()
	assert.True(t, cfg.SharedPool)
	assert.Equal(t, []string{"guns", "!loadout"}, cfg.MenuCommands)
	assert.Equal(t, []core.WeaponID{"weapon_ak47", "weapon_m4a1"}, cfg.UsableWeapons)
	assert.Equal(t, map[core.Team]map[core.AllocationType]core.WeaponID{
		core.TeamTerrorist:        {core.FullBuyPrimary: "weapon_ak47"},
		core.TeamCounterTerrorist: {core.Secondary: "weapon_usp_silencer"},
	}, cfg.DefaultWeapons)
}

func TestGetOTelConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{
		"otel": {
			"enabled": true,
			"serviceName": "my-service",
			"batchTimeout": "30s",
			"endpoint": "localhost:4318",
			"insecure": false
		}
	}`)))

	oc := GetOTelConfig()
	assert.Equal(t, true, oc.Enabled)
	assert.Equal(t, "my-service", oc.ServiceName)
	assert.Equal(t, 30*time.Second, oc.BatchTimeout)
	assert.Equal(t, "localhost:4318", oc.Endpoint)
	assert.Equal(t, false, oc.Insecure)
}

func TestGetCapabilityAndSinks(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{
		"capability": { "vipPlayers": ["76561197960287930"], "enemyStuffVipOnly": false },
		"influx": { "enabled": true, "org": "league" },
		"graylog": { "enabled": true, "address": "gelf:12201" }
	}`)))

	cc := GetCapabilityConfig()
	assert.Equal(t, []string{"76561197960287930"}, cc.VipPlayers)
	assert.False(t, cc.EnemyStuffVipOnly)

	ic := GetInfluxConfig()
	assert.True(t, ic.Enabled)
	assert.Equal(t, "league", ic.Org)
	assert.Equal(t, "8086", ic.Port)
	assert.Equal(t, "./allocator_stats.lp.gz", ic.BackupPath)

	gc := GetGraylogConfig()
	assert.True(t, gc.Enabled)
	assert.Equal(t, "gelf:12201", gc.Address)
}
