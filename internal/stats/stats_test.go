package stats

import (
	"compress/gzip"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retakesallocator/loadout/internal/config"
	"github.com/retakesallocator/loadout/pkg/core"
)

func TestConnect_Disabled(t *testing.T) {
	m := NewManager(config.InfluxConfig{Enabled: false}, zerolog.Nop())
	assert.ErrorIs(t, m.Connect(context.Background()), ErrDisabled)
	assert.NoError(t, m.Close())
}

func TestWeaponPreferencePoint(t *testing.T) {
	at := time.Unix(1700000000, 0)
	p := WeaponPreferencePoint(core.TeamTerrorist, core.FullBuyPrimary, core.RoundFullBuy, "weapon_galilar", true, at)

	assert.Equal(t, "weapon_preference", p.Name())
	tags := map[string]string{}
	for _, tag := range p.TagList() {
		tags[tag.Key] = tag.Value
	}
	assert.Equal(t, map[string]string{
		"team": "T", "category": "FullBuyPrimary", "round": "FullBuy", "weapon": "weapon_galilar",
	}, tags)
	assert.Equal(t, at, p.Time())
}

func TestUnreachableInflux_WritesBackup(t *testing.T) {
	backup := filepath.Join(t.TempDir(), "stats.lp.gz")
	m := NewManager(config.InfluxConfig{
		Enabled:    true,
		Protocol:   "http",
		Host:       "127.0.0.1",
		Port:       "1",
		Org:        "retakes",
		BackupPath: backup,
	}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, m.Connect(ctx))
	assert.False(t, m.IsValid)

	m.RecordWeaponPreference(core.TeamCounterTerrorist, core.Secondary, core.RoundHalfBuy, "weapon_p250", false)
	require.NoError(t, m.Close())

	f, err := os.Open(backup)
	require.NoError(t, err)
	defer f.Close()
	zr, err := gzip.NewReader(f)
	require.NoError(t, err)
	data, err := io.ReadAll(zr)
	require.NoError(t, err)

	line := string(data)
	assert.Contains(t, line, "weapon_preference,")
	assert.Contains(t, line, "weapon=weapon_p250")
	assert.Contains(t, line, "shared_pool=false")
}
