package messages

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retakesallocator/loadout/pkg/core"
)

func TestLoad_BaseLocale(t *testing.T) {
	tr, err := Load("en-US")
	require.NoError(t, err)

	assert.Equal(t, "en-US", tr.Locale())
	assert.Equal(t, "Guns (Terrorist)", tr.T("guns_menu.title", tr.T("teams.terrorist")))
	assert.Equal(t, "T FullBuyPrimary preference set to AK-47.",
		tr.T("weapon_preference.set_preference", "T", "FullBuyPrimary", "AK-47"))
	assert.True(t, tr.Has("menu.exit"))
}

func TestLoad_LocalizedWithFallback(t *testing.T) {
	tr, err := Load("pt-BR")
	require.NoError(t, err)

	assert.Equal(t, "pt-BR", tr.Locale())
	assert.Equal(t, "Sair", tr.T("menu.exit"))
	// not translated, falls back to en-US text
	assert.Equal(t, "Only VIPs can use this option.", tr.T("weapon_preference.only_vip_can_use"))
}

func TestLoad_UnknownLocaleUsesBase(t *testing.T) {
	for _, locale := range []string{"de-DE", "", "not a tag"} {
		tr, err := Load(locale)
		require.NoError(t, err, locale)
		assert.Equal(t, "Exit", tr.T("menu.exit"), locale)
	}
}

func TestT_UnknownKey(t *testing.T) {
	tr, err := Load("en-US")
	require.NoError(t, err)
	assert.Equal(t, "no.such.key", tr.T("no.such.key"))
	assert.False(t, tr.Has("no.such.key"))
}

func TestLoadFromFS_Errors(t *testing.T) {
	tests := []struct {
		name string
		fs   fstest.MapFS
	}{
		{"empty", fstest.MapFS{}},
		{"no base", fstest.MapFS{"locales/pt-BR.yaml": {Data: []byte("locale: pt-BR\nmessages:\n  a: b\n")}}},
		{"missing locale", fstest.MapFS{"locales/en-US.yaml": {Data: []byte("messages:\n  a: b\n")}}},
		{"bad yaml", fstest.MapFS{"locales/en-US.yaml": {Data: []byte("locale: [")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFS(tt.fs, "en-US")
			assert.Error(t, err)
		})
	}
}

func TestKeys_AllDefined(t *testing.T) {
	tr, err := Load(BaseLocale)
	require.NoError(t, err)

	var keys []string
	for _, team := range core.PlayingTeams {
		keys = append(keys, TeamKey(team))
	}
	for _, round := range core.RoundTypes {
		keys = append(keys, RoundKey(round))
	}
	for _, category := range []core.AllocationType{core.FullBuyPrimary, core.HalfBuyPrimary, core.Secondary, core.PistolRound, core.Preferred} {
		keys = append(keys, CategoryKey(category))
	}
	for _, p := range core.EnemyStuffPreferences {
		keys = append(keys, EnemyStuffChoiceKey(p), EnemyStuffResultKey(p))
	}
	for _, key := range keys {
		assert.True(t, tr.Has(key), key)
	}
	assert.Equal(t, "Counter-Terrorist", tr.T(TeamKey(core.TeamCounterTerrorist)))
}
