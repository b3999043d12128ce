package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitchquant/pitchquant/internal/model"
)

func TestReadFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.json")
	raw := `{
		"match_id": "pl-001",
		"home_team": "Liverpool",
		"away_team": "Sunderland",
		"league": "Premier League",
		"referee": "Michael Oliver",
		"odds": {"home": 1.55, "over_25": 2.1}
	}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	mctx, err := readFixture(path)
	require.NoError(t, err)
	assert.Equal(t, "pl-001", mctx.MatchID)
	assert.Equal(t, "Liverpool", mctx.HomeTeam)
	assert.Equal(t, 1.55, mctx.Odds[model.MarketHome])
	assert.Equal(t, 2.1, mctx.Odds[model.MarketOver25])
}

func TestReadFixture_MissingTeams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"match_id":"x","odds":{}}`), 0o644))

	_, err := readFixture(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "home_team")
}

func TestReadFixture_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

	_, err := readFixture(path)
	require.Error(t, err)
}

func TestReadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "picks.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"market_type":"home","odds":1.9}]`), 0o644))

	var picks []model.QuantPick
	require.NoError(t, readJSON(path, &picks))
	require.Len(t, picks, 1)
	assert.Equal(t, model.MarketHome, picks[0].MarketType)

	assert.Error(t, readJSON(filepath.Join(t.TempDir(), "absent.json"), &picks))
}
