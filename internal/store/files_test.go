package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sealane-research/roundup-cli/internal/model"
)

func TestFiles_CollectionRoundTrip(t *testing.T) {
	files, err := NewFiles(t.TempDir())
	require.NoError(t, err)

	// missing file reads as empty
	collection, err := files.LoadCollection()
	require.NoError(t, err)
	assert.Empty(t, collection)

	snapshot := model.MarketSnapshot{
		ScrapedAt: time.Date(2025, 7, 4, 12, 0, 0, 0, time.UTC),
		SourceURL: "https://example.com",
		Method:    "plain",
		Reports: []model.WeeklyReportRecord{
			{Week: "27", Date: "4 Jul 2025", Category: "dry", Capesize: "firm week"},
		},
	}
	require.NoError(t, files.SaveCollection([]model.MarketSnapshot{snapshot}))

	collection, err = files.LoadCollection()
	require.NoError(t, err)
	require.Len(t, collection, 1)
	assert.Equal(t, snapshot.Reports, collection[0].Reports)
	assert.True(t, snapshot.ScrapedAt.Equal(collection[0].ScrapedAt))
}

func TestFiles_StateRoundTrip(t *testing.T) {
	files, err := NewFiles(t.TempDir())
	require.NoError(t, err)

	state, err := files.LoadState()
	require.NoError(t, err)
	assert.Nil(t, state.LastUpdate)
	assert.Zero(t, state.UpdateCount)

	now := time.Now().UTC().Truncate(time.Second)
	state.LastUpdate = &now
	state.UpdateCount = 3
	state.TotalReports = 12
	state.IndexHistory = []model.IndexPoint{{Timestamp: now, Value: 1500}}
	require.NoError(t, files.SaveState(state))

	loaded, err := files.LoadState()
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.UpdateCount)
	assert.Equal(t, 12, loaded.TotalReports)
	require.Len(t, loaded.IndexHistory, 1)
	assert.Equal(t, 1500, loaded.IndexHistory[0].Value)
}

func TestFiles_CorruptCollection(t *testing.T) {
	dir := t.TempDir()
	files, err := NewFiles(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "market_data.json"), []byte("{not json"), 0o644))

	_, err = files.LoadCollection()
	assert.Error(t, err)
}

func TestFiles_NoTempLeftovers(t *testing.T) {
	dir := t.TempDir()
	files, err := NewFiles(dir)
	require.NoError(t, err)

	require.NoError(t, files.SaveState(model.PersistentState{UpdateCount: 1}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "state.json", entries[0].Name())
}
