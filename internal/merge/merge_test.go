package merge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sealane-research/roundup-cli/internal/model"
)

func record(week, date, category, capesize string) model.WeeklyReportRecord {
	return model.WeeklyReportRecord{Week: week, Date: date, Category: category, Capesize: capesize}
}

func TestSnapshots_NoExisting(t *testing.T) {
	now := time.Date(2025, 7, 4, 12, 0, 0, 0, time.UTC)
	incoming := model.MarketSnapshot{Reports: []model.WeeklyReportRecord{record("27", "4 Jul 2025", "dry", "x")}}

	got := Snapshots(nil, incoming, now)

	assert.Len(t, got.Reports, 1)
	assert.Equal(t, now, got.ScrapedAt)
}

func TestSnapshots_FirstSeenWins(t *testing.T) {
	now := time.Now()
	existing := model.MarketSnapshot{Reports: []model.WeeklyReportRecord{
		record("26", "27 Jun 2025", "dry", "original"),
	}}
	incoming := model.MarketSnapshot{Reports: []model.WeeklyReportRecord{
		record("26", "27 Jun 2025", "dry", "revised"),
		record("27", "4 Jul 2025", "dry", "new"),
	}}

	got := Snapshots(&existing, incoming, now)

	assert.Len(t, got.Reports, 2)
	assert.Equal(t, "original", got.Reports[0].Capesize)
	assert.Equal(t, "new", got.Reports[1].Capesize)
}

func TestSnapshots_Idempotent(t *testing.T) {
	now := time.Now()
	incoming := model.MarketSnapshot{Reports: []model.WeeklyReportRecord{
		record("26", "27 Jun 2025", "dry", "a"),
		record("27", "4 Jul 2025", "dry", "b"),
	}}

	once := Snapshots(nil, incoming, now)
	twice := Snapshots(&once, incoming, now)

	assert.Equal(t, once.Reports, twice.Reports)
}

func TestSnapshots_UniqueIdentities(t *testing.T) {
	now := time.Now()
	existing := model.MarketSnapshot{Reports: []model.WeeklyReportRecord{
		record("26", "27 Jun 2025", "dry", "a"),
		record("26", "27 Jun 2025", "dry", "dup in store"),
	}}
	incoming := model.MarketSnapshot{Reports: []model.WeeklyReportRecord{
		record("26", "27 Jun 2025", "dry", "again"),
	}}

	got := Snapshots(&existing, incoming, now)

	seen := map[string]bool{}
	for _, r := range got.Reports {
		assert.False(t, seen[r.Identity()], "duplicate identity %s", r.Identity())
		seen[r.Identity()] = true
	}
	assert.Len(t, got.Reports, 1)
}

func TestAdded(t *testing.T) {
	existing := model.MarketSnapshot{Reports: []model.WeeklyReportRecord{
		record("26", "27 Jun 2025", "dry", "a"),
	}}
	incoming := model.MarketSnapshot{Reports: []model.WeeklyReportRecord{
		record("26", "27 Jun 2025", "dry", "a"),
		record("27", "4 Jul 2025", "dry", "b"),
		record("27", "4 Jul 2025", "dry", "b again"),
	}}

	assert.Equal(t, 1, Added(&existing, incoming))
	assert.Equal(t, 3, Added(nil, incoming))
}
