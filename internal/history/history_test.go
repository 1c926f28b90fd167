package history

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sealane-research/roundup-cli/internal/model"
)

func TestRecord_AppendsPresentMetricsOnly(t *testing.T) {
	var state model.PersistentState
	p5 := 14000

	Record(&state, model.MarketSnapshot{
		ScrapedAt:     time.Now(),
		Index:         &model.IndexReading{Value: 1500},
		CompositeRate: &p5,
	})

	assert.Len(t, state.IndexHistory, 1)
	assert.Len(t, state.CompositeHistory, 1)
	assert.Empty(t, state.ClassRateHistory)
}

func TestRecord_SkipsAbsentMetrics(t *testing.T) {
	var state model.PersistentState

	Record(&state, model.MarketSnapshot{ScrapedAt: time.Now()})

	assert.Empty(t, state.IndexHistory)
	assert.Empty(t, state.CompositeHistory)
	assert.Empty(t, state.ClassRateHistory)
}

func TestRecord_BoundedSeries(t *testing.T) {
	var state model.PersistentState
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < model.MaxHistoryPoints+20; i++ {
		Record(&state, model.MarketSnapshot{
			ScrapedAt: base.Add(time.Duration(i) * time.Hour),
			Index:     &model.IndexReading{Value: 1000 + i},
		})
	}

	require.Len(t, state.IndexHistory, model.MaxHistoryPoints)
	// oldest evicted first; series stays chronological
	assert.Equal(t, 1020, state.IndexHistory[0].Value)
	assert.Equal(t, 1000+model.MaxHistoryPoints+19, state.IndexHistory[len(state.IndexHistory)-1].Value)
	for i := 1; i < len(state.IndexHistory); i++ {
		assert.True(t, state.IndexHistory[i].Timestamp.After(state.IndexHistory[i-1].Timestamp))
	}
}

func TestTrend_Up(t *testing.T) {
	now := time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC)
	points := []model.IndexPoint{
		{Timestamp: now.AddDate(0, 0, -3), Value: 1000},
		{Timestamp: now.AddDate(0, 0, -2), Value: 1100},
		{Timestamp: now.AddDate(0, 0, -1), Value: 1050},
	}

	got := Trend(points, 30, now)

	assert.Equal(t, TrendUp, got.Trend)
	assert.Equal(t, 3, got.DataPoints)
	assert.Equal(t, 50, *got.Change)
	assert.Equal(t, 5.0, *got.ChangePct)
}

func TestTrend_Down(t *testing.T) {
	now := time.Now()
	points := []model.IndexPoint{
		{Timestamp: now.Add(-2 * time.Hour), Value: 1100},
		{Timestamp: now.Add(-1 * time.Hour), Value: 1000},
	}

	got := Trend(points, 7, now)
	assert.Equal(t, TrendDown, got.Trend)
	assert.Equal(t, -100, *got.Change)
}

func TestTrend_Stable(t *testing.T) {
	now := time.Now()
	points := []model.IndexPoint{
		{Timestamp: now.Add(-2 * time.Hour), Value: 1000},
		{Timestamp: now.Add(-1 * time.Hour), Value: 1000},
	}

	got := Trend(points, 7, now)
	assert.Equal(t, TrendStable, got.Trend)
}

func TestTrend_InsufficientData(t *testing.T) {
	now := time.Now()

	got := Trend(nil, 30, now)
	assert.Equal(t, TrendInsufficient, got.Trend)
	assert.Equal(t, 0, got.DataPoints)

	// points outside the window don't count
	old := []model.IndexPoint{
		{Timestamp: now.AddDate(0, 0, -40), Value: 900},
		{Timestamp: now.AddDate(0, 0, -35), Value: 950},
		{Timestamp: now.AddDate(0, 0, -1), Value: 1000},
	}
	got = Trend(old, 30, now)
	assert.Equal(t, TrendInsufficient, got.Trend)
	assert.Equal(t, 1, got.DataPoints)
}

func TestTruncateKeepsTail(t *testing.T) {
	series := make([]model.RatePoint, 0, 110)
	for i := 0; i < 110; i++ {
		series = append(series, model.RatePoint{Value: i})
	}
	out := truncate(series)
	require.Len(t, out, model.MaxHistoryPoints)
	assert.Equal(t, 10, out[0].Value)
}

func ExampleTrend() {
	now := time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC)
	points := []model.IndexPoint{
		{Timestamp: now.AddDate(0, 0, -2), Value: 1000},
		{Timestamp: now.AddDate(0, 0, -1), Value: 1100},
	}
	fmt.Println(Trend(points, 30, now).Trend)
	// Output: up
}
