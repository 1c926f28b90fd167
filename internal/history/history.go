// Package history maintains the bounded metric series used for trend
// queries.
package history

import (
	"math"
	"time"

	"github.com/sealane-research/roundup-cli/internal/model"
)

// Record appends the snapshot's scalar metrics to their series inside
// state. A metric absent from the snapshot is skipped, never appended as a
// zero. Every series is truncated to its most recent MaxHistoryPoints
// entries afterwards.
func Record(state *model.PersistentState, snapshot model.MarketSnapshot) {
	if snapshot.Index != nil && snapshot.Index.Value != 0 {
		state.IndexHistory = append(state.IndexHistory, model.IndexPoint{
			Timestamp: snapshot.ScrapedAt,
			Value:     snapshot.Index.Value,
			Change:    snapshot.Index.Change,
			ChangePct: snapshot.Index.ChangePct,
		})
		state.IndexHistory = truncate(state.IndexHistory)
	}

	if snapshot.CompositeRate != nil {
		state.CompositeHistory = append(state.CompositeHistory, model.RatePoint{
			Timestamp: snapshot.ScrapedAt,
			Value:     *snapshot.CompositeRate,
		})
		state.CompositeHistory = truncate(state.CompositeHistory)
	}

	if len(snapshot.ClassRates) > 0 {
		rates := make(map[model.VesselClass]int, len(snapshot.ClassRates))
		for class, rate := range snapshot.ClassRates {
			rates[class] = rate
		}
		state.ClassRateHistory = append(state.ClassRateHistory, model.ClassRatePoint{
			Timestamp: snapshot.ScrapedAt,
			Rates:     rates,
		})
		state.ClassRateHistory = truncate(state.ClassRateHistory)
	}
}

func truncate[T any](series []T) []T {
	if len(series) > model.MaxHistoryPoints {
		series = series[len(series)-model.MaxHistoryPoints:]
	}
	return series
}

// TrendResult describes the index movement over a query window.
type TrendResult struct {
	Trend      string   `json:"trend"`
	DataPoints int      `json:"data_points"`
	StartValue *int     `json:"start_value,omitempty"`
	EndValue   *int     `json:"end_value,omitempty"`
	Change     *int     `json:"change,omitempty"`
	ChangePct  *float64 `json:"change_percentage,omitempty"`
	PeriodDays int      `json:"period_days,omitempty"`
}

const (
	TrendUp           = "up"
	TrendDown         = "down"
	TrendStable       = "stable"
	TrendInsufficient = "insufficient_data"
)

// Trend computes the index direction over the last days of history. Fewer
// than two points in the window reads as insufficient data.
func Trend(points []model.IndexPoint, days int, now time.Time) TrendResult {
	cutoff := now.AddDate(0, 0, -days)
	var values []int
	for _, p := range points {
		if p.Timestamp.After(cutoff) && p.Value != 0 {
			values = append(values, p.Value)
		}
	}

	if len(values) < 2 {
		return TrendResult{Trend: TrendInsufficient, DataPoints: len(values)}
	}

	first, last := values[0], values[len(values)-1]
	trend := TrendStable
	switch {
	case last > first:
		trend = TrendUp
	case last < first:
		trend = TrendDown
	}

	change := last - first
	var pct float64
	if first != 0 {
		pct = math.Round(float64(change)/float64(first)*100*100) / 100
	}

	return TrendResult{
		Trend:      trend,
		DataPoints: len(values),
		StartValue: &first,
		EndValue:   &last,
		Change:     &change,
		ChangePct:  &pct,
		PeriodDays: days,
	}
}
