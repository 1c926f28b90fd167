package roundup

import (
	"math"
	"time"

	"github.com/sealane-research/roundup-cli/internal/model"
)

// SeriesSummary aggregates one metric series.
type SeriesSummary struct {
	Current *int     `json:"current,omitempty"`
	Min     *int     `json:"min,omitempty"`
	Max     *int     `json:"max,omitempty"`
	Average *float64 `json:"average,omitempty"`
}

// QualitySummary counts snapshots per complete metric group.
type QualitySummary struct {
	TotalEntries       int `json:"total_entries"`
	CompleteIndex      int `json:"complete_bdi"`
	CompleteComposite  int `json:"complete_p5"`
	CompleteClassRates int `json:"complete_bulk_rates"`
}

// Statistics describes the collected dataset.
type Statistics struct {
	TotalEntries     int                                 `json:"total_entries"`
	LastUpdate       *time.Time                          `json:"last_update"`
	UpdateCount      int                                 `json:"update_count"`
	Quality          QualitySummary                      `json:"data_quality_summary"`
	IndexSummary     SeriesSummary                       `json:"bdi_summary"`
	CompositeSummary SeriesSummary                       `json:"p5_summary"`
	ClassSummaries   map[model.VesselClass]SeriesSummary `json:"bulk_rates_summary,omitempty"`
}

// Statistics aggregates the persisted collection and history series.
func (s *Scraper) Statistics() Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Statistics{
		TotalEntries: s.totalRecords(),
		LastUpdate:   s.state.LastUpdate,
		UpdateCount:  s.state.UpdateCount,
	}

	stats.Quality.TotalEntries = len(s.collection)
	for _, snapshot := range s.collection {
		if snapshot.Index != nil {
			stats.Quality.CompleteIndex++
		}
		if snapshot.CompositeRate != nil {
			stats.Quality.CompleteComposite++
		}
		if len(snapshot.ClassRates) > 0 {
			stats.Quality.CompleteClassRates++
		}
	}

	var indexValues []int
	for _, p := range s.state.IndexHistory {
		indexValues = append(indexValues, p.Value)
	}
	stats.IndexSummary = summarize(indexValues)

	var compositeValues []int
	for _, p := range s.state.CompositeHistory {
		compositeValues = append(compositeValues, p.Value)
	}
	stats.CompositeSummary = summarize(compositeValues)

	for _, class := range model.Classes() {
		var values []int
		for _, p := range s.state.ClassRateHistory {
			if v, ok := p.Rates[class]; ok {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}
		if stats.ClassSummaries == nil {
			stats.ClassSummaries = map[model.VesselClass]SeriesSummary{}
		}
		stats.ClassSummaries[class] = summarize(values)
	}

	return stats
}

func summarize(values []int) SeriesSummary {
	if len(values) == 0 {
		return SeriesSummary{}
	}

	current := values[len(values)-1]
	min, max, sum := values[0], values[0], 0
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	avg := math.Round(float64(sum)/float64(len(values))*100) / 100

	return SeriesSummary{Current: &current, Min: &min, Max: &max, Average: &avg}
}
