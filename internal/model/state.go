package model

import "time"

// MaxHistoryPoints caps every history series; older points are evicted
// first.
const MaxHistoryPoints = 100

// IndexPoint is one observation in the headline-index history series.
type IndexPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     int       `json:"value"`
	Change    *float64  `json:"change,omitempty"`
	ChangePct *float64  `json:"change_percentage,omitempty"`
}

// RatePoint is one observation in the composite-rate history series.
type RatePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     int       `json:"value"`
}

// ClassRatePoint is one observation in the per-class rate history series.
// A class with no extracted rate in that cycle is simply absent.
type ClassRatePoint struct {
	Timestamp time.Time           `json:"timestamp"`
	Rates     map[VesselClass]int `json:"rates"`
}

// PersistentState is the collector's durable bookkeeping. It is rewritten
// wholesale alongside the snapshot collection on every successful cycle and
// survives process restarts.
type PersistentState struct {
	LastUpdate       *time.Time       `json:"last_update"`
	TotalReports     int              `json:"total_entries"`
	UpdateCount      int              `json:"update_count"`
	LastError        string           `json:"last_error,omitempty"`
	IndexHistory     []IndexPoint     `json:"bdi_history"`
	CompositeHistory []RatePoint      `json:"p5_history"`
	ClassRateHistory []ClassRatePoint `json:"bulk_rates_history"`
}
