// Package model defines the domain types shared across the roundup pipeline.
package model

import (
	"fmt"
	"strings"
	"time"
)

// VesselClass is one of the four fixed dry-bulk ship-size categories.
type VesselClass string

const (
	ClassCapesize         VesselClass = "capesize"
	ClassPanamax          VesselClass = "panamax"
	ClassUltramaxSupramax VesselClass = "ultramax_supramax"
	ClassHandysize        VesselClass = "handysize"
)

// Classes returns the tracked vessel classes in descending size order.
func Classes() []VesselClass {
	return []VesselClass{ClassCapesize, ClassPanamax, ClassUltramaxSupramax, ClassHandysize}
}

// ReportDescriptor is one entry from the upstream report index. Immutable
// once created. Category is the display label carried into persisted
// records; CategoryID is the stable key the collection window filters on.
type ReportDescriptor struct {
	Title      string `json:"title"`
	Date       string `json:"date"`
	Category   string `json:"category"`
	CategoryID string `json:"category_id"`
	Link       string `json:"link"`
}

// WeekLabel parses the week identifier out of the report title. Titles encode
// the week as a trailing "Week NN" suffix; anything else yields "".
func (d ReportDescriptor) WeekLabel() string {
	const marker = "Week "
	idx := strings.LastIndex(d.Title, marker)
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(d.Title[idx+len(marker):])
}

// Identity is the composite dedup key for the report this descriptor points
// at: week label, publication date string, and category.
func (d ReportDescriptor) Identity() string {
	return fmt.Sprintf("%s_%s_%s", d.WeekLabel(), d.Date, d.Category)
}

// WeeklyReportRecord is one fully extracted weekly report: descriptor
// metadata plus the cleaned per-class section text.
type WeeklyReportRecord struct {
	Week             string `json:"week_number"`
	Date             string `json:"date_report"`
	Category         string `json:"category"`
	Link             string `json:"link_report"`
	Capesize         string `json:"capesize_content"`
	Panamax          string `json:"panamax_content"`
	UltramaxSupramax string `json:"ultramax_supramax_content"`
	Handysize        string `json:"handysize_content"`
}

// Identity is the composite dedup key; no two records in a persisted
// collection may share it.
func (r WeeklyReportRecord) Identity() string {
	return fmt.Sprintf("%s_%s_%s", r.Week, r.Date, r.Category)
}

// Section returns the extracted text for the given vessel class.
func (r WeeklyReportRecord) Section(class VesselClass) string {
	switch class {
	case ClassCapesize:
		return r.Capesize
	case ClassPanamax:
		return r.Panamax
	case ClassUltramaxSupramax:
		return r.UltramaxSupramax
	case ClassHandysize:
		return r.Handysize
	}
	return ""
}

// SetSection stores the extracted text for the given vessel class.
func (r *WeeklyReportRecord) SetSection(class VesselClass, text string) {
	switch class {
	case ClassCapesize:
		r.Capesize = text
	case ClassPanamax:
		r.Panamax = text
	case ClassUltramaxSupramax:
		r.UltramaxSupramax = text
	case ClassHandysize:
		r.Handysize = text
	}
}

// PeriodRate is a time-charter quote extracted from a two-group pattern
// match: the charter period text and the daily rate.
type PeriodRate struct {
	Period string `json:"period"`
	Rate   int    `json:"rate"`
}

// IndexReading is the headline index observation for one snapshot. All
// fields beyond Value are best-effort.
type IndexReading struct {
	Value      int            `json:"current_value"`
	Change     *float64       `json:"change,omitempty"`
	ChangePct  *float64       `json:"change_percentage,omitempty"`
	Date       string         `json:"date,omitempty"`
	Components map[string]int `json:"components,omitempty"`
}

// CoverageSummary describes which weeks and categories a snapshot covers.
type CoverageSummary struct {
	TotalReports int      `json:"total_reports"`
	Weeks        []string `json:"weeks_covered"`
	Categories   []string `json:"categories"`
}

// MarketSnapshot is the output of one full extraction cycle. Exactly one
// current snapshot is persisted at a time; new cycles merge into it.
type MarketSnapshot struct {
	ScrapedAt     time.Time            `json:"scraped_at"`
	SourceURL     string               `json:"source_url"`
	Method        string               `json:"method"`
	Reports       []WeeklyReportRecord `json:"weekly_reports"`
	Index         *IndexReading        `json:"bdi,omitempty"`
	CompositeRate *int                 `json:"p5_value,omitempty"`
	TimeCharter   *PeriodRate          `json:"time_charter,omitempty"`
	ClassRates    map[VesselClass]int  `json:"bulk_rates,omitempty"`
	Routes        map[string]int       `json:"routes,omitempty"`
	Sentiment     string               `json:"market_sentiment,omitempty"`
	Summary       *CoverageSummary     `json:"weekly_reports_summary,omitempty"`
	DataAgeHours  *float64             `json:"data_age_hours,omitempty"`
}

// QualityScore counts the complete metric groups present on the snapshot:
// headline index, composite rate, and per-class rates. Range 0-3.
func (s MarketSnapshot) QualityScore() int {
	score := 0
	if s.Index != nil {
		score++
	}
	if s.CompositeRate != nil {
		score++
	}
	if len(s.ClassRates) > 0 {
		score++
	}
	return score
}

// ClassRate returns the rate for a class and whether one was extracted.
func (s MarketSnapshot) ClassRate(class VesselClass) (int, bool) {
	r, ok := s.ClassRates[class]
	return r, ok
}

// Enrich attaches the coverage summary and data-age metadata derived from
// the snapshot's own contents.
func (s *MarketSnapshot) Enrich(now time.Time) {
	if len(s.Reports) > 0 {
		weeks := make([]string, 0, len(s.Reports))
		seen := map[string]bool{}
		var categories []string
		for _, r := range s.Reports {
			weeks = append(weeks, r.Week)
			if !seen[r.Category] {
				seen[r.Category] = true
				categories = append(categories, r.Category)
			}
		}
		s.Summary = &CoverageSummary{
			TotalReports: len(s.Reports),
			Weeks:        weeks,
			Categories:   categories,
		}
	}
	if !s.ScrapedAt.IsZero() {
		age := now.Sub(s.ScrapedAt).Hours()
		s.DataAgeHours = &age
	}
}
