// Package lineup scrapes the port authority vessel movement feed and keeps
// the calls matching the tracked keyword groups.
package lineup

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Vessel is one port call from the movement feed. Field names follow the
// upstream service's JSON contract.
type Vessel struct {
	Name        string `json:"nOM_NAVIREField"`
	Type        string `json:"tYP_NAVIREField"`
	Operator    string `json:"oPERATEURField"`
	Provenance  string `json:"pROVField"`
	Situation   string `json:"sITUATIONField"`
	Consignee   string `json:"cONSIGNATAIREField"`
	CallNumber  string `json:"nUMERO_ESCALEField"`
	SituationAt string `json:"dATE_SITUATIONField"`

	ScrapedAt  time.Time     `json:"scraped_at"`
	ParsedDate *time.Time    `json:"parsed_date,omitempty"`
	Match      *MatchDetails `json:"filter_details,omitempty"`
}

// MatchDetails records which keywords qualified the vessel.
type MatchDetails struct {
	VesselTypes   []string `json:"vessel_type_keywords"`
	Operators     []string `json:"operator_keywords"`
	Ports         []string `json:"port_location_keywords"`
	GroupsMatched int      `json:"groups_matched"`
	Score         int      `json:"match_score"`
}

// Identity is the dedup key: vessel name plus call number.
func (v Vessel) Identity() string {
	return fmt.Sprintf("%s_%s", v.Name, v.CallNumber)
}

// SearchText joins the fields the matcher inspects.
func (v Vessel) SearchText() string {
	return strings.Join([]string{
		v.Name, v.Type, v.Operator, v.Provenance, v.Situation, v.Consignee,
	}, " ")
}

// Enrich stamps the capture time and decodes the feed's /Date(ms+zone)/
// situation timestamp when present.
func (v *Vessel) Enrich(now time.Time) {
	v.ScrapedAt = now

	raw := v.SituationAt
	if !strings.HasPrefix(raw, "/Date(") {
		return
	}
	raw = strings.TrimPrefix(raw, "/Date(")
	if end := strings.IndexAny(raw, "+-)"); end > 0 {
		raw = raw[:end]
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return
	}
	parsed := time.UnixMilli(ms)
	v.ParsedDate = &parsed
}
