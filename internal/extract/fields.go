// Package extract recovers structured market values from report prose via
// ordered pattern batteries. For every field the patterns are tried in
// listed order and the first match wins; narrower patterns come first so
// broad fallbacks never shadow them. Absence of any field is a normal
// outcome, not an error.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sealane-research/roundup-cli/internal/model"
)

// ratePattern captures a dollar rate, optionally alongside a charter-period
// group. periodGroup 0 means the pattern has no period.
type ratePattern struct {
	re          *regexp.Regexp
	valueGroup  int
	periodGroup int
}

var indexPatterns = []ratePattern{
	{re: regexp.MustCompile(`(?i)BDI[:\s]*([0-9,]+)`), valueGroup: 1},
	{re: regexp.MustCompile(`(?i)Baltic\s+Dry\s+Index[:\s]*([0-9,]+)`), valueGroup: 1},
	{re: regexp.MustCompile(`(?i)([0-9,]+)\s*BDI`), valueGroup: 1},
	{re: regexp.MustCompile(`(?i)BDI\s*=\s*([0-9,]+)`), valueGroup: 1},
	{re: regexp.MustCompile(`(?i)([0-9,]+)\s*Baltic`), valueGroup: 1},
	{re: regexp.MustCompile(`(?i)Index[:\s]*([0-9,]+)`), valueGroup: 1},
}

var capesizePatterns = []ratePattern{
	{re: regexp.MustCompile(`(?i)BCI\s*5TC\s*(?:shedding|closing|at|reaching)\s*\$?([0-9,]+)`), valueGroup: 1},
	{re: regexp.MustCompile(`(?i)BCI\s*5TC[:\s]*\$?([0-9,]+)`), valueGroup: 1},
	{re: regexp.MustCompile(`(?i)5TC\s*(?:shedding|closing|at|reaching)\s*\$?([0-9,]+)`), valueGroup: 1},
	{re: regexp.MustCompile(`(?i)5TC\s*shedding\s*more\s*than\s*\$?[0-9,]+.*?closing\s*at\s*\$?([0-9,]+)`), valueGroup: 1},
	{re: regexp.MustCompile(`(?i)closing\s*at\s*\$?([0-9,]+)`), valueGroup: 1},
}

var panamaxPatterns = []ratePattern{
	{re: regexp.MustCompile(`(?i)BPI\s*5TC\s*(?:at|reaching|closing|around)\s*\$?([0-9,]+)`), valueGroup: 1},
	{re: regexp.MustCompile(`(?i)BPI\s*5TC[:\s]*\$?([0-9,]+)`), valueGroup: 1},
	{re: regexp.MustCompile(`(?i)Panamax\s*5TC\s*(?:at|reaching|closing|around)\s*\$?([0-9,]+)`), valueGroup: 1},
	{re: regexp.MustCompile(`(?i)(\d{1,2}[-,\s]\d{1,2})\s*months?\s*trading\s*(?:at|reported)\s*\$?([0-9,]+)`), valueGroup: 2, periodGroup: 1},
	{re: regexp.MustCompile(`(?i)(\d{1,2}[-,\s]\d{1,2})\s*months?\s*trading.*?reported.*?at\s*\$?([0-9,]+)`), valueGroup: 2, periodGroup: 1},
	{re: regexp.MustCompile(`(?i)(\d{1,2}[-,\s]\d{1,2})\s*months?\s*at\s*\$?([0-9,]+)`), valueGroup: 2, periodGroup: 1},
	{re: regexp.MustCompile(`(?i)Panamax.*?\$?([0-9,]+).*?reported.*?delivery`), valueGroup: 1},
}

var supramaxPatterns = []ratePattern{
	{re: regexp.MustCompile(`(?i)BSI\s*5TC\s*(?:at|reaching|closing|around)\s*\$?([0-9,]+)`), valueGroup: 1},
	{re: regexp.MustCompile(`(?i)BSI\s*5TC[:\s]*\$?([0-9,]+)`), valueGroup: 1},
	{re: regexp.MustCompile(`(?i)Supramax\s*5TC\s*(?:at|reaching|closing|around)\s*\$?([0-9,]+)`), valueGroup: 1},
	{re: regexp.MustCompile(`(?i)Supramax\s*5TC[:\s]*\$?([0-9,]+)`), valueGroup: 1},
	{re: regexp.MustCompile(`(?i)ultramax\s*(?:from|delivery|basis)\s*.*?\$?([0-9,]+)`), valueGroup: 1},
	{re: regexp.MustCompile(`(?i)supramax\s*(?:from|delivery|basis)\s*.*?\$?([0-9,]+)`), valueGroup: 1},
}

var handysizePatterns = []ratePattern{
	{re: regexp.MustCompile(`(?i)BHSI[:\s]*([0-9,]+)`), valueGroup: 1},
	{re: regexp.MustCompile(`(?i)Handysize\s*5TC\s*(?:at|reaching|closing|around)\s*\$?([0-9,]+)`), valueGroup: 1},
}

// changePatterns capture a point delta and/or percentage. The two-group
// form captures both at once.
var changePatterns = []ratePattern{
	{re: regexp.MustCompile(`([+-]?\d+(?:\.\d+)?)\s*\(([+-]?\d+(?:\.\d+)?)%\)`), valueGroup: 1, periodGroup: 2},
	{re: regexp.MustCompile(`([+-]?\d+(?:\.\d+)?)\s*%`), valueGroup: 1},
	{re: regexp.MustCompile(`([+-]?\d+(?:\.\d+)?)\s*points?`), valueGroup: 1},
	{re: regexp.MustCompile(`([+-]?\d+(?:\.\d+)?)\s*change`), valueGroup: 1},
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+\d{4})`),
	regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`),
	regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{4})`),
	regexp.MustCompile(`(\d{1,2}\s+(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{4})`),
}

var compositePatterns = []ratePattern{
	{re: regexp.MustCompile(`(?i)P5\s*rates?[:\s]*\$?([0-9,]+)`), valueGroup: 1},
	{re: regexp.MustCompile(`(?i)P5\s*around\s*\$?([0-9,]+)`), valueGroup: 1},
	{re: regexp.MustCompile(`(?i)P5[:\s]*([0-9,]+)`), valueGroup: 1},
	{re: regexp.MustCompile(`(?i)5TC[:\s]*([0-9,]+)`), valueGroup: 1},
	{re: regexp.MustCompile(`(?i)5\s*Route\s*TC[:\s]*([0-9,]+)`), valueGroup: 1},
}

var timeCharterPatterns = []ratePattern{
	{re: regexp.MustCompile(`(?i)(\d{1,2}[-,\s]\d{1,2})\s*months?\s*trading\s*(?:at|reported)\s*\$?([0-9,]+)`), valueGroup: 2, periodGroup: 1},
	{re: regexp.MustCompile(`(?i)(\d{1,2}[-,\s]\d{1,2})\s*months?\s*trading.*?reported.*?at\s*\$?([0-9,]+)`), valueGroup: 2, periodGroup: 1},
	{re: regexp.MustCompile(`(?i)(\d{1,2}[-,\s]\d{1,2})\s*months?\s*at\s*\$?([0-9,]+)`), valueGroup: 2, periodGroup: 1},
	{re: regexp.MustCompile(`(?i)(\d{1,2}[-,\s]\d{1,2})\s*months?\s*P5\s*at\s*\$?([0-9,]+)`), valueGroup: 2, periodGroup: 1},
}

var routeRe = regexp.MustCompile(`(?i)(C3|C4|C5|C7|C9|C10|C14|C16)[:\s]*\$?([0-9,]+)`)

var routeContextPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(C3|C4|C5|C7|C9|C10|C14|C16)\s*(?:rates?|bids?)\s*(?:around|at|of|below)\s*\$?([0-9,]+)`),
}

var classRatePatterns = map[model.VesselClass][]ratePattern{
	model.ClassCapesize:         {{re: regexp.MustCompile(`(?i)Capesize[:\s]*([0-9,]+)`), valueGroup: 1}},
	model.ClassPanamax:          {{re: regexp.MustCompile(`(?i)Panamax[:\s]*([0-9,]+)`), valueGroup: 1}},
	model.ClassUltramaxSupramax: {{re: regexp.MustCompile(`(?i)Supramax[:\s]*([0-9,]+)`), valueGroup: 1}, {re: regexp.MustCompile(`(?i)Ultramax[:\s]*([0-9,]+)`), valueGroup: 1}},
	model.ClassHandysize:        {{re: regexp.MustCompile(`(?i)Handysize[:\s]*([0-9,]+)`), valueGroup: 1}},
}

var sentimentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(bullish|bearish|neutral|positive|negative)`),
	regexp.MustCompile(`(?i)(strengthening|weakening|stable|volatile)`),
	regexp.MustCompile(`(?i)\b(up|down|flat|steady)\b`),
}

// parseInt strips thousands separators before conversion. A failure reads
// as "field not found".
func parseInt(s string) (int, bool) {
	n, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return 0, false
	}
	return n, true
}

// firstRate runs a battery and returns the first parseable match. A match
// whose value group fails conversion falls through to the next pattern.
func firstRate(patterns []ratePattern, text string) (rate int, period string, ok bool) {
	for _, p := range patterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		n, valid := parseInt(m[p.valueGroup])
		if !valid {
			continue
		}
		if p.periodGroup > 0 {
			return n, m[p.periodGroup], true
		}
		return n, "", true
	}
	return 0, "", false
}

// Index extracts the headline index reading: level, point/percentage change,
// effective date, and the per-class component rates that feed the composite
// formula. Returns nil when not even a level could be found.
func Index(text string) *model.IndexReading {
	reading := &model.IndexReading{Components: map[string]int{}}

	if v, _, ok := firstRate(indexPatterns, text); ok {
		reading.Value = v
	}
	if v, _, ok := firstRate(capesizePatterns, text); ok {
		reading.Components["bci_5tc"] = v
	}
	if v, _, ok := firstRate(panamaxPatterns, text); ok {
		reading.Components["bpi_5tc"] = v
	}
	if v, _, ok := firstRate(supramaxPatterns, text); ok {
		reading.Components["bsi_5tc"] = v
	}
	if v, _, ok := firstRate(handysizePatterns, text); ok {
		reading.Components["bhsi"] = v
	}

	for _, p := range changePatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if p.periodGroup > 0 {
			change, err1 := strconv.ParseFloat(m[p.valueGroup], 64)
			pct, err2 := strconv.ParseFloat(m[p.periodGroup], 64)
			if err1 != nil || err2 != nil {
				continue
			}
			reading.Change = &change
			reading.ChangePct = &pct
		} else {
			pct, err := strconv.ParseFloat(m[p.valueGroup], 64)
			if err != nil {
				continue
			}
			reading.ChangePct = &pct
		}
		break
	}

	for _, re := range datePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			reading.Date = m[1]
			break
		}
	}

	if reading.Value == 0 && len(reading.Components) == 0 {
		return nil
	}
	return reading
}

// Composite extracts the composite-rate figure and, when present, a
// structured time-charter quote.
func Composite(text string) (*int, *model.PeriodRate) {
	var value *int
	if v, _, ok := firstRate(compositePatterns, text); ok {
		value = &v
	}

	var tc *model.PeriodRate
	if v, period, ok := firstRate(timeCharterPatterns, text); ok && period != "" {
		tc = &model.PeriodRate{Period: period, Rate: v}
	}
	return value, tc
}

// Routes extracts every named route rate found in the text.
func Routes(text string) map[string]int {
	routes := map[string]int{}
	for _, m := range routeRe.FindAllStringSubmatch(text, -1) {
		if v, ok := parseInt(m[2]); ok {
			routes[strings.ToUpper(m[1])] = v
		}
	}
	for _, re := range routeContextPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if v, ok := parseInt(m[2]); ok {
				routes[strings.ToUpper(m[1])] = v
			}
		}
	}
	if len(routes) == 0 {
		return nil
	}
	return routes
}

// ClassRates extracts a headline rate per vessel class where one appears.
func ClassRates(text string) map[model.VesselClass]int {
	rates := map[model.VesselClass]int{}
	for _, class := range model.Classes() {
		if v, _, ok := firstRate(classRatePatterns[class], text); ok {
			rates[class] = v
		}
	}
	if len(rates) == 0 {
		return nil
	}
	return rates
}

// Sentiment extracts the first sentiment label found, lowercased. Empty
// when none matched.
func Sentiment(text string) string {
	for _, re := range sentimentPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.ToLower(m[1])
		}
	}
	return ""
}
