package lineup

import (
	"os"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Keywords holds the three matching groups. Ports are mandatory; at least
// one of the other two groups must also match. A trailing * in a keyword
// matches any word continuation (VRAQUI* matches VRAQUIER).
type Keywords struct {
	VesselTypes []string `yaml:"vessel_types"`
	Operators   []string `yaml:"operators"`
	Ports       []string `yaml:"ports"`
}

// DefaultKeywords returns the built-in keyword groups.
func DefaultKeywords() Keywords {
	return Keywords{
		VesselTypes: []string{
			"VRAQUIER", "CHIMIQUIER", "TANKER", "PORTE CONTENEUR",
			"PASSAGERS", "GAZIER", "PETROLIER", "CONVENTIONEL",
			"BULKER", "CONTAINER", "PASSENGER", "CHEMICAL",
			"OIL", "GAS", "GENERAL CARGO", "RO-RO",
			"CARGO", "SHIP", "VESSEL", "NAVIRE", "BATEAU",
		},
		Operators: []string{
			"OCP", "MARSA MAROC", "SOMAPORT", "SOSIPO",
			"MASS CEREALES", "COMATAM", "AGEMAFRIC", "SOMASHIP",
			"CMA CGM MAROC", "INTERCONA", "NAXCO MAROC",
			"TARROS MAROC", "TRUST SHIPING", "MARITIME SHIP",
			"GLOBE MARINE", "MEDISHIP", "IDEA MAROC",
			"SOMATIME AGADIR", "SOCONAV", "SEATRADE",
			"SHIPPING", "MARINE", "NAVIGATION", "TRANSPORT",
		},
		Ports: []string{
			"CASABLANCA", "SAFI", "TANGER MED", "AGADIR", "JORF LASFAR",
			"MOHAMMEDIA", "KENITRA", "LARACHE", "TANGER", "NADOR",
			"VANCOUVER", "BEAUMONT", "NECOCHEA", "MALTA",
			"ALMERIA", "DUNKERQUE", "MARSEILLE", "VALENCIA", "GIBRALTAR",
			"CARTAGENA", "SANTAREM", "ROUEN", "LA SPEZIA",
			"MERSIN", "SALERNO", "GENOVA", "BARCELONA",
			"ALEXANDRIA", "HOUSTON", "AMBARLI", "GEBZE", "ALIAGA",
			"CONSTANTA", "DISTRIPARK", "FREEPORT",
			"MEDITERRANEAN", "ATLANTIC", "EUROPE", "AFRICA", "AMERICA",
		},
	}
}

// LoadKeywords reads keyword groups from a YAML file. Empty groups fall
// back to the built-in defaults.
func LoadKeywords(path string) (Keywords, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Keywords{}, eris.Wrapf(err, "lineup: read keywords %s", path)
	}

	var kw Keywords
	if err := yaml.Unmarshal(data, &kw); err != nil {
		return Keywords{}, eris.Wrapf(err, "lineup: decode keywords %s", path)
	}

	defaults := DefaultKeywords()
	if len(kw.VesselTypes) == 0 {
		kw.VesselTypes = defaults.VesselTypes
	}
	if len(kw.Operators) == 0 {
		kw.Operators = defaults.Operators
	}
	if len(kw.Ports) == 0 {
		kw.Ports = defaults.Ports
	}
	return kw, nil
}

type keywordPattern struct {
	keyword string
	re      *regexp.Regexp
}

// Matcher classifies vessels against the keyword groups.
type Matcher struct {
	vesselTypes []keywordPattern
	operators   []keywordPattern
	ports       []keywordPattern
}

// NewMatcher compiles the keyword groups.
func NewMatcher(kw Keywords) *Matcher {
	return &Matcher{
		vesselTypes: compileGroup(kw.VesselTypes),
		operators:   compileGroup(kw.Operators),
		ports:       compileGroup(kw.Ports),
	}
}

func compileGroup(keywords []string) []keywordPattern {
	patterns := make([]keywordPattern, 0, len(keywords))
	for _, kw := range keywords {
		upper := strings.ToUpper(strings.TrimSpace(kw))
		if upper == "" {
			continue
		}

		var expr string
		if strings.Contains(upper, "*") {
			expr = `\b` + strings.ReplaceAll(regexp.QuoteMeta(upper), `\*`, `\w*`) + `\b`
		} else {
			expr = `\b` + regexp.QuoteMeta(upper) + `\b`
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			zap.L().Warn("lineup: skipping uncompilable keyword", zap.String("keyword", kw))
			continue
		}
		patterns = append(patterns, keywordPattern{keyword: kw, re: re})
	}
	return patterns
}

func matchGroup(patterns []keywordPattern, text string) []string {
	var matched []string
	for _, p := range patterns {
		if p.re.MatchString(text) {
			matched = append(matched, p.keyword)
		}
	}
	return matched
}

// Match reports whether the vessel qualifies: a port keyword is mandatory
// and at least one of the vessel-type or operator groups must also hit.
func (m *Matcher) Match(v Vessel) (bool, MatchDetails) {
	text := strings.ToUpper(v.SearchText())

	details := MatchDetails{
		VesselTypes: matchGroup(m.vesselTypes, text),
		Operators:   matchGroup(m.operators, text),
		Ports:       matchGroup(m.ports, text),
	}
	details.Score = len(details.VesselTypes) + len(details.Operators) + len(details.Ports)
	for _, group := range [][]string{details.VesselTypes, details.Operators, details.Ports} {
		if len(group) > 0 {
			details.GroupsMatched++
		}
	}

	ok := len(details.Ports) > 0 && (len(details.VesselTypes) > 0 || len(details.Operators) > 0)
	return ok, details
}

// Filter returns the vessels that match, each annotated with its details.
func (m *Matcher) Filter(vessels []Vessel) []Vessel {
	var matched []Vessel
	for _, v := range vessels {
		ok, details := m.Match(v)
		if !ok {
			continue
		}
		v.Match = &details
		matched = append(matched, v)
	}
	zap.L().Info("lineup: vessels filtered",
		zap.Int("scanned", len(vessels)),
		zap.Int("matched", len(matched)),
	)
	return matched
}
