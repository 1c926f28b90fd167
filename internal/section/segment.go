// Package section splits a report's plain text into per-vessel-class
// subsections using header-position detection.
package section

import (
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sealane-research/roundup-cli/internal/model"
)

// headerPatterns locate class section headers. The combined
// Ultramax/Supramax heading is treated as a single label.
var headerPatterns = []struct {
	re    *regexp.Regexp
	class model.VesselClass
}{
	{regexp.MustCompile(`(?i)Capesize`), model.ClassCapesize},
	{regexp.MustCompile(`(?i)Panamax`), model.ClassPanamax},
	{regexp.MustCompile(`(?i)Ultramax.*?Supramax`), model.ClassUltramaxSupramax},
	{regexp.MustCompile(`(?i)Handysize`), model.ClassHandysize},
}

// endMarkers bound the last section when no further header follows.
var endMarkers = []string{"Previous", "Next", "Latest News", "Read More"}

// fallbackRule describes the secondary content-shape pass: a span starts at
// label, ends at the first stopper, and only counts when one of the cue
// words appears inside it.
type fallbackRule struct {
	class    model.VesselClass
	label    string
	cues     []string
	stoppers []string
}

var fallbackRules = []fallbackRule{
	{model.ClassCapesize, "capesize", []string{"market"}, []string{"panamax"}},
	{model.ClassPanamax, "panamax", []string{"excitement", "market"}, []string{"ultramax", "supramax"}},
	{model.ClassUltramaxSupramax, "ultramax", []string{"supramax", "despite"}, []string{"handysize"}},
	{model.ClassHandysize, "handysize", []string{"like", "sector"}, []string{"previous", "next"}},
}

// Segment splits report text into one cleaned section per vessel class. A
// class with no header yields an empty string, never an error. When no
// headers match at all, a broader content-shape pass fills in what it can.
func Segment(text string) map[model.VesselClass]string {
	sections := make(map[model.VesselClass]string, len(headerPatterns))
	for _, p := range headerPatterns {
		sections[p.class] = ""
	}

	type header struct {
		offset int
		class  model.VesselClass
	}
	var headers []header
	for _, p := range headerPatterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			headers = append(headers, header{loc[0], p.class})
		}
	}
	sort.Slice(headers, func(i, j int) bool { return headers[i].offset < headers[j].offset })

	for i, h := range headers {
		end := len(text)
		if i+1 < len(headers) {
			end = headers[i+1].offset
		} else {
			for _, marker := range endMarkers {
				if pos := strings.Index(text[h.offset:], marker); pos >= 0 && h.offset+pos < end {
					end = h.offset + pos
				}
			}
		}
		if content := Clean(text[h.offset:end]); content != "" {
			sections[h.class] = content
		}
	}

	empty := true
	for _, v := range sections {
		if v != "" {
			empty = false
			break
		}
	}
	if empty {
		zap.L().Debug("section: no headers found, trying content-shape pass")
		fallbackSegment(text, sections)
	}

	return sections
}

// fallbackSegment fills empty sections via the content-shape rules.
func fallbackSegment(text string, sections map[model.VesselClass]string) {
	lower := strings.ToLower(text)
	for _, rule := range fallbackRules {
		if sections[rule.class] != "" {
			continue
		}
		start := strings.Index(lower, rule.label)
		if start < 0 {
			continue
		}

		// Span runs from the label to the first stopper after it.
		end := len(text)
		tail := start + len(rule.label)
		for _, stop := range rule.stoppers {
			if pos := strings.Index(lower[tail:], stop); pos >= 0 && tail+pos < end {
				end = tail + pos
			}
		}

		spanLower := lower[start:end]
		for _, cue := range rule.cues {
			if strings.Contains(spanLower, cue) {
				if content := Clean(text[start:end]); content != "" {
					sections[rule.class] = content
				}
				break
			}
		}
	}
}
