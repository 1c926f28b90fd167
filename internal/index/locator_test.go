package index

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sealane-research/roundup-cli/internal/model"
)

func TestLocate(t *testing.T) {
	now := time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC)
	entries := []model.ReportDescriptor{
		{Title: "Dry Bulk Report - Week 27", Date: "4 Jul 2025", CategoryID: "dry", Link: "/w27"},
		{Title: "Tanker Report - Week 27", Date: "4 Jul 2025", CategoryID: "tanker", Link: "/t27"},
		{Title: "Dry Bulk Report - Week 52", Date: "27 Dec 2024", CategoryID: "dry", Link: "/w52"},
		{Title: "Dry Bulk Report - Week 26", Date: "27 Jun 2025", CategoryID: "dry", Link: "/w26"},
	}

	got := Locate(entries, "dry", 0, now)
	assert.Equal(t, []string{"/w27", "/w26"}, links(got))
}

func TestLocate_ExplicitYear(t *testing.T) {
	now := time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC)
	entries := []model.ReportDescriptor{
		{Title: "Dry Bulk Report - Week 52", Date: "27 Dec 2024", CategoryID: "dry", Link: "/w52"},
		{Title: "Dry Bulk Report - Week 26", Date: "27 Jun 2025", CategoryID: "dry", Link: "/w26"},
	}

	got := Locate(entries, "dry", 2024, now)
	assert.Equal(t, []string{"/w52"}, links(got))
}

func TestLocate_YearInTitleOnly(t *testing.T) {
	now := time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC)
	entries := []model.ReportDescriptor{
		{Title: "Dry Bulk 2025 Review - Week 1", Date: "last Friday", CategoryID: "dry", Link: "/w1"},
	}

	got := Locate(entries, "dry", 0, now)
	assert.Equal(t, []string{"/w1"}, links(got))
}

func TestLocate_NoMatches(t *testing.T) {
	now := time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC)
	got := Locate(nil, "dry", 0, now)
	assert.Empty(t, got)
}

func links(entries []model.ReportDescriptor) []string {
	var out []string
	for _, e := range entries {
		out = append(out, e.Link)
	}
	return out
}
