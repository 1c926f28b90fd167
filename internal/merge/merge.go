// Package merge folds a freshly extracted snapshot into the previously
// persisted one without ever losing or overwriting captured records.
package merge

import (
	"time"

	"go.uber.org/zap"

	"github.com/sealane-research/roundup-cli/internal/model"
)

// Snapshots merges an incoming snapshot into the existing one. Records are
// deduplicated by identity with first-seen-wins semantics: a record already
// present is never overwritten, even if the upstream report was revised.
// The result is the incoming snapshot carrying the merged record list and a
// refreshed capture timestamp. Merging the same snapshot twice contributes
// zero additional records.
func Snapshots(existing *model.MarketSnapshot, incoming model.MarketSnapshot, now time.Time) model.MarketSnapshot {
	if existing == nil {
		incoming.ScrapedAt = now
		return incoming
	}

	seen := make(map[string]bool, len(existing.Reports))
	merged := make([]model.WeeklyReportRecord, 0, len(existing.Reports)+len(incoming.Reports))
	for _, r := range existing.Reports {
		if seen[r.Identity()] {
			continue
		}
		seen[r.Identity()] = true
		merged = append(merged, r)
	}

	added := 0
	for _, r := range incoming.Reports {
		if seen[r.Identity()] {
			continue
		}
		seen[r.Identity()] = true
		merged = append(merged, r)
		added++
	}

	zap.L().Debug("merge: snapshots combined",
		zap.Int("existing", len(existing.Reports)),
		zap.Int("incoming", len(incoming.Reports)),
		zap.Int("added", added),
	)

	incoming.Reports = merged
	incoming.ScrapedAt = now
	return incoming
}

// Added counts how many incoming records are not yet present in the
// existing snapshot, without performing the merge.
func Added(existing *model.MarketSnapshot, incoming model.MarketSnapshot) int {
	if existing == nil {
		return len(incoming.Reports)
	}
	seen := make(map[string]bool, len(existing.Reports))
	for _, r := range existing.Reports {
		seen[r.Identity()] = true
	}
	added := 0
	for _, r := range incoming.Reports {
		if !seen[r.Identity()] {
			seen[r.Identity()] = true
			added++
		}
	}
	return added
}
