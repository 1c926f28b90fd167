package lineup

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const (
	vesselsFile = "vessels.json"
	lineupState = "lineup_state.json"
)

// Feed supplies current port calls.
type Feed interface {
	Vessels(ctx context.Context) ([]Vessel, error)
	Endpoint() string
}

// State is the lineup scraper's durable bookkeeping.
type State struct {
	LastUpdate   *time.Time `json:"last_update"`
	TotalVessels int        `json:"total_vessels"`
	UpdateCount  int        `json:"update_count"`
	LastError    string     `json:"last_error,omitempty"`
}

// UpdateResult is the structured outcome of one lineup update.
type UpdateResult struct {
	Status       string     `json:"status"`
	Message      string     `json:"message"`
	NewVessels   int        `json:"new_vessels"`
	TotalVessels int        `json:"total_vessels"`
	DurationSecs float64    `json:"duration_seconds"`
	LastUpdate   *time.Time `json:"last_update,omitempty"`
}

// Scraper accumulates matched port calls across update cycles. Vessels are
// deduplicated by name plus call number; both files are rewritten wholesale
// on each successful cycle.
type Scraper struct {
	feed        Feed
	matcher     *Matcher
	dir         string
	minInterval time.Duration

	mu      sync.Mutex
	vessels []Vessel
	state   State

	now func() time.Time
}

// NewScraper loads previously accumulated vessels and state from dir.
func NewScraper(feed Feed, matcher *Matcher, dir string, minInterval time.Duration) (*Scraper, error) {
	if minInterval == 0 {
		minInterval = 5 * time.Minute
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "lineup: create data dir %s", dir)
	}

	s := &Scraper{
		feed:        feed,
		matcher:     matcher,
		dir:         dir,
		minInterval: minInterval,
		now:         time.Now,
	}
	if err := s.loadJSON(vesselsFile, &s.vessels); err != nil {
		return nil, err
	}
	if err := s.loadJSON(lineupState, &s.state); err != nil {
		return nil, err
	}
	return s, nil
}

// Update fetches the feed, filters it, and merges new calls into the
// accumulated set. Unforced updates inside the minimum interval are
// skipped.
func (s *Scraper) Update(ctx context.Context, force bool) UpdateResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.now()

	if !force && s.state.LastUpdate != nil && start.Sub(*s.state.LastUpdate) < s.minInterval {
		return UpdateResult{
			Status:       "skipped",
			Message:      "data is recent, skipping update",
			TotalVessels: len(s.vessels),
			LastUpdate:   s.state.LastUpdate,
		}
	}

	fetched, err := s.feed.Vessels(ctx)
	if err != nil {
		now := s.now()
		s.state.LastError = err.Error()
		s.state.LastUpdate = &now
		if saveErr := s.saveJSON(lineupState, s.state); saveErr != nil {
			zap.L().Error("lineup: persist error state failed", zap.Error(saveErr))
		}
		zap.L().Error("lineup: update failed", zap.Error(err))
		return UpdateResult{
			Status:       "error",
			Message:      err.Error(),
			TotalVessels: len(s.vessels),
			LastUpdate:   s.state.LastUpdate,
		}
	}

	matched := s.matcher.Filter(fetched)
	now := s.now()
	for i := range matched {
		matched[i].Enrich(now)
	}

	combined := append(append([]Vessel{}, s.vessels...), matched...)
	unique := dedupe(combined)
	added := len(unique) - len(s.vessels)

	s.vessels = unique
	s.state.LastUpdate = &now
	s.state.TotalVessels = len(unique)
	s.state.UpdateCount++
	s.state.LastError = ""

	if err := s.saveJSON(vesselsFile, s.vessels); err != nil {
		zap.L().Error("lineup: persist vessels failed", zap.Error(err))
	}
	if err := s.saveJSON(lineupState, s.state); err != nil {
		zap.L().Error("lineup: persist state failed", zap.Error(err))
	}

	duration := s.now().Sub(start).Seconds()
	zap.L().Info("lineup: update complete",
		zap.Int("new_vessels", added),
		zap.Int("total_vessels", len(unique)),
		zap.Float64("duration_secs", duration),
	)

	return UpdateResult{
		Status:       "success",
		Message:      "vessel data updated",
		NewVessels:   added,
		TotalVessels: len(unique),
		DurationSecs: math.Round(duration*100) / 100,
		LastUpdate:   s.state.LastUpdate,
	}
}

// dedupe keeps the first occurrence per identity.
func dedupe(vessels []Vessel) []Vessel {
	seen := make(map[string]bool, len(vessels))
	out := make([]Vessel, 0, len(vessels))
	for _, v := range vessels {
		if seen[v.Identity()] {
			continue
		}
		seen[v.Identity()] = true
		out = append(out, v)
	}
	return out
}

// Vessels returns the accumulated matched port calls.
func (s *Scraper) Vessels() []Vessel {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Vessel, len(s.vessels))
	copy(out, s.vessels)
	return out
}

// State returns a copy of the scraper state.
func (s *Scraper) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Scraper) loadJSON(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return eris.Wrapf(err, "lineup: read %s", name)
	}
	return eris.Wrapf(json.Unmarshal(data, v), "lineup: decode %s", name)
}

func (s *Scraper) saveJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrapf(err, "lineup: encode %s", name)
	}

	path := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return eris.Wrapf(err, "lineup: create temp for %s", name)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return eris.Wrapf(err, "lineup: write temp for %s", name)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return eris.Wrapf(err, "lineup: close temp for %s", name)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return eris.Wrapf(err, "lineup: replace %s", name)
	}
	return nil
}
