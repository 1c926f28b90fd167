// Package roundup orchestrates the weekly report pipeline: locate reports,
// fetch and segment their content, extract market fields, and merge the
// result into the persisted collection.
package roundup

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sealane-research/roundup-cli/internal/extract"
	"github.com/sealane-research/roundup-cli/internal/history"
	"github.com/sealane-research/roundup-cli/internal/index"
	"github.com/sealane-research/roundup-cli/internal/merge"
	"github.com/sealane-research/roundup-cli/internal/model"
	"github.com/sealane-research/roundup-cli/internal/scrape"
	"github.com/sealane-research/roundup-cli/internal/section"
	"github.com/sealane-research/roundup-cli/internal/store"
)

// Status classifies an update cycle's outcome.
type Status string

const (
	StatusSuccess Status = "success"
	StatusSkipped Status = "skipped"
	StatusError   Status = "error"
)

// Phase is the scraper's position in the update cycle.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseFetching   Phase = "fetching"
	PhaseExtracting Phase = "extracting"
	PhaseMerging    Phase = "merging"
	PhasePersisted  Phase = "persisted"
	PhaseError      Phase = "error"
)

// Listing supplies report descriptors from the upstream index.
type Listing interface {
	Descriptors(ctx context.Context) ([]model.ReportDescriptor, error)
	Endpoint() string
}

// PageFetcher resolves a detail page into readable text.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*scrape.Result, error)
}

// Options configures the facade's collection window and update gating.
type Options struct {
	BaseURL          string
	Category         string
	Year             int
	MinInterval      time.Duration
	TrendDaysDefault int
}

// Scraper is the pipeline facade. Update cycles are serialized; queries are
// read-only and available regardless of update state.
type Scraper struct {
	listing Listing
	fetcher PageFetcher
	files   *store.Files
	cache   *store.PageCache // optional
	opts    Options

	group singleflight.Group

	mu         sync.Mutex
	phase      Phase
	collection []model.MarketSnapshot
	state      model.PersistentState

	now func() time.Time
}

// New builds a Scraper and loads the persisted collection and state. A store
// that cannot be read is the one fatal construction error.
func New(listing Listing, fetcher PageFetcher, files *store.Files, cache *store.PageCache, opts Options) (*Scraper, error) {
	if opts.MinInterval == 0 {
		opts.MinInterval = time.Hour
	}
	if opts.TrendDaysDefault == 0 {
		opts.TrendDaysDefault = 30
	}

	collection, err := files.LoadCollection()
	if err != nil {
		return nil, eris.Wrap(err, "roundup: load collection")
	}
	state, err := files.LoadState()
	if err != nil {
		return nil, eris.Wrap(err, "roundup: load state")
	}

	return &Scraper{
		listing:    listing,
		fetcher:    fetcher,
		files:      files,
		cache:      cache,
		opts:       opts,
		phase:      PhaseIdle,
		collection: collection,
		state:      state,
		now:        time.Now,
	}, nil
}

// UpdateResult is the structured outcome of one update cycle.
type UpdateResult struct {
	Status        Status     `json:"status"`
	Message       string     `json:"message"`
	NewEntries    int        `json:"new_entries"`
	TotalEntries  int        `json:"total_entries"`
	DurationSecs  float64    `json:"duration_seconds"`
	LastUpdate    *time.Time `json:"last_update,omitempty"`
	IndexValue    *int       `json:"bdi_value,omitempty"`
	CompositeRate *int       `json:"p5_value,omitempty"`
}

// Update runs one collection cycle. Concurrent callers share a single
// in-flight cycle; the recency gate skips unforced updates inside the
// minimum interval. Update never panics past this boundary: every outcome
// is a structured result.
func (s *Scraper) Update(ctx context.Context, force bool) UpdateResult {
	v, _, _ := s.group.Do("update", func() (any, error) {
		return s.update(ctx, force), nil
	})
	return v.(UpdateResult)
}

func (s *Scraper) update(ctx context.Context, force bool) UpdateResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.now()

	if !force && s.state.LastUpdate != nil && start.Sub(*s.state.LastUpdate) < s.opts.MinInterval {
		zap.L().Info("roundup: skipping update, data is recent",
			zap.Time("last_update", *s.state.LastUpdate),
		)
		return UpdateResult{
			Status:       StatusSkipped,
			Message:      "data is recent, skipping update",
			TotalEntries: s.totalRecords(),
			LastUpdate:   s.state.LastUpdate,
		}
	}

	defer func() { s.phase = PhaseIdle }()

	snapshot, err := s.collect(ctx)
	if err != nil {
		return s.fail(err, start)
	}

	s.phase = PhaseMerging
	var existing *model.MarketSnapshot
	if len(s.collection) > 0 {
		existing = &s.collection[0]
	}
	added := merge.Added(existing, snapshot)
	merged := merge.Snapshots(existing, snapshot, s.now())
	if len(s.collection) > 0 {
		s.collection[0] = merged
	} else {
		s.collection = []model.MarketSnapshot{merged}
	}

	now := s.now()
	s.state.LastUpdate = &now
	s.state.TotalReports = len(merged.Reports)
	s.state.UpdateCount++
	s.state.LastError = ""
	history.Record(&s.state, snapshot)

	s.phase = PhasePersisted
	if err := s.files.SaveCollection(s.collection); err != nil {
		// in-memory state stays consistent; the next cycle retries the write
		zap.L().Error("roundup: persist collection failed", zap.Error(err))
	}
	if err := s.files.SaveState(s.state); err != nil {
		zap.L().Error("roundup: persist state failed", zap.Error(err))
	}

	duration := s.now().Sub(start).Seconds()
	zap.L().Info("roundup: update complete",
		zap.Int("new_reports", added),
		zap.Int("total_reports", len(merged.Reports)),
		zap.Float64("duration_secs", duration),
	)

	result := UpdateResult{
		Status:        StatusSuccess,
		Message:       "market data updated",
		NewEntries:    added,
		TotalEntries:  len(merged.Reports),
		DurationSecs:  math.Round(duration*100) / 100,
		LastUpdate:    s.state.LastUpdate,
		CompositeRate: snapshot.CompositeRate,
	}
	if snapshot.Index != nil {
		result.IndexValue = &snapshot.Index.Value
	}
	return result
}

// collect runs the fetching and extracting phases and assembles the new
// snapshot. Individual page failures are logged and skipped; only a failed
// listing, or every single page failing, aborts the cycle.
func (s *Scraper) collect(ctx context.Context) (model.MarketSnapshot, error) {
	s.phase = PhaseFetching

	entries, err := s.listing.Descriptors(ctx)
	if err != nil {
		return model.MarketSnapshot{}, eris.Wrap(err, "roundup: fetch listing")
	}
	selected := index.Locate(entries, s.opts.Category, s.opts.Year, s.now())
	zap.L().Info("roundup: reports located",
		zap.Int("listed", len(entries)),
		zap.Int("selected", len(selected)),
	)

	snapshot := model.MarketSnapshot{
		ScrapedAt: s.now(),
		SourceURL: s.listing.Endpoint(),
		Method:    "json_api",
	}

	s.phase = PhaseExtracting
	var corpus strings.Builder
	for _, d := range selected {
		pageURL := s.absolutize(d.Link)

		result := s.cachedFetch(ctx, pageURL)
		if result == nil {
			continue
		}

		record := model.WeeklyReportRecord{
			Week:     d.WeekLabel(),
			Date:     d.Date,
			Category: d.Category,
			Link:     d.Link,
		}
		for class, text := range section.Segment(result.Page.Text) {
			record.SetSection(class, text)
		}
		snapshot.Reports = append(snapshot.Reports, record)

		corpus.WriteString(result.Page.Text)
		corpus.WriteString("\n")
	}

	if len(selected) > 0 && len(snapshot.Reports) == 0 {
		return model.MarketSnapshot{}, eris.Errorf(
			"roundup: none of %d located reports could be fetched", len(selected))
	}

	text := corpus.String()
	snapshot.Index = extract.Index(text)
	if snapshot.Index != nil && snapshot.Index.Value == 0 {
		cape, okC := snapshot.Index.Components["bci_5tc"]
		pana, okP := snapshot.Index.Components["bpi_5tc"]
		supra, okS := snapshot.Index.Components["bsi_5tc"]
		if okC && okP && okS {
			snapshot.Index.Value = int(math.Round(extract.ComputeCompositeIndex(cape, pana, supra)))
		}
	}
	snapshot.CompositeRate, snapshot.TimeCharter = extract.Composite(text)
	snapshot.Routes = extract.Routes(text)
	snapshot.ClassRates = extract.ClassRates(text)
	snapshot.Sentiment = extract.Sentiment(text)
	snapshot.Enrich(s.now())

	return snapshot, nil
}

// cachedFetch consults the page cache before the fetch chain. All failures
// are logged and read as "no content for this report".
func (s *Scraper) cachedFetch(ctx context.Context, pageURL string) *scrape.Result {
	if s.cache != nil {
		hit, err := s.cache.Get(ctx, pageURL)
		if err != nil {
			zap.L().Warn("roundup: page cache read failed", zap.Error(err))
		} else if hit != nil {
			zap.L().Debug("roundup: page cache hit", zap.String("url", pageURL))
			return hit
		}
	}

	result, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		zap.L().Warn("roundup: report fetch failed, skipping",
			zap.String("url", pageURL),
			zap.Error(err),
		)
		return nil
	}

	if s.cache != nil {
		if err := s.cache.Put(ctx, *result); err != nil {
			zap.L().Warn("roundup: page cache write failed", zap.Error(err))
		}
	}
	return result
}

func (s *Scraper) absolutize(link string) string {
	if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return link
	}
	return strings.TrimSuffix(s.opts.BaseURL, "/") + link
}

// fail records the error into persistent state and returns an error-status
// result. The previously persisted collection is left untouched.
func (s *Scraper) fail(err error, start time.Time) UpdateResult {
	s.phase = PhaseError
	now := s.now()
	s.state.LastError = err.Error()
	s.state.LastUpdate = &now
	if saveErr := s.files.SaveState(s.state); saveErr != nil {
		zap.L().Error("roundup: persist error state failed", zap.Error(saveErr))
	}

	zap.L().Error("roundup: update failed", zap.Error(err))
	return UpdateResult{
		Status:       StatusError,
		Message:      err.Error(),
		TotalEntries: s.totalRecords(),
		DurationSecs: math.Round(s.now().Sub(start).Seconds()*100) / 100,
		LastUpdate:   s.state.LastUpdate,
	}
}

func (s *Scraper) totalRecords() int {
	if len(s.collection) == 0 {
		return 0
	}
	return len(s.collection[0].Reports)
}

// Phase returns the scraper's current cycle phase.
func (s *Scraper) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// State returns a copy of the persistent state.
func (s *Scraper) State() model.PersistentState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Latest returns the current snapshot, or nil when nothing has been
// collected yet.
func (s *Scraper) Latest() *model.MarketSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.collection) == 0 {
		return nil
	}
	snapshot := s.collection[0]
	return &snapshot
}

// Filter narrows snapshot queries and exports.
type Filter struct {
	Start      *time.Time
	End        *time.Time
	MinQuality int
	MinIndex   *int
	MaxIndex   *int
}

func (f Filter) matches(snapshot model.MarketSnapshot) bool {
	if f.Start != nil && snapshot.ScrapedAt.Before(*f.Start) {
		return false
	}
	if f.End != nil && snapshot.ScrapedAt.After(*f.End) {
		return false
	}
	if f.MinQuality > 0 && snapshot.QualityScore() < f.MinQuality {
		return false
	}
	if f.MinIndex != nil && (snapshot.Index == nil || snapshot.Index.Value < *f.MinIndex) {
		return false
	}
	if f.MaxIndex != nil && (snapshot.Index == nil || snapshot.Index.Value > *f.MaxIndex) {
		return false
	}
	return true
}

// Snapshots returns the persisted snapshots matching the filter.
func (s *Scraper) Snapshots(f Filter) []model.MarketSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.MarketSnapshot
	for _, snapshot := range s.collection {
		if f.matches(snapshot) {
			out = append(out, snapshot)
		}
	}
	return out
}

// Trend reports the index direction over the last days of history. A
// non-positive days uses the configured default window.
func (s *Scraper) Trend(days int) history.TrendResult {
	if days <= 0 {
		days = s.opts.TrendDaysDefault
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return history.Trend(s.state.IndexHistory, days, s.now())
}

// ConnectionResult is the outcome of a connectivity probe.
type ConnectionResult struct {
	Status       string  `json:"status"`
	Message      string  `json:"message"`
	Retrieved    bool    `json:"data_retrieved"`
	ResponseSecs float64 `json:"response_time_seconds"`
	Endpoint     string  `json:"api_endpoint"`
}

// TestConnection probes the upstream listing endpoint and classifies the
// outcome as success, challenge, or error.
func (s *Scraper) TestConnection(ctx context.Context) ConnectionResult {
	start := s.now()
	entries, err := s.listing.Descriptors(ctx)
	elapsed := math.Round(s.now().Sub(start).Seconds()*100) / 100

	result := ConnectionResult{
		ResponseSecs: elapsed,
		Endpoint:     s.listing.Endpoint(),
	}
	switch {
	case err == nil:
		result.Status = "success"
		result.Message = "successfully connected to report index"
		result.Retrieved = len(entries) > 0
	case eris.Is(err, scrape.ErrChallenge):
		result.Status = "challenge"
		result.Message = "bot protection challenge detected"
	default:
		result.Status = "error"
		result.Message = err.Error()
	}
	return result
}
