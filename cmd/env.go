package main

import (
	"context"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/sealane-research/roundup-cli/internal/index"
	"github.com/sealane-research/roundup-cli/internal/roundup"
	"github.com/sealane-research/roundup-cli/internal/scrape"
	"github.com/sealane-research/roundup-cli/internal/store"
)

// env bundles the wired scraper and the resources it owns.
type env struct {
	Scraper *roundup.Scraper
	cache   *store.PageCache
}

func (e *env) Close() {
	if e.cache != nil {
		if err := e.cache.Close(); err != nil {
			zap.L().Warn("close page cache", zap.Error(err))
		}
	}
}

// initScraper wires the listing client, fetch chain, stores, and facade
// from the loaded configuration.
func initScraper(ctx context.Context) (*env, error) {
	files, err := store.NewFiles(cfg.Data.Dir)
	if err != nil {
		return nil, err
	}

	var cache *store.PageCache
	if cfg.Data.CacheTTLHours > 0 {
		cache, err = store.NewPageCache(filepath.Join(cfg.Data.Dir, "pages.db"), cfg.Data.CacheTTL())
		if err != nil {
			return nil, err
		}
		if err := cache.Migrate(ctx); err != nil {
			cache.Close()
			return nil, err
		}
		if purged, err := cache.PurgeExpired(ctx); err != nil {
			zap.L().Warn("purge page cache", zap.Error(err))
		} else if purged > 0 {
			zap.L().Debug("purged expired cached pages", zap.Int64("count", purged))
		}
	}

	listing := index.NewClient(index.Options{
		BaseURL:      cfg.Index.BaseURL,
		ListingPath:  cfg.Index.ListingPath,
		ResourcePath: cfg.Index.ResourcePath,
		MaxPages:     cfg.Index.MaxPages,
		Delay:        cfg.Scrape.Delay(),
		Timeout:      cfg.Scrape.Timeout(),
		UserAgent:    cfg.Scrape.UserAgent,
	})

	chain := scrape.NewChain(
		scrape.NewPlainFetcher(cfg.Scrape.Timeout(), cfg.Scrape.Delay(), cfg.Scrape.UserAgent),
		scrape.NewBypassFetcher(cfg.Scrape.Timeout(), cfg.Scrape.Delay(), cfg.Scrape.UserAgent),
	)

	scraper, err := roundup.New(listing, chain, files, cache, roundup.Options{
		BaseURL:          cfg.Index.BaseURL,
		Category:         cfg.Roundup.Category,
		Year:             cfg.Roundup.Year,
		MinInterval:      cfg.Roundup.MinInterval(),
		TrendDaysDefault: cfg.Roundup.TrendDaysDefault,
	})
	if err != nil {
		if cache != nil {
			cache.Close()
		}
		return nil, err
	}

	return &env{Scraper: scraper, cache: cache}, nil
}
