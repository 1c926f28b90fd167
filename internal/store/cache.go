package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sealane-research/roundup-cli/internal/scrape"
)

// PageCache caches fetched detail pages in SQLite so repeated update cycles
// within the TTL don't hit the upstream site again.
type PageCache struct {
	db  *sql.DB
	ttl time.Duration
}

// NewPageCache opens the cache database at the given path and configures
// WAL mode.
func NewPageCache(dsn string, ttl time.Duration) (*PageCache, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "cache: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "cache: exec %s", pragma)
		}
	}
	return &PageCache{db: db, ttl: ttl}, nil
}

const cacheMigration = `
CREATE TABLE IF NOT EXISTS page_cache (
	id         TEXT PRIMARY KEY,
	page_url   TEXT NOT NULL,
	title      TEXT NOT NULL,
	body       TEXT NOT NULL,
	source     TEXT NOT NULL,
	fetched_at DATETIME NOT NULL DEFAULT (datetime('now')),
	expires_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_page_cache_page_url ON page_cache(page_url);
CREATE INDEX IF NOT EXISTS idx_page_cache_expires_at ON page_cache(expires_at);
`

func (c *PageCache) Migrate(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, cacheMigration)
	return eris.Wrap(err, "cache: migrate")
}

func (c *PageCache) Close() error {
	return c.db.Close()
}

// Get returns the freshest unexpired cached page for the URL, or nil on a
// miss.
func (c *PageCache) Get(ctx context.Context, pageURL string) (*scrape.Result, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT title, body, source FROM page_cache
		 WHERE page_url = ? AND expires_at > ?
		 ORDER BY fetched_at DESC LIMIT 1`,
		pageURL, time.Now().UTC(),
	)

	var title, body, source string
	if err := row.Scan(&title, &body, &source); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "cache: get %s", pageURL)
	}

	return &scrape.Result{
		Page:   scrape.Page{URL: pageURL, Title: title, Text: body},
		Source: source,
	}, nil
}

// Put stores a fetched page with the cache TTL.
func (c *PageCache) Put(ctx context.Context, result scrape.Result) error {
	now := time.Now().UTC()
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO page_cache (id, page_url, title, body, source, fetched_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), result.Page.URL, result.Page.Title, result.Page.Text,
		result.Source, now, now.Add(c.ttl),
	)
	return eris.Wrapf(err, "cache: put %s", result.Page.URL)
}

// PurgeExpired removes entries past their expiry and reports how many went.
func (c *PageCache) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx,
		`DELETE FROM page_cache WHERE expires_at <= ?`, time.Now().UTC(),
	)
	if err != nil {
		return 0, eris.Wrap(err, "cache: purge expired")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "cache: rows affected")
	}
	return n, nil
}
