package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/azurestocking/ma-law-scraper/internal/fetch"
	"github.com/azurestocking/ma-law-scraper/internal/model"
)

// Archive provides SQLite-based storage for fetch records and crawl run
// summaries. The snapshot file is the product of a crawl; the archive is
// its ledger, answering "when was this URL last pulled" and "how did the
// last run compare to the one before".
//
// Design decision: one database file next to the snapshot rather than one
// per run. Run-over-run comparison is a relational query, and a single
// file keeps backup and cleanup trivial.
type Archive struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures Archive behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool

	// BusyTimeout is how long a statement waits on a locked database
	// before failing.
	BusyTimeout time.Duration
}

// DefaultOptions returns the default archive options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
		BusyTimeout:       5 * time.Second,
	}
}

// ReadOnlyOptions returns options for read paths such as the history
// command: the database must already exist and is never created.
func ReadOnlyOptions() Options {
	return Options{
		CreateIfNotExists: false,
		EnableWAL:         false,
		BusyTimeout:       5 * time.Second,
	}
}

// Open opens or creates an Archive in the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*Archive, error) {
	dbPath := filepath.Join(dbDir, "malaw.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("archive not found at %s (run a crawl with archiving enabled first)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check archive path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create archive directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	// SQLite only supports one writer; a single pooled connection avoids
	// lock contention between the recorder and the run writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	a := &Archive{
		db:     db,
		dbPath: dbPath,
	}

	if opts.BusyTimeout > 0 {
		pragma := fmt.Sprintf("PRAGMA busy_timeout=%d", opts.BusyTimeout.Milliseconds())
		if _, err := db.ExecContext(context.Background(), pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to set busy timeout: %w", err)
		}
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := a.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return a, nil
}

// Close closes the database connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (a *Archive) createTables() error {
	schema := `
	-- Fetch records keep the latest retrieval of each distinct URL
	CREATE TABLE IF NOT EXISTS fetches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL UNIQUE,
		status INTEGER,
		content_hash TEXT,
		bytes INTEGER,
		duration_ms INTEGER,
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_fetches_fetched_at ON fetches(fetched_at);
	CREATE INDEX IF NOT EXISTS idx_fetches_hash ON fetches(content_hash);

	-- Runs store one row per crawl with the serialized summary
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		base_url TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		finished_at DATETIME,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_base_url ON runs(base_url);
	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	`

	_, err := a.db.ExecContext(context.Background(), schema)
	return err
}

// storedTimeLayout is how explicit timestamps are written; it matches
// SQLite's own CURRENT_TIMESTAMP output.
const storedTimeLayout = "2006-01-02 15:04:05"

// Record stores one page fetch, replacing any earlier record of the same
// URL. The archive keeps the latest observation per URL, not a full
// history: the interesting question is whether a page changed since the
// previous run, which the content hash answers.
func (a *Archive) Record(ctx context.Context, rec fetch.Record) error {
	query := `
	INSERT INTO fetches (url, status, content_hash, bytes, duration_ms, fetched_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(url) DO UPDATE SET
		status = excluded.status,
		content_hash = excluded.content_hash,
		bytes = excluded.bytes,
		duration_ms = excluded.duration_ms,
		fetched_at = excluded.fetched_at
	`

	_, err := a.db.ExecContext(ctx, query,
		rec.URL,
		rec.Status,
		rec.ContentHash,
		rec.Bytes,
		rec.Duration.Milliseconds(),
		rec.FetchedAt.UTC().Format(storedTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to record fetch: %w", err)
	}

	return nil
}

// Archive satisfies the fetch recorder contract.
var _ fetch.Recorder = (*Archive)(nil)

// FetchRecord is a stored page retrieval.
type FetchRecord struct {
	ID          int64
	URL         string
	Status      int
	ContentHash string
	Bytes       int64
	Duration    time.Duration
	FetchedAt   time.Time
}

// GetFetch retrieves the stored record for a URL. Returns nil without an
// error when the URL has never been recorded.
func (a *Archive) GetFetch(ctx context.Context, url string) (*FetchRecord, error) {
	query := `
	SELECT id, url, status, content_hash, bytes, duration_ms, fetched_at
	FROM fetches
	WHERE url = ?
	`

	var rec FetchRecord
	var durationMS int64
	var fetchedAt string

	err := a.db.QueryRowContext(ctx, query, url).Scan(
		&rec.ID,
		&rec.URL,
		&rec.Status,
		&rec.ContentHash,
		&rec.Bytes,
		&durationMS,
		&fetchedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fetch record: %w", err)
	}

	rec.Duration = time.Duration(durationMS) * time.Millisecond
	rec.FetchedAt = parseTimestamp(fetchedAt)

	return &rec, nil
}

// CountFetches returns the number of distinct URLs recorded.
func (a *Archive) CountFetches(ctx context.Context) (int64, error) {
	var count int64
	err := a.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM fetches").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count fetches: %w", err)
	}
	return count, nil
}

// RunRecord is a stored crawl run summary.
type RunRecord struct {
	// ID is the unique identifier of the run in the archive.
	ID int64

	// BaseURL is the crawl root the run walked.
	BaseURL string

	// StartedAt is when the run began.
	StartedAt time.Time

	// FinishedAt is when the run ended.
	FinishedAt time.Time

	// Report is the full run summary.
	Report *model.CrawlReport
}

// SaveRun stores a finished crawl run summary and returns its row ID.
func (a *Archive) SaveRun(ctx context.Context, report *model.CrawlReport) (int64, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}

	query := `
	INSERT INTO runs (base_url, started_at, finished_at, report_json)
	VALUES (?, ?, ?, ?)
	`

	result, err := a.db.ExecContext(ctx, query,
		report.BaseURL,
		report.StartedAt.UTC().Format(storedTimeLayout),
		report.FinishedAt.UTC().Format(storedTimeLayout),
		string(reportJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}

	return result.LastInsertId()
}

// ListRuns retrieves stored runs, newest first. An empty baseURL lists
// runs for every crawl root.
func (a *Archive) ListRuns(ctx context.Context, baseURL string) ([]RunRecord, error) {
	return a.queryRuns(ctx, baseURL, 0)
}

// LatestRuns retrieves the n most recent runs for a crawl root, newest
// first.
func (a *Archive) LatestRuns(ctx context.Context, baseURL string, n int) ([]RunRecord, error) {
	return a.queryRuns(ctx, baseURL, n)
}

// GetRun retrieves a run by its archive ID. Returns nil without an error
// when no such run exists.
func (a *Archive) GetRun(ctx context.Context, id int64) (*RunRecord, error) {
	query := `
	SELECT id, base_url, started_at, finished_at, report_json
	FROM runs
	WHERE id = ?
	`

	rec, err := scanRun(a.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	if rec.Report == nil {
		return nil, fmt.Errorf("failed to parse report for run %d", id)
	}

	return rec, nil
}

// queryRuns lists runs with an optional base URL filter and row limit.
func (a *Archive) queryRuns(ctx context.Context, baseURL string, limit int) ([]RunRecord, error) {
	query := `
	SELECT id, base_url, started_at, finished_at, report_json
	FROM runs
	WHERE 1=1
	`
	args := make([]interface{}, 0)

	if baseURL != "" {
		query += " AND base_url = ?"
		args = append(args, baseURL)
	}

	query += " ORDER BY started_at DESC, id DESC"

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if rec.Report == nil {
			continue // Skip malformed reports
		}
		results = append(results, *rec)
	}

	return results, rows.Err()
}

// rowScanner is the shared surface of sql.Row and sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanRun reads one run row. A report that no longer parses leaves
// Report nil rather than failing the whole listing.
func scanRun(row rowScanner) (*RunRecord, error) {
	var rec RunRecord
	var startedAt, finishedAt, reportJSON string

	if err := row.Scan(&rec.ID, &rec.BaseURL, &startedAt, &finishedAt, &reportJSON); err != nil {
		return nil, err
	}

	rec.StartedAt = parseTimestamp(startedAt)
	rec.FinishedAt = parseTimestamp(finishedAt)

	var report model.CrawlReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err == nil {
		rec.Report = &report
	}

	return &rec, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
