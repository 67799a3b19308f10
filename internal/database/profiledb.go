package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/scholarscan/internal/model"
)

// FileName is the name of the database file inside the data directory.
const FileName = "scholarscan.db"

// ProfileDB provides SQLite-based storage for profiles and crawl status.
type ProfileDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures ProfileDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a ProfileDB in dbDir.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*ProfileDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (run a crawl first)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	pdb := &ProfileDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := pdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return pdb, nil
}

// Path returns the database file path.
func (pdb *ProfileDB) Path() string {
	return pdb.dbPath
}

// Close closes the database connection.
func (pdb *ProfileDB) Close() error {
	return pdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (pdb *ProfileDB) createTables() error {
	schema := `
	-- One row per faculty profile page
	CREATE TABLE IF NOT EXISTS profiles (
		profile_link TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		department TEXT NOT NULL DEFAULT '',
		university TEXT NOT NULL DEFAULT '',
		tag TEXT NOT NULL DEFAULT '',
		position TEXT NOT NULL DEFAULT '',
		phd_year TEXT NOT NULL DEFAULT '',
		phd_school TEXT NOT NULL DEFAULT '',
		promotion_year TEXT NOT NULL DEFAULT '',
		text_raw TEXT NOT NULL DEFAULT '',
		user_updated INTEGER NOT NULL DEFAULT 0,
		crawled_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_profiles_university ON profiles(university);
	CREATE INDEX IF NOT EXISTS idx_profiles_position ON profiles(position);

	-- Run status of each named crawler
	CREATE TABLE IF NOT EXISTS process (
		crawler_name TEXT PRIMARY KEY,
		processing INTEGER NOT NULL DEFAULT 0,
		run_id TEXT NOT NULL DEFAULT '',
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := pdb.db.ExecContext(context.Background(), schema)
	return err
}

// Upsert inserts a profile or updates the stored one with the same URL.
// Rows marked user_updated are left untouched.
func (pdb *ProfileDB) Upsert(ctx context.Context, rec model.ProfileRecord) error {
	if rec.URL == "" {
		return errors.New("profile has no url")
	}
	crawledAt := rec.CrawledAt
	if crawledAt.IsZero() {
		crawledAt = time.Now()
	}

	query := `
	INSERT INTO profiles (profile_link, name, department, university, tag, position,
		phd_year, phd_school, promotion_year, text_raw, user_updated, crawled_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(profile_link) DO UPDATE SET
		name = excluded.name,
		department = excluded.department,
		university = excluded.university,
		tag = excluded.tag,
		position = excluded.position,
		phd_year = excluded.phd_year,
		phd_school = excluded.phd_school,
		promotion_year = excluded.promotion_year,
		text_raw = excluded.text_raw,
		crawled_at = excluded.crawled_at
	WHERE profiles.user_updated = 0
	`

	_, err := pdb.db.ExecContext(ctx, query,
		rec.URL,
		rec.Name,
		rec.Department,
		rec.University,
		string(rec.Tag),
		string(rec.Rank),
		rec.PhDYear,
		rec.PhDSchool,
		rec.PromotionYear,
		rec.Text,
		boolToInt(rec.UserUpdated),
		crawledAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

// GetProfile retrieves a profile by URL. It returns nil when none exists.
func (pdb *ProfileDB) GetProfile(ctx context.Context, url string) (*model.ProfileRecord, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE profile_link = ?`

	rec, err := scanProfile(pdb.db.QueryRowContext(ctx, query, url))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return rec, nil
}

// ProfileFilter narrows ListProfiles. Zero fields match everything.
type ProfileFilter struct {
	// University matches profiles of one university, case-insensitively.
	University string

	// Rank matches one rank.
	Rank model.Rank

	// Tag matches one university tag.
	Tag model.Tag

	// Limit caps the number of profiles returned.
	Limit int
}

// ListProfiles returns stored profiles ordered by university, department
// and name.
func (pdb *ProfileDB) ListProfiles(ctx context.Context, filter ProfileFilter) ([]model.ProfileRecord, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE 1=1`
	args := make([]any, 0)

	if filter.University != "" {
		query += " AND university = ? COLLATE NOCASE"
		args = append(args, filter.University)
	}
	if filter.Rank != "" {
		query += " AND position = ?"
		args = append(args, string(filter.Rank))
	}
	if filter.Tag != model.TagNone {
		query += " AND tag = ?"
		args = append(args, string(filter.Tag))
	}

	query += " ORDER BY university, department, name"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := pdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var results []model.ProfileRecord
	for rows.Next() {
		rec, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		results = append(results, *rec)
	}
	return results, rows.Err()
}

// CountProfiles returns the number of stored profiles per university.
func (pdb *ProfileDB) CountProfiles(ctx context.Context) (map[string]int, error) {
	rows, err := pdb.db.QueryContext(ctx, `SELECT university, COUNT(*) FROM profiles GROUP BY university`)
	if err != nil {
		return nil, fmt.Errorf("failed to count profiles: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var university string
		var n int
		if err := rows.Scan(&university, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[university] = n
	}
	return counts, rows.Err()
}

// CrawlStatus is the recorded run status of a named crawler.
type CrawlStatus struct {
	// Name is the crawler name.
	Name string

	// Running reports whether a run is in progress.
	Running bool

	// RunID identifies the latest run.
	RunID string

	// UpdatedAt is when the status last changed.
	UpdatedAt time.Time
}

// SetCrawlRunning records whether the named crawler is running. Starting a
// run stores runID, or a new random ID when runID is empty.
func (pdb *ProfileDB) SetCrawlRunning(ctx context.Context, name, runID string, running bool) error {
	now := time.Now().UTC().Format(time.RFC3339)
	if running && runID == "" {
		runID = uuid.NewString()
	}

	var err error
	if running {
		_, err = pdb.db.ExecContext(ctx, `
		INSERT INTO process (crawler_name, processing, run_id, updated_at)
		VALUES (?, 1, ?, ?)
		ON CONFLICT(crawler_name) DO UPDATE SET
			processing = 1,
			run_id = excluded.run_id,
			updated_at = excluded.updated_at
		`, name, runID, now)
	} else {
		_, err = pdb.db.ExecContext(ctx, `
		INSERT INTO process (crawler_name, processing, updated_at)
		VALUES (?, 0, ?)
		ON CONFLICT(crawler_name) DO UPDATE SET
			processing = 0,
			updated_at = excluded.updated_at
		`, name, now)
	}
	if err != nil {
		return fmt.Errorf("failed to set crawl status: %w", err)
	}
	return nil
}

// GetCrawlStatus returns the status of the named crawler, or nil if it
// never ran.
func (pdb *ProfileDB) GetCrawlStatus(ctx context.Context, name string) (*CrawlStatus, error) {
	var (
		status    CrawlStatus
		running   int
		timestamp string
	)
	err := pdb.db.QueryRowContext(ctx,
		`SELECT crawler_name, processing, run_id, updated_at FROM process WHERE crawler_name = ?`, name,
	).Scan(&status.Name, &running, &status.RunID, &timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get crawl status: %w", err)
	}
	status.Running = running != 0
	status.UpdatedAt = parseTimestamp(timestamp)
	return &status, nil
}

const profileColumns = `profile_link, name, department, university, tag, position,
	phd_year, phd_school, promotion_year, text_raw, user_updated, crawled_at`

// rowScanner is implemented by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*model.ProfileRecord, error) {
	var (
		rec         model.ProfileRecord
		tag, rank   string
		userUpdated int
		timestamp   sql.NullString
	)
	err := row.Scan(
		&rec.URL,
		&rec.Name,
		&rec.Department,
		&rec.University,
		&tag,
		&rank,
		&rec.PhDYear,
		&rec.PhDSchool,
		&rec.PromotionYear,
		&rec.Text,
		&userUpdated,
		&timestamp,
	)
	if err != nil {
		return nil, err
	}
	rec.Tag = model.ParseTag(tag)
	rec.Rank = model.Rank(rank)
	rec.UserUpdated = userUpdated != 0
	if timestamp.Valid {
		rec.CrawledAt = parseTimestamp(strings.TrimSpace(timestamp.String))
	}
	return &rec, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
