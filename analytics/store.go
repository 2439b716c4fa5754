package analytics

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists visits in a SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the analytics database at path, ensuring the
// data directory exists.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create analytics directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open analytics db: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)

	if _, err := db.Exec(`PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000;`); err != nil {
		return nil, fmt.Errorf("configure analytics db: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, fmt.Errorf("ensure analytics schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS visits (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    visitor_id TEXT NOT NULL,
    browser TEXT NOT NULL,
    os TEXT NOT NULL,
    device TEXT NOT NULL,
    path TEXT NOT NULL,
    referrer TEXT NOT NULL,
    timestamp DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_visits_timestamp ON visits(timestamp);
CREATE INDEX IF NOT EXISTS idx_visits_visitor_id ON visits(visitor_id);
CREATE INDEX IF NOT EXISTS idx_visits_path ON visits(path);

CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`)
	return err
}

// GetSetting retrieves a setting value by key. Returns "" if not found.
func (s *Store) GetSetting(key string) (string, error) {
	var val string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&val)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return val, err
}

// SetSetting stores a setting value by key (upsert).
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`, key, value)
	return err
}

// timeLayout is used for every timestamp bound into SQLite, so that range
// comparisons and date() grouping stay purely lexical.
const timeLayout = time.RFC3339

// SaveVisit records a page view.
func (s *Store) SaveVisit(v *Visit) error {
	_, err := s.db.Exec(
		`INSERT INTO visits (visitor_id, browser, os, device, path, referrer, timestamp) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		v.VisitorID, v.Browser, v.OS, v.Device, v.Path, v.Referrer, v.Timestamp.UTC().Format(timeLayout),
	)
	return err
}

// GetStats aggregates visits between from and to.
func (s *Store) GetStats(from, to time.Time) (*Stats, error) {
	stats := &Stats{
		Period: from.Format("2006-01-02") + " to " + to.Format("2006-01-02"),
	}

	lo, hi := from.UTC().Format(timeLayout), to.UTC().Format(timeLayout)

	err := s.db.QueryRow(
		`SELECT COUNT(DISTINCT visitor_id), COUNT(*) FROM visits WHERE timestamp BETWEEN ? AND ?`,
		lo, hi,
	).Scan(&stats.UniqueVisitors, &stats.TotalViews)
	if err != nil {
		return nil, fmt.Errorf("count visits: %w", err)
	}

	pages, err := s.queryPages(from, to)
	if err != nil {
		return nil, err
	}
	stats.TopPages = pages

	refs, err := s.queryDimension(`referrer`, from, to)
	if err != nil {
		return nil, err
	}
	stats.Referrers = refs

	daily, err := s.queryDaily(from, to)
	if err != nil {
		return nil, err
	}
	stats.DailyViews = daily

	return stats, nil
}

func (s *Store) queryPages(from, to time.Time) ([]PageStat, error) {
	rows, err := s.db.Query(
		`SELECT path, COUNT(*) AS views FROM visits WHERE timestamp BETWEEN ? AND ?
		 GROUP BY path ORDER BY views DESC LIMIT 10`,
		from.UTC().Format(timeLayout), to.UTC().Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("top pages: %w", err)
	}
	defer rows.Close()

	var pages []PageStat
	for rows.Next() {
		var p PageStat
		if err := rows.Scan(&p.Path, &p.Views); err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

func (s *Store) queryDimension(column string, from, to time.Time) ([]DimensionStat, error) {
	// column is always a compile-time constant, never user input.
	rows, err := s.db.Query(
		`SELECT `+column+`, COUNT(*) AS n FROM visits WHERE timestamp BETWEEN ? AND ?
		 GROUP BY `+column+` ORDER BY n DESC LIMIT 10`,
		from.UTC().Format(timeLayout), to.UTC().Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("%s breakdown: %w", column, err)
	}
	defer rows.Close()

	var dims []DimensionStat
	for rows.Next() {
		var d DimensionStat
		if err := rows.Scan(&d.Name, &d.Count); err != nil {
			return nil, err
		}
		dims = append(dims, d)
	}
	return dims, rows.Err()
}

func (s *Store) queryDaily(from, to time.Time) ([]DailyView, error) {
	rows, err := s.db.Query(
		`SELECT date(timestamp) AS d, COUNT(*) FROM visits WHERE timestamp BETWEEN ? AND ?
		 GROUP BY d ORDER BY d`,
		from.UTC().Format(timeLayout), to.UTC().Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("daily views: %w", err)
	}
	defer rows.Close()

	var daily []DailyView
	for rows.Next() {
		var dv DailyView
		if err := rows.Scan(&dv.Date, &dv.Views); err != nil {
			return nil, err
		}
		daily = append(daily, dv)
	}
	return daily, rows.Err()
}
