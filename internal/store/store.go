// Package store provides the local SQLite snapshot of fetched country
// data. The snapshot primes the surface at startup before the first
// network round-trip completes; it never holds UI state.
package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kbaumler/worldmood/internal/model"
)

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates a Store at the given database path, creating tables as
// needed. Uses WAL mode for file-based databases.
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// Shared cache so every pooled connection sees the same database.
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS summaries (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		score REAL,
		has_score INTEGER NOT NULL,
		article_count INTEGER NOT NULL,
		saved_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS articles (
		dedup_key TEXT PRIMARY KEY,
		country TEXT NOT NULL,
		article_id TEXT,
		title TEXT,
		summary TEXT,
		url TEXT,
		published_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_articles_country ON articles(country);
	CREATE INDEX IF NOT EXISTS idx_articles_published ON articles(published_at DESC);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// SaveSummaries upserts the given summaries. Degraded no-data
// summaries are stored too, so a snapshot faithfully reproduces the
// last rendered state.
func (s *Store) SaveSummaries(summaries []model.Summary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(summaries) == 0 {
		return nil
	}

	stmt, err := s.db.Prepare(`
		INSERT INTO summaries (id, name, score, has_score, article_count, saved_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			score = excluded.score,
			has_score = excluded.has_score,
			article_count = excluded.article_count,
			saved_at = excluded.saved_at
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, sum := range summaries {
		var score sql.NullFloat64
		if sum.Score != nil {
			score = sql.NullFloat64{Float64: *sum.Score, Valid: true}
		}
		if _, err := stmt.Exec(sum.ID, sum.Name, score, boolToInt(sum.Score != nil), sum.ArticleCount, now); err != nil {
			return err
		}
	}

	return nil
}

// GetSummaries returns all snapshotted summaries keyed by country id.
func (s *Store) GetSummaries() (map[string]model.Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT id, name, score, has_score, article_count FROM summaries`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]model.Summary)
	for rows.Next() {
		var sum model.Summary
		var score sql.NullFloat64
		var hasScore int
		if err := rows.Scan(&sum.ID, &sum.Name, &score, &hasScore, &sum.ArticleCount); err != nil {
			return nil, err
		}
		if hasScore != 0 && score.Valid {
			v := score.Float64
			sum.Score = &v
		}
		out[sum.ID] = sum
	}

	return out, rows.Err()
}

// SaveArticles replaces the snapshotted articles for one country.
func (s *Store) SaveArticles(country string, articles []model.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM articles WHERE country = ?`, country); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO articles (dedup_key, country, article_id, title, summary, url, published_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range articles {
		key := a.DedupKey()
		if key == "" {
			continue
		}
		if _, err := stmt.Exec(key, country, a.ID, a.Title, a.Summary, a.URL, a.Published.UTC()); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetArticles returns snapshotted articles for one country, newest
// first. An empty country returns articles for the whole roster.
func (s *Store) GetArticles(country string, limit int) ([]model.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT article_id, country, title, summary, url, published_at
		FROM articles
	`
	var args []any
	if country != "" {
		query += ` WHERE country = ?`
		args = append(args, country)
	}
	if limit <= 0 {
		limit = -1 // sqlite: no limit
	}
	query += ` ORDER BY published_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Article
	for rows.Next() {
		var a model.Article
		if err := rows.Scan(&a.ID, &a.Country, &a.Title, &a.Summary, &a.URL, &a.Published); err != nil {
			return nil, err
		}
		out = append(out, a)
	}

	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
