// Package querylog records the queries served by the search endpoint in a
// SQLite database.
package querylog

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"time"

	"github.com/rubiojr/shakesearch/pkg/db"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Entry is one served page.
type Entry struct {
	Query     string
	Page      int
	PageSize  int
	Results   int
	CreatedAt time.Time
}

// QueryCount is a query with the number of times it was served.
type QueryCount struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// Log is a SQLite backed query log. It is safe for concurrent use.
type Log struct {
	db *sql.DB
}

// Open opens (creating if needed) the query log at path and brings its
// schema up to date.
func Open(path string) (*Log, error) {
	sqlDB, err := db.Open(path)
	if err != nil {
		return nil, err
	}

	migrations, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("loading migrations: %w", err)
	}
	if _, err := db.NewMigrator(sqlDB, migrations).ApplyPending(context.Background()); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrating query log: %w", err)
	}

	return &Log{db: sqlDB}, nil
}

// Close closes the database.
func (l *Log) Close() error {
	return l.db.Close()
}

// Record stores e. A zero CreatedAt is set to the current time.
func (l *Log) Record(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO queries (query, page, page_size, results, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.Query, e.Page, e.PageSize, e.Results, e.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording query: %w", err)
	}
	return nil
}

// Count returns the number of recorded entries.
func (l *Log) Count(ctx context.Context) (int, error) {
	var n int
	if err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM queries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting queries: %w", err)
	}
	return n, nil
}

// TopQueries returns the n most frequent queries, most frequent first. Only
// first pages count, so paging through one search counts once.
func (l *Log) TopQueries(ctx context.Context, n int) ([]QueryCount, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT query, COUNT(*) AS c
		FROM queries
		WHERE page = 0
		GROUP BY query
		ORDER BY c DESC, query ASC
		LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("querying top queries: %w", err)
	}
	defer rows.Close()

	top := []QueryCount{}
	for rows.Next() {
		var qc QueryCount
		if err := rows.Scan(&qc.Query, &qc.Count); err != nil {
			return nil, fmt.Errorf("scanning top queries: %w", err)
		}
		top = append(top, qc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating top queries: %w", err)
	}
	return top, nil
}
