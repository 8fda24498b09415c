package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store manages the SQLite connection and schema.
type Store struct {
	db *sql.DB
}

// NewStore initializes the SQLite database connection.
// It enables WAL mode for concurrency and durability.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	// Enable WAL mode (Write-Ahead Logging)
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	s := &Store{db: db}

	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("schema migration failed: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the necessary tables if they don't exist.
func (s *Store) migrate() error {
	// Append-only analyses audit log. The result summary is kept as a JSON
	// blob; the envelope fields are columns for querying.
	query := `
	CREATE TABLE IF NOT EXISTS analyses (
		analysis_id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		ts_started DATETIME NOT NULL,
		node_count INTEGER NOT NULL,
		edge_count INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		duration_ms INTEGER NOT NULL,
		summary JSON NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_ts_started ON analyses(ts_started);
	CREATE INDEX IF NOT EXISTS idx_analyses_kind ON analyses(kind);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create analyses table: %w", err)
	}

	return nil
}

// AppendAnalysis inserts one audit record.
func (s *Store) AppendAnalysis(ctx context.Context, rec *AnalysisRecord) error {
	summary := rec.Summary
	if len(summary) == 0 {
		summary = []byte("{}")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analyses (analysis_id, kind, ts_started, node_count, edge_count, outcome, duration_ms, summary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.AnalysisID, string(rec.Kind), rec.TsStarted.UTC(), rec.NodeCount,
		rec.EdgeCount, rec.Outcome, rec.DurationMs, string(summary),
	)
	if err != nil {
		return fmt.Errorf("failed to append analysis: %w", err)
	}
	return nil
}

// RecentAnalyses returns the newest records first, up to limit.
func (s *Store) RecentAnalyses(ctx context.Context, limit int) ([]*AnalysisRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT analysis_id, kind, ts_started, node_count, edge_count, outcome, duration_ms, summary
		FROM analyses
		ORDER BY ts_started DESC, analysis_id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	var records []*AnalysisRecord
	for rows.Next() {
		var rec AnalysisRecord
		var kind string
		var summary string
		if err := rows.Scan(&rec.AnalysisID, &kind, &rec.TsStarted, &rec.NodeCount,
			&rec.EdgeCount, &rec.Outcome, &rec.DurationMs, &summary); err != nil {
			return nil, fmt.Errorf("failed to scan analysis row: %w", err)
		}
		rec.Kind = AnalysisKind(kind)
		rec.Summary = []byte(summary)
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// PruneAnalyses deletes records older than the retention window and returns
// the number removed.
func (s *Store) PruneAnalyses(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)

	res, err := s.db.ExecContext(ctx, `DELETE FROM analyses WHERE ts_started < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune analyses: %w", err)
	}
	return res.RowsAffected()
}
