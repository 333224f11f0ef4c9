package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/testology/psyengine/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS history (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    test_id TEXT NOT NULL,
    test_slug TEXT NOT NULL DEFAULT '',
    score REAL,
    level_id TEXT NOT NULL DEFAULT '',
    level_label TEXT NOT NULL DEFAULT '',
    subscales TEXT,
    created_at TEXT NOT NULL,
    definitions_revision TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS history_user_created ON history (user_id, created_at);
`

const selectColumns = `SELECT id, user_id, test_id, test_slug, score, level_id, level_label,
       subscales, created_at, definitions_revision FROM history`

// SQLiteStore implements domain.HistoryStore on an SQLite database.
// Subscale snapshots are stored verbatim as JSON text.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Append(ctx context.Context, rec domain.HistoryRecord) error {
	var subscales sql.NullString
	if len(rec.Subscales) > 0 {
		subscales = sql.NullString{String: string(rec.Subscales), Valid: true}
	}
	var score sql.NullFloat64
	if rec.Score != nil {
		score = sql.NullFloat64{Float64: *rec.Score, Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO history (id, user_id, test_id, test_slug, score, level_id, level_label,
		 subscales, created_at, definitions_revision) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, rec.TestID, rec.TestSlug, score, rec.LevelID, rec.LevelLabel,
		subscales, rec.CreatedAt.UTC().Format(time.RFC3339Nano), rec.DefinitionsRevision)
	if err != nil {
		return fmt.Errorf("inserting history record: %w", err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, userID string) ([]domain.HistoryRecord, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+` WHERE user_id = ? ORDER BY rowid`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.HistoryRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (domain.HistoryRecord, error) {
	rec, err := scanRecord(s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.HistoryRecord{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return rec, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (domain.HistoryRecord, error) {
	var (
		rec       domain.HistoryRecord
		score     sql.NullFloat64
		subscales sql.NullString
		created   string
	)
	err := row.Scan(&rec.ID, &rec.UserID, &rec.TestID, &rec.TestSlug, &score,
		&rec.LevelID, &rec.LevelLabel, &subscales, &created, &rec.DefinitionsRevision)
	if err != nil {
		return domain.HistoryRecord{}, err
	}

	if score.Valid {
		rec.Score = domain.Float(score.Float64)
	}
	if subscales.Valid {
		rec.Subscales = json.RawMessage(subscales.String)
	}
	rec.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return domain.HistoryRecord{}, fmt.Errorf("record %s: bad created_at %q: %w", rec.ID, created, err)
	}
	return rec, nil
}
