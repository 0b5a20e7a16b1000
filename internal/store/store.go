// Package store keeps windowed-AUROC runs in a SQLite database so results can
// be compared across samples and parameter choices later.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"rnaroc-core/auroc"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id         TEXT PRIMARY KEY,
	sample         TEXT NOT NULL,
	profile_path   TEXT,
	structure_path TEXT,
	column_name    TEXT,
	normalize      TEXT,
	sequence       TEXT,
	pad            INTEGER NOT NULL,
	window_len     INTEGER NOT NULL,
	length         INTEGER NOT NULL,
	defined        INTEGER NOT NULL,
	median         REAL,
	tool_version   TEXT,
	created_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS scores (
	run_id    TEXT NOT NULL,
	position  INTEGER NOT NULL,
	score     REAL,
	PRIMARY KEY (run_id, position),
	FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS runs_sample ON runs(sample);
`

// timeLayout is fixed-width so created_at sorts chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned by GetRun for an unknown run ID.
var ErrNotFound = errors.New("run not found")

// Store manages evaluation runs in SQLite.
type Store struct {
	db *sql.DB
}

// RunRecord is one stored evaluation. ID and CreatedAt are filled by SaveRun
// when empty.
type RunRecord struct {
	ID            string
	Sample        string
	ProfilePath   string
	StructurePath string
	Column        string
	Normalize     string
	Sequence      string
	Version       string
	CreatedAt     time.Time
	Result        auroc.Result
}

// RunSummary is a run without its per-position scores.
type RunSummary struct {
	ID        string
	Sample    string
	Pad       int
	Window    int
	Length    int
	Defined   int
	Median    float64 // NaN when no window was scored
	CreatedAt time.Time
}

// dsn applies the pragmas to every pooled connection, not just the first.
func dsn(path string) string {
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
}

// Open opens (or creates) a SQLite database and runs migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func orNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

// SaveRun stores rec and its scores in one transaction and returns the run ID.
// Undefined scores and a missing median are stored as NULL.
func (s *Store) SaveRun(ctx context.Context, rec RunRecord) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	r := rec.Result
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, sample, profile_path, structure_path, column_name, normalize, sequence, pad, window_len, length, defined, median, tool_version, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Sample, rec.ProfilePath, rec.StructurePath, rec.Column, rec.Normalize, rec.Sequence,
		r.Pad, r.Window, r.Len(), r.DefinedCount(), nullable(r.Median),
		rec.Version, rec.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO scores (run_id, position, score) VALUES (?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("prepare scores: %w", err)
	}
	defer func() { _ = stmt.Close() }()
	for i, v := range r.Scores {
		if _, err := stmt.ExecContext(ctx, rec.ID, i+1, nullable(v)); err != nil {
			return "", fmt.Errorf("insert score %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return rec.ID, nil
}

// GetRun loads a run and all of its scores.
func (s *Store) GetRun(ctx context.Context, id string) (RunRecord, error) {
	var (
		rec     RunRecord
		median  sql.NullFloat64
		length  int
		created string
		prof    sql.NullString
		st      sql.NullString
		col     sql.NullString
		norm    sql.NullString
		seq     sql.NullString
		ver     sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT run_id, sample, profile_path, structure_path, column_name, normalize, sequence, pad, window_len, length, median, tool_version, created_at
		 FROM runs WHERE run_id = ?`, id,
	).Scan(&rec.ID, &rec.Sample, &prof, &st, &col, &norm, &seq, &rec.Result.Pad, &rec.Result.Window, &length, &median, &ver, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("get run: %w", err)
	}
	rec.ProfilePath, rec.StructurePath, rec.Column, rec.Version = prof.String, st.String, col.String, ver.String
	rec.Normalize, rec.Sequence = norm.String, seq.String
	rec.Result.Median = orNaN(median)
	if rec.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return RunRecord{}, fmt.Errorf("parse created_at: %w", err)
	}

	rec.Result.Scores = make([]float64, length)
	for i := range rec.Result.Scores {
		rec.Result.Scores[i] = math.NaN()
	}
	rows, err := s.db.QueryContext(ctx, `SELECT position, score FROM scores WHERE run_id = ?`, id)
	if err != nil {
		return RunRecord{}, fmt.Errorf("get scores: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var (
			pos   int
			score sql.NullFloat64
		)
		if err := rows.Scan(&pos, &score); err != nil {
			return RunRecord{}, fmt.Errorf("scan score: %w", err)
		}
		if pos < 1 || pos > length {
			return RunRecord{}, fmt.Errorf("run %s: score position %d outside 1-%d", id, pos, length)
		}
		rec.Result.Scores[pos-1] = orNaN(score)
	}
	if err := rows.Err(); err != nil {
		return RunRecord{}, fmt.Errorf("iterate scores: %w", err)
	}
	return rec, nil
}

// ListRuns returns the most recent runs first. limit <= 0 means all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	q := `SELECT run_id, sample, pad, window_len, length, defined, median, created_at
	      FROM runs ORDER BY created_at DESC, run_id`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []RunSummary
	for rows.Next() {
		var (
			r       RunSummary
			median  sql.NullFloat64
			created string
		)
		if err := rows.Scan(&r.ID, &r.Sample, &r.Pad, &r.Window, &r.Length, &r.Defined, &median, &created); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Median = orNaN(median)
		if r.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
