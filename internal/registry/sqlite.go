package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dshills/issuegate/internal/analysis"
	"github.com/dshills/issuegate/internal/gate"
	"github.com/dshills/issuegate/internal/issues"
)

// SQLite is a Store backed by a SQLite database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path. The busy timeout and
// WAL mode go into the DSN so every pooled connection gets them.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_runs (
			id TEXT PRIMARY KEY,
			job TEXT NOT NULL,
			number INTEGER NOT NULL,
			timestamp_utc TEXT NOT NULL,
			reference_job TEXT,
			reference_number INTEGER,
			result TEXT NOT NULL DEFAULT '',
			issues_json TEXT NOT NULL DEFAULT '[]',
			errors_json TEXT NOT NULL DEFAULT '[]',
			updated_utc TEXT NOT NULL,
			UNIQUE(job, number)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_analysis_runs_job_number ON analysis_runs(job, number);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
	}
	return nil
}

const runColumns = `id, job, number, timestamp_utc, reference_job, reference_number, result, issues_json, errors_json`

func (s *SQLite) Save(ctx context.Context, run *analysis.Run) error {
	if run == nil || run.Build.Job == "" || run.Build.Number < 1 {
		return fmt.Errorf("save run: invalid build %v", run)
	}
	list := run.Issues.Issues()
	issues.Sort(list)
	issuesJSON, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("save run: encode issues: %w", err)
	}
	errs := run.Errors
	if errs == nil {
		errs = []string{}
	}
	errorsJSON, err := json.Marshal(errs)
	if err != nil {
		return fmt.Errorf("save run: encode errors: %w", err)
	}
	var refJob sql.NullString
	var refNumber sql.NullInt64
	if run.Reference != nil {
		refJob = sql.NullString{String: run.Reference.Job, Valid: true}
		refNumber = sql.NullInt64{Int64: int64(run.Reference.Number), Valid: true}
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO analysis_runs (`+runColumns+`, updated_utc)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(job, number) DO UPDATE SET
			id = excluded.id,
			timestamp_utc = excluded.timestamp_utc,
			reference_job = excluded.reference_job,
			reference_number = excluded.reference_number,
			result = excluded.result,
			issues_json = excluded.issues_json,
			errors_json = excluded.errors_json,
			updated_utc = excluded.updated_utc`,
		run.ID, run.Build.Job, run.Build.Number, run.Timestamp.UTC().Format(time.RFC3339Nano),
		refJob, refNumber, string(run.Result), string(issuesJSON), string(errorsJSON), now,
	)
	if err != nil {
		return fmt.Errorf("save run %s: %w", run.Build, err)
	}
	return nil
}

func (s *SQLite) Run(ctx context.Context, id analysis.BuildID) (*analysis.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM analysis_runs WHERE job = ? AND number = ?`, id.Job, id.Number)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load run %s: %w", id, err)
	}
	return run, nil
}

func (s *SQLite) ReferenceRun(ctx context.Context, run *analysis.Run) (*analysis.Run, error) {
	return referenceOf(ctx, s, run)
}

func (s *SQLite) Previous(ctx context.Context, id analysis.BuildID) (*analysis.Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM analysis_runs WHERE job = ? AND number < ? ORDER BY number DESC LIMIT 1`,
		id.Job, id.Number)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: before %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load run before %s: %w", id, err)
	}
	return run, nil
}

func (s *SQLite) List(ctx context.Context, job string) ([]*analysis.Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM analysis_runs WHERE job = ? ORDER BY number DESC`, job)
	if err != nil {
		return nil, fmt.Errorf("list runs of %s: %w", job, err)
	}
	defer rows.Close()

	var out []*analysis.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs of %s: %w", job, err)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*analysis.Run, error) {
	var (
		run        analysis.Run
		ts, result string
		refJob     sql.NullString
		refNumber  sql.NullInt64
		issuesJSON string
		errorsJSON string
	)
	if err := row.Scan(&run.ID, &run.Build.Job, &run.Build.Number, &ts, &refJob, &refNumber,
		&result, &issuesJSON, &errorsJSON); err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return nil, fmt.Errorf("parse timestamp %q: %w", ts, err)
	}
	run.Timestamp = t
	run.Result = gate.Verdict(result)
	if refJob.Valid && refNumber.Valid {
		run.Reference = &analysis.BuildID{Job: refJob.String, Number: int(refNumber.Int64)}
	}
	var list []issues.Issue
	if err := json.Unmarshal([]byte(issuesJSON), &list); err != nil {
		return nil, fmt.Errorf("decode issues: %w", err)
	}
	run.Issues = issues.NewSet(list...)
	if err := json.Unmarshal([]byte(errorsJSON), &run.Errors); err != nil {
		return nil, fmt.Errorf("decode errors: %w", err)
	}
	return &run, nil
}
