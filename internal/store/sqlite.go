package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/gtr-comics/comic-grader/internal/model"
)

// ErrNotFound is returned when a report does not exist.
var ErrNotFound = eris.New("store: report not found")

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS reports (
	id           TEXT PRIMARY KEY,
	comic_name   TEXT NOT NULL,
	issue_number TEXT NOT NULL,
	provider     TEXT NOT NULL,
	grade        REAL,
	report       TEXT NOT NULL,
	created_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_reports_comic_name ON reports(comic_name);
CREATE INDEX IF NOT EXISTS idx_reports_provider ON reports(provider);
CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveReport(ctx context.Context, comicName, issueNumber string, report model.FinalReport) (*model.StoredReport, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal report")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports (id, comic_name, issue_number, provider, grade, report, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, comicName, issueNumber, report.Provider, report.Grade, string(reportJSON), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert report")
	}

	return &model.StoredReport{
		ID:          id,
		ComicName:   comicName,
		IssueNumber: issueNumber,
		Provider:    report.Provider,
		Grade:       report.Grade,
		Report:      report,
		CreatedAt:   now,
	}, nil
}

func (s *SQLiteStore) GetReport(ctx context.Context, id string) (*model.StoredReport, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, comic_name, issue_number, provider, grade, report, created_at FROM reports WHERE id = ?`, id)

	stored, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get report")
	}
	return stored, nil
}

func (s *SQLiteStore) ListReports(ctx context.Context, filter ReportFilter) ([]model.StoredReport, error) {
	query := `SELECT id, comic_name, issue_number, provider, grade, report, created_at FROM reports WHERE 1=1`
	var args []any
	if filter.Provider != "" {
		query += ` AND provider = ?`
		args = append(args, filter.Provider)
	}
	if filter.ComicName != "" {
		query += ` AND comic_name = ?`
		args = append(args, filter.ComicName)
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, filter.limit(), filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list reports")
	}
	defer rows.Close()

	var reports []model.StoredReport
	for rows.Next() {
		stored, err := scanReport(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan report")
		}
		reports = append(reports, *stored)
	}
	return reports, eris.Wrap(rows.Err(), "sqlite: iterate reports")
}

func (s *SQLiteStore) DeleteReport(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return eris.Wrap(err, "sqlite: delete report")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: delete report rows affected")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReport(row scanner) (*model.StoredReport, error) {
	var stored model.StoredReport
	var grade sql.NullFloat64
	var reportJSON string

	if err := row.Scan(&stored.ID, &stored.ComicName, &stored.IssueNumber, &stored.Provider, &grade, &reportJSON, &stored.CreatedAt); err != nil {
		return nil, err
	}
	if grade.Valid {
		stored.Grade = &grade.Float64
	}
	if err := json.Unmarshal([]byte(reportJSON), &stored.Report); err != nil {
		return nil, err
	}
	return &stored, nil
}
