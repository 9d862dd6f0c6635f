package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/gtr-comics/comic-grader/internal/model"
)

// Pool is the subset of pgxpool.Pool used by the store. pgxmock satisfies
// it for unit tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// preparedStatements lists queries to prepare on each new connection.
var preparedStatements = map[string]string{
	"insert_report": `INSERT INTO reports (id, comic_name, issue_number, provider, grade, report, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
	"get_report":    `SELECT id, comic_name, issue_number, provider, grade, report, created_at FROM reports WHERE id = $1`,
	"delete_report": `DELETE FROM reports WHERE id = $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS reports (
	id           TEXT PRIMARY KEY,
	comic_name   TEXT NOT NULL,
	issue_number TEXT NOT NULL,
	provider     TEXT NOT NULL,
	grade        DOUBLE PRECISION,
	report       JSONB NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_reports_comic_name ON reports(comic_name);
CREATE INDEX IF NOT EXISTS idx_reports_provider ON reports(provider);
CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveReport(ctx context.Context, comicName, issueNumber string, report model.FinalReport) (*model.StoredReport, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal report")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO reports (id, comic_name, issue_number, provider, grade, report, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, comicName, issueNumber, report.Provider, report.Grade, reportJSON, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert report")
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

func (s *PostgresStore) GetReport(ctx context.Context, id string) (*model.StoredReport, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, comic_name, issue_number, provider, grade, report, created_at FROM reports WHERE id = $1`, id)

	stored, err := scanPgReport(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: get report")
	}
	return stored, nil
}

func (s *PostgresStore) ListReports(ctx context.Context, filter ReportFilter) ([]model.StoredReport, error) {
	query := `SELECT id, comic_name, issue_number, provider, grade, report, created_at FROM reports WHERE 1=1`
	var args []any
	if filter.Provider != "" {
		args = append(args, filter.Provider)
		query += ` AND provider = $1`
	}
	if filter.ComicName != "" {
		args = append(args, filter.ComicName)
		query += ` AND comic_name = $` + strconv.Itoa(len(args))
	}
	args = append(args, filter.limit())
	query += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args))
	args = append(args, filter.Offset)
	query += ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list reports")
	}
	defer rows.Close()

	var reports []model.StoredReport
	for rows.Next() {
		stored, err := scanPgReport(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: scan report")
		}
		reports = append(reports, *stored)
	}
	return reports, eris.Wrap(rows.Err(), "postgres: iterate reports")
}

func (s *PostgresStore) DeleteReport(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return eris.Wrap(err, "postgres: delete report")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPgReport(row pgx.Row) (*model.StoredReport, error) {
	var stored model.StoredReport
	var reportJSON []byte

	if err := row.Scan(&stored.ID, &stored.ComicName, &stored.IssueNumber, &stored.Provider, &stored.Grade, &reportJSON, &stored.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(reportJSON, &stored.Report); err != nil {
		return nil, err
	}
	return &stored, nil
}
