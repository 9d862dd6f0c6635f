// Package store persists grading reports in SQLite or PostgreSQL.
package store

import (
	"context"

	"github.com/gtr-comics/comic-grader/internal/model"
)

// ReportFilter specifies criteria for listing stored reports.
type ReportFilter struct {
	Provider  string `json:"provider,omitempty"`
	ComicName string `json:"comic_name,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for grading reports.
type Store interface {
	SaveReport(ctx context.Context, comicName, issueNumber string, report model.FinalReport) (*model.StoredReport, error)
	GetReport(ctx context.Context, id string) (*model.StoredReport, error)
	ListReports(ctx context.Context, filter ReportFilter) ([]model.StoredReport, error)
	DeleteReport(ctx context.Context, id string) error

	Migrate(ctx context.Context) error
	Close() error
}

const defaultListLimit = 50

func (f ReportFilter) limit() int {
	if f.Limit <= 0 {
		return defaultListLimit
	}
	return f.Limit
}
