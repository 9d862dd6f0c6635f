package model

import "time"

// Image is a single uploaded comic photo.
type Image struct {
	Data      []byte
	MediaType string // e.g. "image/jpeg"
}

// GradeRequest identifies the book being graded and carries its images.
type GradeRequest struct {
	ComicName   string
	IssueNumber string
	Images      []Image
}

// ProviderResult is the raw outcome of one AI provider call.
type ProviderResult struct {
	Provider  string    `json:"provider"`
	Model     string    `json:"model,omitempty"`
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// GradeResult is the dispatcher's answer for one provider: either an
// assembled report or the upstream failure passed through unchanged.
type GradeResult struct {
	Success   bool         `json:"success"`
	Provider  string       `json:"provider"`
	Error     string       `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
	Report    *FinalReport `json:"report,omitempty"`
}

// StoredReport is a persisted grading report with its identity row.
type StoredReport struct {
	ID          string      `json:"id"`
	ComicName   string      `json:"comic_name"`
	IssueNumber string      `json:"issue_number"`
	Provider    string      `json:"provider"`
	Grade       *float64    `json:"grade"`
	Report      FinalReport `json:"report"`
	CreatedAt   time.Time   `json:"created_at"`
}
