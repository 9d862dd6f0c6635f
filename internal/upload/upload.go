// Package upload validates comic photo uploads before grading.
package upload

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gtr-comics/comic-grader/internal/model"
)

const (
	// DefaultMaxFiles is the most images accepted per grading request.
	DefaultMaxFiles = 10
	// DefaultMaxFileSize is the per-file size limit in bytes.
	DefaultMaxFileSize = 10 * 1024 * 1024
)

// Limits configures upload validation.
type Limits struct {
	MaxFiles    int
	MaxFileSize int64
}

// DefaultLimits returns the standard 10 files / 10 MB limits.
func DefaultLimits() Limits {
	return Limits{MaxFiles: DefaultMaxFiles, MaxFileSize: DefaultMaxFileSize}
}

// Result reports upload validation findings.
type Result struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// ValidateFiles checks count, size, and content type of uploaded images.
// Content type is sniffed from the bytes, not trusted from the request.
func ValidateFiles(images []model.Image, limits Limits) Result {
	if limits.MaxFiles <= 0 {
		limits.MaxFiles = DefaultMaxFiles
	}
	if limits.MaxFileSize <= 0 {
		limits.MaxFileSize = DefaultMaxFileSize
	}

	result := Result{IsValid: true, Errors: []string{}}

	if len(images) == 0 {
		result.IsValid = false
		result.Errors = append(result.Errors, "No files uploaded")
		return result
	}

	if len(images) > limits.MaxFiles {
		result.IsValid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Maximum %d images allowed", limits.MaxFiles))
	}

	for i, img := range images {
		if !strings.HasPrefix(DetectMediaType(img.Data), "image/") {
			result.IsValid = false
			result.Errors = append(result.Errors, fmt.Sprintf("File %d: Not a valid image format", i+1))
		}
		if int64(len(img.Data)) > limits.MaxFileSize {
			result.IsValid = false
			result.Errors = append(result.Errors, fmt.Sprintf("File %d: Exceeds %d MB limit", i+1, limits.MaxFileSize/(1024*1024)))
		}
	}

	return result
}

// DetectMediaType sniffs the content type from the file bytes.
func DetectMediaType(data []byte) string {
	mediaType := http.DetectContentType(data)
	// DetectContentType returns "type/subtype; charset=..." for some types.
	if i := strings.Index(mediaType, ";"); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}
	return mediaType
}
