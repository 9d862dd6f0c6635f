package server

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/gtr-comics/comic-grader/internal/model"
	"github.com/gtr-comics/comic-grader/internal/upload"
)

// normalizeProviderName maps request aliases onto registry keys.
func normalizeProviderName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "claude" {
		return "anthropic"
	}
	return name
}

// parseGradeForm reads the multipart grading form: text fields plus the
// uploaded images under the "images" key.
func (s *Server) parseGradeForm(r *http.Request) (model.GradeRequest, error) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return model.GradeRequest{}, eris.Wrap(err, "server: parse multipart form")
	}

	req := model.GradeRequest{
		ComicName:   strings.TrimSpace(r.FormValue("comicName")),
		IssueNumber: strings.TrimSpace(r.FormValue("issueNumber")),
	}

	if r.MultipartForm == nil {
		return req, nil
	}
	for _, header := range r.MultipartForm.File["images"] {
		file, err := header.Open()
		if err != nil {
			return model.GradeRequest{}, eris.Wrapf(err, "server: open upload %s", header.Filename)
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return model.GradeRequest{}, eris.Wrapf(err, "server: read upload %s", header.Filename)
		}
		req.Images = append(req.Images, model.Image{
			Data:      data,
			MediaType: upload.DetectMediaType(data),
		})
	}
	return req, nil
}

func (s *Server) handleGrade(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseGradeForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	providerName := normalizeProviderName(r.FormValue("aiProvider"))
	if req.ComicName == "" || req.IssueNumber == "" || providerName == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields: comicName, issueNumber, aiProvider")
		return
	}

	if validation := upload.ValidateFiles(req.Images, s.limits); !validation.IsValid {
		writeError(w, http.StatusBadRequest, "File validation failed", validation.Errors...)
		return
	}

	registry := s.dispatcher.Registry()
	p := registry.Get(providerName)
	if p == nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success":            false,
			"error":              fmt.Sprintf("Unknown AI provider: %s", providerName),
			"availableProviders": registry.List(),
		})
		return
	}
	if !p.Configured(r.Context()) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%s API is not configured", p.DisplayName()))
		return
	}

	result := s.dispatcher.Grade(r.Context(), providerName, req)
	if !result.Success {
		writeError(w, http.StatusBadGateway, result.Error)
		return
	}

	stored, err := s.store.SaveReport(r.Context(), req.ComicName, req.IssueNumber, *result.Report)
	if err != nil {
		zap.L().Error("save report", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save report")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"id":      stored.ID,
		"data":    result.Report,
	})
}

func (s *Server) handleGradeBatch(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseGradeForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	var providers []string
	for _, name := range strings.Split(r.FormValue("providers"), ",") {
		if name = normalizeProviderName(name); name != "" {
			providers = append(providers, name)
		}
	}
	if req.ComicName == "" || req.IssueNumber == "" || len(providers) == 0 {
		writeError(w, http.StatusBadRequest, "Missing required fields: comicName, issueNumber, providers")
		return
	}

	if validation := upload.ValidateFiles(req.Images, s.limits); !validation.IsValid {
		writeError(w, http.StatusBadRequest, "File validation failed", validation.Errors...)
		return
	}

	results := s.dispatcher.GradeAll(r.Context(), providers, req)

	type batchEntry struct {
		model.GradeResult
		ID string `json:"id,omitempty"`
	}
	entries := make([]batchEntry, 0, len(results))
	for _, result := range results {
		entry := batchEntry{GradeResult: result}
		if result.Success {
			stored, err := s.store.SaveReport(r.Context(), req.ComicName, req.IssueNumber, *result.Report)
			if err != nil {
				zap.L().Error("save batch report",
					zap.String("provider", result.Provider),
					zap.Error(err),
				)
			} else {
				entry.ID = stored.ID
			}
		}
		entries = append(entries, entry)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    entries,
	})
}
