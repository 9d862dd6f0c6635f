package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/gtr-comics/comic-grader/internal/export"
	"github.com/gtr-comics/comic-grader/internal/model"
	"github.com/gtr-comics/comic-grader/internal/store"
)

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	filter := store.ReportFilter{
		Provider:  r.URL.Query().Get("provider"),
		ComicName: r.URL.Query().Get("comic"),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	reports, err := s.store.ListReports(r.Context(), filter)
	if err != nil {
		zap.L().Error("list reports", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}
	if reports == nil {
		reports = []model.StoredReport{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    reports,
	})
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	stored, err := s.store.GetReport(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}
	if err != nil {
		zap.L().Error("get report", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load report")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    stored,
	})
}

func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := s.store.DeleteReport(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}
	if err != nil {
		zap.L().Error("delete report", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete report")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	stored, err := s.store.GetReport(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}
	if err != nil {
		zap.L().Error("export report", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load report")
		return
	}

	out, err := export.Render(format, *stored)
	if err != nil {
		zap.L().Error("render report", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to render report")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "report-"+id+"."+format.Extension()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}
