package http

import (
	"encoding/json"
	"net/http"

	"agridom/internal/core"
	"agridom/internal/log"
)

func (s *Server) handleMonthReport(w http.ResponseWriter, r *http.Request) {
	year, month, err := parsePeriod(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := s.reportCacheKey("month", year, month)
	if body, found := s.reportCache.Get(key); found {
		log.FromContext(r.Context()).DebugContext(r.Context(), "Report cache hit", log.FieldYear, year, log.FieldMonth, month)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
		return
	}

	report, err := s.reports.MonthReport(r.Context(), year, month)
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Month report error", log.FieldError, err, log.FieldYear, year, log.FieldMonth, month)
		respondServiceError(w, err)
		return
	}

	body, err := json.Marshal(report)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.reportCache.Set(key, body)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) handleYearReport(w http.ResponseWriter, r *http.Request) {
	year, err := parseIntParam(r, "year")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if year <= 0 {
		respondError(w, http.StatusBadRequest, core.ErrInvalidYear.Error())
		return
	}

	key := s.reportCacheKey("year", year, 0)
	if body, found := s.reportCache.Get(key); found {
		log.FromContext(r.Context()).DebugContext(r.Context(), "Report cache hit", log.FieldYear, year)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
		return
	}

	report, err := s.reports.YearReport(r.Context(), year)
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Year report error", log.FieldError, err, log.FieldYear, year)
		respondServiceError(w, err)
		return
	}

	body, err := json.Marshal(report)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	s.reportCache.Set(key, body)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) handleMaterialize(w http.ResponseWriter, r *http.Request) {
	year, month, err := parsePeriod(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.materializer.MaterializePeriod(r.Context(), year, month)
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Materialization failed", log.FieldError, err, log.FieldYear, year, log.FieldMonth, month)
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
