package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"agridom/internal/core"
	"agridom/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// respondServiceError maps domain and storage errors onto HTTP statuses.
// Validation failures are the caller's fault; anything else is ours.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, http.StatusNotFound, "record not found")
	case errors.Is(err, core.ErrInvalidMonth),
		errors.Is(err, core.ErrInvalidYear),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidCadence),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrEndBeforeAnchor),
		errors.Is(err, core.ErrEmptyDescription):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func parsePathID(r *http.Request) (int64, error) {
	idStr := r.PathValue("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// parsePeriod reads year and month query parameters. Bad values are an
// error, never silently defaulted.
func parsePeriod(r *http.Request) (year, month int, err error) {
	year, err = parseIntParam(r, "year")
	if err != nil {
		return 0, 0, err
	}
	month, err = parseIntParam(r, "month")
	if err != nil {
		return 0, 0, err
	}
	if err := core.ValidatePeriod(year, month); err != nil {
		return 0, 0, err
	}
	return year, month, nil
}

func parseIntParam(r *http.Request, name string) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return 0, errors.New("missing " + name + " parameter")
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New("invalid " + name + " parameter")
	}
	return n, nil
}

// sanitizeInput removes control characters and trims whitespace
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
