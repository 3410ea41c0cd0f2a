package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"agridom/internal/core"
	"agridom/internal/log"
)

// templateRequest is the JSON body for create and update. Amount is a
// decimal string ("120.00"); binary floats never touch money.
type templateRequest struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Cadence     string `json:"cadence"`
	AnchorDate  string `json:"anchor_date"`
	EndDate     string `json:"end_date,omitempty"`
	IsRecurring bool   `json:"is_recurring"`
}

type templateResponse struct {
	ID                 int64  `json:"id"`
	Description        string `json:"description"`
	Amount             string `json:"amount"`
	AmountCents        int64  `json:"amount_cents"`
	Cadence            string `json:"cadence"`
	AnchorDate         string `json:"anchor_date"`
	EndDate            string `json:"end_date,omitempty"`
	IsRecurring        bool   `json:"is_recurring"`
	OriginalTemplateID *int64 `json:"original_template_id,omitempty"`
}

func toTemplateResponse(t core.ExpenseTemplate) templateResponse {
	resp := templateResponse{
		ID:                 t.ID,
		Description:        t.Description,
		Amount:             t.Amount.Decimal().String(),
		AmountCents:        t.Amount.Cents,
		Cadence:            string(t.Cadence),
		AnchorDate:         t.AnchorDate.String(),
		IsRecurring:        t.IsRecurring,
		OriginalTemplateID: t.OriginalTemplateID,
	}
	if !t.EndDate.IsZero() {
		resp.EndDate = t.EndDate.String()
	}
	return resp
}

func (s *Server) decodeTemplate(w http.ResponseWriter, r *http.Request) (core.ExpenseTemplate, bool) {
	var req templateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return core.ExpenseTemplate{}, false
	}

	cents, err := core.ParseDecimalToCents(strings.TrimSpace(req.Amount))
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid amount")
		return core.ExpenseTemplate{}, false
	}

	anchor, err := core.ParseDate(req.AnchorDate)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, "invalid anchor date, expected YYYY-MM-DD")
		return core.ExpenseTemplate{}, false
	}

	t := core.ExpenseTemplate{
		Description: sanitizeInput(req.Description),
		Amount:      core.Money{Cents: cents},
		Cadence:     core.Cadence(req.Cadence),
		AnchorDate:  anchor,
		IsRecurring: req.IsRecurring,
	}

	if req.EndDate != "" {
		end, err := core.ParseDate(req.EndDate)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, "invalid end date, expected YYYY-MM-DD")
			return core.ExpenseTemplate{}, false
		}
		t.EndDate = end
	}

	return t, true
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	t, ok := s.decodeTemplate(w, r)
	if !ok {
		return
	}

	created, err := s.templates.CreateTemplate(r.Context(), t)
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to create template", log.FieldError, err)
		respondServiceError(w, err)
		return
	}

	s.invalidateReports()
	log.FromContext(r.Context()).InfoContext(r.Context(), "Template created",
		log.FieldTemplateID, created.ID,
		log.FieldCadence, string(created.Cadence),
		log.FieldAmount, created.Amount.Cents)
	respondJSON(w, http.StatusCreated, toTemplateResponse(created))
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.templates.ListTemplates(r.Context())
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to list templates", log.FieldError, err)
		respondServiceError(w, err)
		return
	}

	resp := make([]templateResponse, 0, len(templates))
	for _, t := range templates {
		resp = append(resp, toTemplateResponse(t))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	t, err := s.templates.GetTemplate(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toTemplateResponse(t))
}

func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	t, ok := s.decodeTemplate(w, r)
	if !ok {
		return
	}
	t.ID = id

	updated, err := s.templates.UpdateTemplate(r.Context(), t)
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to update template", log.FieldError, err, log.FieldTemplateID, id)
		respondServiceError(w, err)
		return
	}

	s.invalidateReports()
	log.FromContext(r.Context()).InfoContext(r.Context(), "Template updated", log.FieldTemplateID, id)
	respondJSON(w, http.StatusOK, toTemplateResponse(updated))
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.templates.DeleteTemplate(r.Context(), id); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to delete template", log.FieldError, err, log.FieldTemplateID, id)
		respondServiceError(w, err)
		return
	}

	s.invalidateReports()
	log.FromContext(r.Context()).InfoContext(r.Context(), "Template deleted", log.FieldTemplateID, id)
	respondJSON(w, http.StatusNoContent, nil)
}
