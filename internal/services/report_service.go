package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"agridom/internal/billing"
	"agridom/internal/core"
	"agridom/internal/storage"
)

// ReportLine is one template's contribution to a period total. Amount is a
// decimal string so exact cents survive JSON.
type ReportLine struct {
	TemplateID  int64  `json:"template_id"`
	Description string `json:"description"`
	Cadence     string `json:"cadence"`
	Amount      string `json:"amount"`
}

type MonthReport struct {
	Year  int          `json:"year"`
	Month int          `json:"month"`
	Total string       `json:"total"`
	Lines []ReportLine `json:"lines"`
}

type YearReport struct {
	Year  int          `json:"year"`
	Total string       `json:"total"`
	Lines []ReportLine `json:"lines"`
}

// ReportService computes normalized spend totals over templates. Reports
// read template records only; materialized occurrences are projections of
// the same templates and counting both would double every recurring expense.
type ReportService struct {
	storage *storage.Repository
}

func NewReportService(storage *storage.Repository) *ReportService {
	return &ReportService{storage: storage}
}

// MonthReport attributes every template's amount to (year, month) and sums
// the results. Templates contributing zero are left out of the line items.
func (s *ReportService) MonthReport(ctx context.Context, year, month int) (MonthReport, error) {
	if err := core.ValidatePeriod(year, month); err != nil {
		return MonthReport{}, err
	}

	templates, err := s.storage.ListTemplates(ctx)
	if err != nil {
		return MonthReport{}, fmt.Errorf("list templates: %w", err)
	}

	total := decimal.Zero
	lines := make([]ReportLine, 0, len(templates))
	for _, tmpl := range templates {
		amount, err := billing.MonthlyEquivalent(tmpl, year, month)
		if err != nil {
			return MonthReport{}, fmt.Errorf("template %d: %w", tmpl.ID, err)
		}
		if amount.IsZero() {
			continue
		}
		total = total.Add(amount)
		lines = append(lines, ReportLine{
			TemplateID:  tmpl.ID,
			Description: tmpl.Description,
			Cadence:     string(tmpl.EffectiveCadence()),
			Amount:      amount.String(),
		})
	}

	return MonthReport{
		Year:  year,
		Month: month,
		Total: total.String(),
		Lines: lines,
	}, nil
}

// YearReport sums each template's twelve monthly attributions. Weekly
// templates therefore contribute per real weekday count, never a flat
// 52-week estimate.
func (s *ReportService) YearReport(ctx context.Context, year int) (YearReport, error) {
	if year <= 0 {
		return YearReport{}, core.ErrInvalidYear
	}

	templates, err := s.storage.ListTemplates(ctx)
	if err != nil {
		return YearReport{}, fmt.Errorf("list templates: %w", err)
	}

	total := decimal.Zero
	lines := make([]ReportLine, 0, len(templates))
	for _, tmpl := range templates {
		amount, err := billing.AnnualEquivalent(tmpl, year)
		if err != nil {
			return YearReport{}, fmt.Errorf("template %d: %w", tmpl.ID, err)
		}
		if amount.IsZero() {
			continue
		}
		total = total.Add(amount)
		lines = append(lines, ReportLine{
			TemplateID:  tmpl.ID,
			Description: tmpl.Description,
			Cadence:     string(tmpl.EffectiveCadence()),
			Amount:      amount.String(),
		})
	}

	return YearReport{
		Year:  year,
		Total: total.String(),
		Lines: lines,
	}, nil
}
