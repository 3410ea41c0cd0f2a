package billing

import (
	"agridom/internal/core"
)

// ExpandForPeriod returns the occurrence records that should be persisted to
// materialize the template for (year, month), given the occurrence dates the
// caller already has on record for this template.
//
// The function performs no I/O: the caller lists existing occurrences, persists
// the returned records, and re-queries on the next call. Feeding the results
// of one call back as existing makes a second call return nothing, which is
// the idempotence guarantee the materializer relies on.
//
// Occurrence dates never precede the anchor and never exceed the end date.
// Monthly and yearly anchor days that don't exist in the target month are
// clamped to its last day.
func ExpandForPeriod(t core.ExpenseTemplate, year, month int, existing []core.Date) ([]core.Occurrence, error) {
	if err := core.ValidatePeriod(year, month); err != nil {
		return nil, err
	}
	if err := t.Amount.Validate(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(existing))
	for _, d := range existing {
		seen[d.String()] = struct{}{}
	}

	switch t.EffectiveCadence() {
	case core.Once:
		// Non-recurring templates and occurrence records never expand.
		return nil, nil

	case core.Weekly:
		var out []core.Occurrence
		for _, d := range weeklyDates(t, year, month) {
			if _, ok := seen[d.String()]; ok {
				continue
			}
			out = append(out, core.Occurrence{Date: d, Amount: t.Amount, TemplateID: t.ID})
		}
		return out, nil

	case core.Monthly:
		if !monthInWindow(t, year, month) {
			return nil, nil
		}
		target := core.NewDate(year, month, clampDay(year, month, t.AnchorDate.Day()))
		return singleOccurrence(t, target, seen), nil

	case core.Yearly:
		if month != t.AnchorDate.Month() {
			return nil, nil
		}
		target := core.NewDate(year, month, clampDay(year, month, t.AnchorDate.Day()))
		return singleOccurrence(t, target, seen), nil

	default:
		return nil, core.ErrInvalidCadence
	}
}

// singleOccurrence emits the one occurrence for a monthly/yearly target date,
// or nothing when the date is outside the window or already materialized.
func singleOccurrence(t core.ExpenseTemplate, target core.Date, seen map[string]struct{}) []core.Occurrence {
	if !inWindow(t, target) {
		return nil
	}
	if _, ok := seen[target.String()]; ok {
		return nil
	}
	return []core.Occurrence{{Date: target, Amount: t.Amount, TemplateID: t.ID}}
}
