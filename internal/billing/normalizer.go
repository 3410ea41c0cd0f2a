package billing

import (
	"github.com/shopspring/decimal"

	"agridom/internal/core"
)

var twelve = decimal.NewFromInt(12)

// MonthlyEquivalent computes the amount of the template's cost attributable
// to the calendar month (year, month), without materializing any occurrence
// rows. Reporting views call this directly for fast aggregate totals.
//
// By cadence:
//   - once:    the base amount when the anchor date falls in the month, else 0.
//   - monthly: the base amount for every month inside the recurrence window.
//   - yearly:  base amount / 12 for every month inside the window, divided
//     exactly (decimal arithmetic, no float drift).
//   - weekly:  base amount times the number of in-window dates in the month
//     that fall on the anchor's weekday (Sunday = 0). The count varies
//     between 4 and 5 per month and is computed by walking the month's days.
//
// Non-recurring templates and materialized occurrences are treated as once
// regardless of their cadence field.
func MonthlyEquivalent(t core.ExpenseTemplate, year, month int) (decimal.Decimal, error) {
	if err := core.ValidatePeriod(year, month); err != nil {
		return decimal.Zero, err
	}
	if err := t.Amount.Validate(); err != nil {
		return decimal.Zero, err
	}

	amount := t.Amount.Decimal()

	switch t.EffectiveCadence() {
	case core.Once:
		if t.AnchorDate.Year() == year && t.AnchorDate.Month() == month {
			return amount, nil
		}
		return decimal.Zero, nil

	case core.Monthly:
		if monthInWindow(t, year, month) {
			return amount, nil
		}
		return decimal.Zero, nil

	case core.Yearly:
		if monthInWindow(t, year, month) {
			return amount.Div(twelve), nil
		}
		return decimal.Zero, nil

	case core.Weekly:
		n := len(weeklyDates(t, year, month))
		if n == 0 {
			return decimal.Zero, nil
		}
		return amount.Mul(decimal.NewFromInt(int64(n))), nil

	default:
		return decimal.Zero, core.ErrInvalidCadence
	}
}

// AnnualEquivalent computes the template's total for a calendar year as the
// sum of its twelve monthly equivalents. Summation is the only correct way
// to aggregate a year: weekly templates hit 4 weeks in some months and 5 in
// others, so shortcut formulas (x52, x12x4.33) are systematically wrong.
func AnnualEquivalent(t core.ExpenseTemplate, year int) (decimal.Decimal, error) {
	if year <= 0 {
		return decimal.Zero, core.ErrInvalidYear
	}
	total := decimal.Zero
	for month := 1; month <= 12; month++ {
		m, err := MonthlyEquivalent(t, year, month)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(m)
	}
	return total, nil
}
