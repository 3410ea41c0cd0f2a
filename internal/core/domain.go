package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Once    Cadence = "once"
	Weekly  Cadence = "weekly"
	Monthly Cadence = "monthly"
	Yearly  Cadence = "yearly"
)

type (
	// Cadence is the recurrence pattern of an expense template.
	Cadence string

	// Date is a calendar date pinned to UTC midnight. All date math in the
	// billing engine goes through this type so that weekday and day-of-month
	// reads can never shift with the runtime's local timezone.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// ExpenseTemplate is the canonical record a user creates. A materialized
	// occurrence has the same shape with Cadence=Once, IsRecurring=false and
	// OriginalTemplateID pointing at its generator.
	ExpenseTemplate struct {
		ID                 int64
		Description        string
		Amount             Money
		Cadence            Cadence
		AnchorDate         Date
		EndDate            Date // zero = open-ended
		IsRecurring        bool
		OriginalTemplateID *int64
	}

	// Occurrence is a single dated expense instance the expander asks the
	// caller to persist.
	Occurrence struct {
		Date       Date
		Amount     Money
		TemplateID int64
	}
)

var (
	ErrInvalidMonth     = errors.New("month must be between 1 and 12")
	ErrInvalidYear      = errors.New("year must be positive")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidCadence   = errors.New("invalid cadence")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEndBeforeAnchor  = errors.New("end date before anchor date")
	ErrEmptyDescription = errors.New("empty description")
)

// NewDate creates a Date from year, month, day at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string into a UTC calendar date.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(s), time.UTC)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// Today converts a wall-clock instant to the calendar date it falls on in UTC.
func Today(now time.Time) Date {
	y, m, d := now.UTC().Date()
	return NewDate(y, int(m), d)
}

// DaysInMonth returns the number of days in the given month, leap years
// included.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as 1..12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

// Weekday returns the weekday with Sunday = 0.
func (d Date) Weekday() int {
	return int(d.Time.Weekday())
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Time.Format("2006-01-02")
}

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After reports whether d is strictly after other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

// Equal reports whether d and other are the same calendar date.
func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (c Cadence) Validate() error {
	switch c {
	case Once, Weekly, Monthly, Yearly:
		return nil
	default:
		return ErrInvalidCadence
	}
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// EffectiveCadence resolves the cadence the billing engine must honor.
// A template flagged non-recurring behaves as a one-time expense whatever
// its cadence field says, and a materialized occurrence is never itself
// recurring.
func (t ExpenseTemplate) EffectiveCadence() Cadence {
	if !t.IsRecurring || t.OriginalTemplateID != nil {
		return Once
	}
	return t.Cadence
}

// IsOccurrence reports whether this record was generated from a template.
func (t ExpenseTemplate) IsOccurrence() bool {
	return t.OriginalTemplateID != nil
}

func (t ExpenseTemplate) Validate() error {
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if err := t.Cadence.Validate(); err != nil {
		return err
	}
	if err := t.AnchorDate.Validate(); err != nil {
		return errors.New("invalid anchor date: " + err.Error())
	}
	if !t.EndDate.IsZero() && t.EndDate.Before(t.AnchorDate) {
		return ErrEndBeforeAnchor
	}
	return nil
}

// ValidatePeriod checks a (year, month) reporting period. Invalid input is
// rejected rather than clamped; defaulting a bad month to January is the
// exact class of bug this service exists to remove.
func ValidatePeriod(year, month int) error {
	if year <= 0 {
		return ErrInvalidYear
	}
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	return nil
}
