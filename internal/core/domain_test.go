package core

import (
	"errors"
	"testing"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid date", "2025-01-01", "2025-01-01", false},
		{"valid with whitespace", "  2025-06-30 ", "2025-06-30", false},
		{"leap day", "2024-02-29", "2024-02-29", false},
		{"invalid leap day", "2025-02-29", "", true},
		{"wrong format", "01/02/2025", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got.String() != tt.want {
				t.Errorf("ParseDate(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestDateWeekdaySundayZero(t *testing.T) {
	// 2025-01-05 is a Sunday.
	if got := NewDate(2025, 1, 5).Weekday(); got != 0 {
		t.Errorf("sunday weekday = %d, want 0", got)
	}
	if got := NewDate(2025, 1, 1).Weekday(); got != 3 {
		t.Errorf("wednesday weekday = %d, want 3", got)
	}
}

func TestCadenceValidate(t *testing.T) {
	for _, c := range []Cadence{Once, Weekly, Monthly, Yearly} {
		if err := c.Validate(); err != nil {
			t.Errorf("Validate(%s) = %v, want nil", c, err)
		}
	}
	if err := Cadence("daily").Validate(); !errors.Is(err, ErrInvalidCadence) {
		t.Errorf("Validate(daily) = %v, want ErrInvalidCadence", err)
	}
	if err := Cadence("").Validate(); !errors.Is(err, ErrInvalidCadence) {
		t.Errorf("Validate(empty) = %v, want ErrInvalidCadence", err)
	}
}

func TestExpenseTemplateValidate(t *testing.T) {
	valid := ExpenseTemplate{
		Description: "Hosting",
		Amount:      Money{Cents: 6490},
		Cadence:     Monthly,
		AnchorDate:  NewDate(2024, 8, 1),
		IsRecurring: true,
	}

	tests := []struct {
		name    string
		mutate  func(*ExpenseTemplate)
		wantErr error
	}{
		{"valid", func(*ExpenseTemplate) {}, nil},
		{"empty description", func(t *ExpenseTemplate) { t.Description = "   " }, ErrEmptyDescription},
		{"negative amount", func(t *ExpenseTemplate) { t.Amount.Cents = -1 }, ErrInvalidAmount},
		{"unknown cadence", func(t *ExpenseTemplate) { t.Cadence = "quarterly" }, ErrInvalidCadence},
		{"zero anchor", func(t *ExpenseTemplate) { t.AnchorDate = Date{} }, nil},
		{"end before anchor", func(t *ExpenseTemplate) { t.EndDate = NewDate(2024, 7, 1) }, ErrEndBeforeAnchor},
		{"end equals anchor is fine", func(t *ExpenseTemplate) { t.EndDate = NewDate(2024, 8, 1) }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := valid
			tt.mutate(&tpl)
			err := tpl.Validate()
			switch tt.name {
			case "zero anchor":
				if err == nil {
					t.Error("Validate() = nil, want error for zero anchor date")
				}
			case "valid", "end equals anchor is fine":
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
			default:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
				}
			}
		})
	}
}

func TestEffectiveCadence(t *testing.T) {
	gen := int64(3)
	tests := []struct {
		name     string
		template ExpenseTemplate
		want     Cadence
	}{
		{"recurring weekly", ExpenseTemplate{Cadence: Weekly, IsRecurring: true}, Weekly},
		{"non-recurring weekly collapses to once", ExpenseTemplate{Cadence: Weekly, IsRecurring: false}, Once},
		{"occurrence collapses to once", ExpenseTemplate{Cadence: Monthly, IsRecurring: true, OriginalTemplateID: &gen}, Once},
		{"plain once", ExpenseTemplate{Cadence: Once, IsRecurring: false}, Once},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.template.EffectiveCadence(); got != tt.want {
				t.Errorf("EffectiveCadence() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestValidatePeriod(t *testing.T) {
	tests := []struct {
		year, month int
		wantErr     error
	}{
		{2025, 1, nil},
		{2025, 12, nil},
		{2025, 0, ErrInvalidMonth},
		{2025, 13, ErrInvalidMonth},
		{0, 6, ErrInvalidYear},
		{-10, 6, ErrInvalidYear},
	}

	for _, tt := range tests {
		err := ValidatePeriod(tt.year, tt.month)
		if tt.wantErr == nil && err != nil {
			t.Errorf("ValidatePeriod(%d, %d) = %v, want nil", tt.year, tt.month, err)
		}
		if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
			t.Errorf("ValidatePeriod(%d, %d) = %v, want %v", tt.year, tt.month, err, tt.wantErr)
		}
	}
}
