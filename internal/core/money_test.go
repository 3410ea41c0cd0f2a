package core

import (
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"dot separator", "12.34", 1234, false},
		{"comma separator", "12,34", 1234, false},
		{"integer", "500", 50000, false},
		{"single fraction digit", "64.9", 6490, false},
		{"third decimal rounds down", "12.344", 1234, false},
		{"third decimal rounds up", "12.346", 1235, false},
		{"leading dot", ".50", 50, false},
		{"zero allowed", "0", 0, false},
		{"whitespace trimmed", " 10.00 ", 1000, false},
		{"negative rejected", "-5.00", 0, true},
		{"plus sign rejected", "+5.00", 0, true},
		{"empty", "", 0, true},
		{"letters", "abc", 0, true},
		{"two dots", "1.2.3", 0, true},
		{"overflow", "99999999999999999999", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimalToCents(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDecimalToCents(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDecimalToCents(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestMoneyDecimal(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{6490, "64.9"},
		{12000, "120"},
		{1, "0.01"},
		{0, "0"},
	}

	for _, tt := range tests {
		if got := (Money{Cents: tt.cents}).Decimal().String(); got != tt.want {
			t.Errorf("Money{%d}.Decimal() = %s, want %s", tt.cents, got, tt.want)
		}
	}
}
