package errors

import (
	"math"
	"testing"
)

func TestValidateLayoutID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "aggr-1", false},
		{"valid with underscore", "bi_aggregation", false},
		{"valid with dot", "host.example", false},
		{"valid with spaces", "Hosts in DC 1", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 200)), true},
		{"path traversal", "..", true},
		{"slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"null byte", "a\x00b", true},
		{"newline", "a\nb", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLayoutID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLayoutID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateLayoutID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://monitoring.example/nodevis", false},
		{"http", "http://localhost:8080/data", false},
		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"no scheme", "example.com/data", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateWholeNumber(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"integer", 1200, false},
		{"negative integer", -40, false},
		{"fraction", 12.5, true},
		{"nan", math.NaN(), true},
		{"inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWholeNumber("width", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateWholeNumber(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidCoordinates) {
				t.Errorf("ValidateWholeNumber(%v) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidCoordinates)
			}
		})
	}
}

func TestValidateFinite(t *testing.T) {
	if err := ValidateFinite("x", 33.3); err != nil {
		t.Errorf("ValidateFinite(33.3) = %v, want nil", err)
	}
	if err := ValidateFinite("x", math.Inf(-1)); err == nil {
		t.Error("ValidateFinite(-Inf) = nil, want error")
	}
}
