package endf

import (
	"math"
	"testing"
)

func TestParseFloat(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{name: "implicit positive exponent", input: "  1.234560+2", want: 123.456},
		{name: "implicit negative exponent", input: " 2.500000-3", want: 0.0025},
		{name: "negative mantissa", input: "-1.000000+0", want: -1},
		{name: "explicit exponent", input: " 1.0E+05   ", want: 1e5},
		{name: "explicit lowercase exponent", input: "    3.0e-1", want: 0.3},
		{name: "plain decimal", input: "   26.00000", want: 26},
		{name: "integer text", input: "      26000", want: 26000},
		{name: "blank", input: "           ", want: 0},
		{name: "empty", input: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFloat(tt.input)
			if err != nil {
				t.Fatalf("ParseFloat(%q) error: %v", tt.input, err)
			}
			if math.Abs(got-tt.want) > 1e-12*math.Max(1, math.Abs(tt.want)) {
				t.Errorf("ParseFloat(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFloat_Malformed(t *testing.T) {
	if _, err := ParseFloat("  1.2.3x   "); err == nil {
		t.Error("expected error for malformed float")
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{input: "          5", want: 5},
		{input: "         -7", want: -7},
		{input: "           ", want: 0},
		{input: "", want: 0},
	}

	for _, tt := range tests {
		got, err := ParseInt(tt.input)
		if err != nil {
			t.Fatalf("ParseInt(%q) error: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("ParseInt(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}

	if _, err := ParseInt("        1.5"); err == nil {
		t.Error("expected error for non-integer field")
	}
}

func TestColumn_ShortLine(t *testing.T) {
	if got := column("abc", 1, 4); got != "bc  " {
		t.Errorf("column() = %q, want %q", got, "bc  ")
	}
	if got := column("abc", 10, 3); got != "   " {
		t.Errorf("column() = %q, want %q", got, "   ")
	}
	if got := field("", 5); got != "           " {
		t.Errorf("field() = %q, want 11 blanks", got)
	}
}
