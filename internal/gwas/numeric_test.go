package gwas

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  float64
		valid bool
	}{
		{"plain integer", "42", 42, true},
		{"plain float", "0.23", 0.23, true},
		{"standard exponential", "5e-8", 5e-8, true},
		{"catalog scientific", "5 x 10-8", 5e-8, true},
		{"caret exponent", "1 x 10^-4", 1e-4, true},
		{"unicode multiplication sign", "2 × 10-6", 2e-6, true},
		{"positive exponent no sign", "3 x 106", 3e6, true},
		{"fractional mantissa", "1.5 x 10-3", 1.5e-3, true},
		{"thousands separators", "1,234,567", 1234567, true},
		{"surrounding whitespace", "  0.5  ", 0.5, true},
		{"NR sentinel", "NR", 0, false},
		{"lowercase nr", "nr", 0, false},
		{"NA sentinel", "NA", 0, false},
		{"N/A sentinel", "N/A", 0, false},
		{"None sentinel", "None", 0, false},
		{"lone hyphen", "-", 0, false},
		{"lone period", ".", 0, false},
		{"empty string", "", 0, false},
		{"free text", "not a number", 0, false},
		{"range text", "0.1-0.3", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseNumber(tt.raw)
			assert.Equal(t, tt.valid, got.Valid)
			if tt.valid {
				assert.InDelta(t, tt.want, got.Float64, 1e-18)
			}
		})
	}
}

func TestParseNumberIdempotent(t *testing.T) {
	// Normalizing an already-numeric value returns it unchanged.
	for _, raw := range []string{"0.23", "5e-8", "42", "-1.5"} {
		first := ParseNumber(raw)
		assert.True(t, first.Valid)

		again := ParseNumber(strconv.FormatFloat(first.Float64, 'g', -1, 64))
		assert.True(t, again.Valid)
		assert.Equal(t, first.Float64, again.Float64)
	}
}
