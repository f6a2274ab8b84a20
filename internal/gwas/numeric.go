package gwas

import (
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/guregu/null.v3"
)

// Catalogs write scientific notation in free text, e.g. "5 x 10-8",
// "1 x 10^-4" or "2 × 106". The mantissa and exponent are captured and
// rewritten to standard exponential form before parsing.
var sciNotationRe = regexp.MustCompile(`^([+-]?\d+(?:\.\d+)?)\s*[xX×]\s*10\^?\s*([+-]?\d+)$`)

// missingTokens are sentinel values treated as an absent number.
var missingTokens = map[string]bool{
	"":     true,
	"-":    true,
	".":    true,
	"nr":   true,
	"na":   true,
	"n/a":  true,
	"none": true,
	"nan":  true,
}

// ParseNumber coerces a raw catalog field into a number or an explicit
// missing value. It never fails: any value that cannot be parsed is missing.
// Parsing an already-numeric string returns it unchanged.
func ParseNumber(raw string) null.Float {
	s := strings.TrimSpace(raw)
	if missingTokens[strings.ToLower(s)] {
		return null.Float{}
	}

	// Thousands separators
	s = strings.ReplaceAll(s, ",", "")

	if m := sciNotationRe.FindStringSubmatch(s); m != nil {
		s = m[1] + "e" + m[2]
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return null.Float{}
	}
	return null.FloatFrom(f)
}
