// Package numtext parses numbers typed into forms and spreadsheets. Input
// from a Chinese IME often carries full-width digits and punctuation, which
// are folded to ASCII before parsing.
package numtext

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// ErrSyntax is returned for text that is not a plain decimal number.
var ErrSyntax = errors.New("not a decimal number")

// Normalize folds full-width characters to their ASCII forms and trims
// surrounding whitespace.
func Normalize(s string) string {
	return strings.TrimSpace(width.Narrow.String(s))
}

// ParseFloat accepts an optional sign, digits with at most one decimal point,
// and an optional decimal exponent. Hex floats, underscores, Inf and NaN are
// rejected.
func ParseFloat(s string) (float64, error) {
	s = Normalize(s)
	if !decimal(s) {
		return 0, ErrSyntax
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrSyntax
	}
	return v, nil
}

// Atoi accepts an optional sign followed by base-10 digits.
func Atoi(s string) (int, error) {
	n, err := strconv.Atoi(Normalize(s))
	if err != nil {
		return 0, ErrSyntax
	}
	return n, nil
}

func decimal(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' || r == '+' || r == '-' || r == 'e' || r == 'E':
		default:
			return false
		}
	}
	return true
}
