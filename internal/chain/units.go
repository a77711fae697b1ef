package chain

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

var ErrInvalidAmount = errors.New("invalid amount")

// ParseUnits converts a non-negative decimal string such as "1.5" into the
// smallest unit for the given number of decimals. More fraction digits than
// decimals is an error rather than a silent truncation.
func ParseUnits(amount string, decimals int) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	whole, frac, hasDot := strings.Cut(amount, ".")
	if whole == "" && frac == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	if hasDot && frac == "" {
		return nil, fmt.Errorf("%w: %q has a trailing dot", ErrInvalidAmount, amount)
	}
	if !isDigits(whole) || !isDigits(frac) {
		return nil, fmt.Errorf("%w: %q is not a plain decimal number", ErrInvalidAmount, amount)
	}
	if len(frac) > decimals {
		return nil, fmt.Errorf("%w: %q has more than %d fraction digits", ErrInvalidAmount, amount, decimals)
	}

	digits := whole + frac + strings.Repeat("0", decimals-len(frac))
	v, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	return v, nil
}

// FormatUnits renders v with the given number of decimals, trimming trailing
// zeros but always keeping one fraction digit: "2.5", "1.0", "0.0".
func FormatUnits(v *big.Int, decimals int) string {
	if v == nil {
		return "0.0"
	}
	neg := v.Sign() < 0
	s := new(big.Int).Abs(v).String()
	if len(s) <= decimals {
		s = strings.Repeat("0", decimals-len(s)+1) + s
	}

	whole, frac := s[:len(s)-decimals], strings.TrimRight(s[len(s)-decimals:], "0")
	if frac == "" {
		frac = "0"
	}
	if neg {
		whole = "-" + whole
	}
	return whole + "." + frac
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
