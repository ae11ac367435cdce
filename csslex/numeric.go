package csslex

import "strconv"

// parseFloatStrconv converts a CSS numeric-token literal (sign, digits,
// optional fraction, optional exponent) to a float64. A leading "+" is
// stripped before delegating to strconv.ParseFloat, which would also
// accept it.
func parseFloatStrconv(repr string) (float64, bool) {
	if len(repr) > 0 && repr[0] == '+' {
		repr = repr[1:]
	}
	v, err := strconv.ParseFloat(repr, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
