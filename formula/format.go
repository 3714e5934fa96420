package formula

import (
	"strconv"
	"strings"
)

// defaultDecimals is used when no display format is given.
const defaultDecimals = 2

// DecimalsFromFormat infers fixed decimal places from a display-format
// template: "0.00" yields 2, "0.0" yields 1, "0" yields 0. An empty or
// malformed template yields the default of 2.
func DecimalsFromFormat(format string) int {
	format = strings.TrimSpace(format)
	if format == "" {
		return defaultDecimals
	}
	dot := strings.IndexByte(format, '.')
	if dot < 0 {
		return 0
	}
	frac := format[dot+1:]
	for _, ch := range frac {
		if ch != '0' {
			return defaultDecimals
		}
	}
	return len(frac)
}

// FormatFixed renders v in fixed-point notation with the precision inferred
// from the display-format template. Never scientific notation.
func FormatFixed(v float64, format string) string {
	return strconv.FormatFloat(v, 'f', DecimalsFromFormat(format), 64)
}
