package formula

import (
	"fmt"
	"math"
	"strings"
)

// durationFunctions is the fixed whitelist of duration formatters. Keys are
// the exact names accepted in formulas; the input is always seconds.
var durationFunctions = map[string]func(seconds float64) string{
	"formatDurationDHMS":    formatDurationDHMS,
	"formatDurationHMS":     formatDurationHMS,
	"formatDurationHMSms":   formatDurationHMSms,
	"formatDurationMS":      formatDurationMS,
	"formatDurationMSms":    formatDurationMSms,
	"formatDurationVerbose": formatDurationVerbose,
	"formatDurationCompact": formatDurationCompact,
}

// durationParts splits seconds into whole days/hours/minutes/seconds plus
// leftover milliseconds, working on the magnitude. The caller re-applies the
// sign as a prefix.
func durationParts(seconds float64) (neg bool, d, h, m, s, ms int64) {
	neg = seconds < 0
	abs := math.Abs(seconds)
	total := int64(abs)
	ms = int64(math.Round((abs - float64(total)) * 1000))
	if ms >= 1000 {
		total++
		ms -= 1000
	}
	d = total / 86400
	h = (total % 86400) / 3600
	m = (total % 3600) / 60
	s = total % 60
	return neg, d, h, m, s, ms
}

func sign(neg bool) string {
	if neg {
		return "-"
	}
	return ""
}

// formatDurationDHMS renders DD:HH:MM:SS.
func formatDurationDHMS(seconds float64) string {
	neg, d, h, m, s, _ := durationParts(seconds)
	return fmt.Sprintf("%s%02d:%02d:%02d:%02d", sign(neg), d, h, m, s)
}

// formatDurationHMS renders HH:MM:SS with days folded into hours.
func formatDurationHMS(seconds float64) string {
	neg, d, h, m, s, _ := durationParts(seconds)
	return fmt.Sprintf("%s%02d:%02d:%02d", sign(neg), d*24+h, m, s)
}

// formatDurationHMSms renders HH:MM:SS.mmm.
func formatDurationHMSms(seconds float64) string {
	neg, d, h, m, s, ms := durationParts(seconds)
	return fmt.Sprintf("%s%02d:%02d:%02d.%03d", sign(neg), d*24+h, m, s, ms)
}

// formatDurationMS renders MM:SS with hours folded into minutes.
func formatDurationMS(seconds float64) string {
	neg, d, h, m, s, _ := durationParts(seconds)
	return fmt.Sprintf("%s%02d:%02d", sign(neg), ((d*24+h)*60)+m, s)
}

// formatDurationMSms renders MM:SS.mmm.
func formatDurationMSms(seconds float64) string {
	neg, d, h, m, s, ms := durationParts(seconds)
	return fmt.Sprintf("%s%02d:%02d.%03d", sign(neg), ((d*24+h)*60)+m, s, ms)
}

// formatDurationVerbose renders a comma-joined phrase of the non-zero units,
// e.g. "1 day, 2 minutes, 5 seconds". Zero duration renders "0 seconds".
func formatDurationVerbose(seconds float64) string {
	neg, d, h, m, s, _ := durationParts(seconds)

	var parts []string
	add := func(n int64, unit string) {
		if n == 0 {
			return
		}
		if n == 1 {
			parts = append(parts, fmt.Sprintf("1 %s", unit))
			return
		}
		parts = append(parts, fmt.Sprintf("%d %ss", n, unit))
	}
	add(d, "day")
	add(h, "hour")
	add(m, "minute")
	add(s, "second")

	if len(parts) == 0 {
		return "0 seconds"
	}
	return sign(neg) + strings.Join(parts, ", ")
}

// formatDurationCompact renders the two largest non-zero units, e.g. "1h 2m",
// "2d 3h", "15m 45s", "5s". Zero duration renders "0s".
func formatDurationCompact(seconds float64) string {
	neg, d, h, m, s, _ := durationParts(seconds)

	units := []struct {
		n      int64
		suffix string
	}{
		{d, "d"},
		{h, "h"},
		{m, "m"},
		{s, "s"},
	}

	var parts []string
	for _, u := range units {
		if u.n == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%d%s", u.n, u.suffix))
		if len(parts) == 2 {
			break
		}
	}

	if len(parts) == 0 {
		return "0s"
	}
	return sign(neg) + strings.Join(parts, " ")
}
