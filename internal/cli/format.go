package cli

import (
	"fmt"
	"strings"
	"time"
)

// FormatPrice formats a price with thousands separators and two
// decimal places, e.g. 5230.456 -> "5,230.46".
func FormatPrice(value float64) string {
	negative := value < 0
	if negative {
		value = -value
	}

	str := fmt.Sprintf("%.2f", value)
	parts := strings.Split(str, ".")
	intPart := groupThousands(parts[0])

	result := intPart + "." + parts[1]
	if negative {
		result = "-" + result
	}
	return result
}

func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatPercent formats a percentage with an explicit sign.
func FormatPercent(value float64) string {
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

// FormatDate formats a timestamp using the configured layout.
func FormatDate(t time.Time, layout string) string {
	if layout == "" {
		layout = "02-Jan-2006"
	}
	return t.Format(layout)
}

// FormatIndicator renders a scrubbed indicator value: numbers as-is,
// nil as a dash.
func FormatIndicator(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return "–"
	case float64:
		return trimTrailingZeros(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func trimTrailingZeros(v float64) string {
	s := fmt.Sprintf("%.4f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
