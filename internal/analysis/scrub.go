package analysis

import (
	"math"
	"strings"

	"index-analyzer/internal/analysis/indicators"
)

// latestIndicatorValues reduces full indicator columns to their most
// recent defined value, rounded for presentation. Columns that never
// produced a value map to nil, which marshals as JSON null.
func latestIndicatorValues(singles map[string][]float64, multis map[string]map[string][]float64) map[string]interface{} {
	out := make(map[string]interface{}, len(singles)+len(multis))
	for name, values := range singles {
		out[name] = roundedLatest(name, values)
	}
	for name, columns := range multis {
		group := make(map[string]interface{}, len(columns))
		for key, values := range columns {
			group[key] = roundedLatest(name, values)
		}
		out[name] = group
	}
	return out
}

// roundedLatest applies per-indicator plausibility checks and
// rounding: oscillators outside their bounds and non-positive ranges
// are treated as unavailable rather than reported.
func roundedLatest(name string, values []float64) interface{} {
	v, ok := indicators.LastDefined(values)
	if !ok || math.IsInf(v, 0) {
		return nil
	}

	switch {
	case strings.HasPrefix(name, "RSI"):
		if v < 0 || v > 100 {
			return nil
		}
		return round(v, 2)
	case strings.HasPrefix(name, "MACD"):
		return round(v, 4)
	case strings.HasPrefix(name, "ATR"):
		if v < 0 {
			return nil
		}
		return round(v, 2)
	default:
		return round(v, 2)
	}
}

// Scrub walks decoded JSON data and replaces every NaN or infinite
// float with nil so the result marshals to valid JSON.
func Scrub(v interface{}) interface{} {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil
		}
		return val
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = Scrub(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = Scrub(item)
		}
		return out
	default:
		return v
	}
}

func round(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
