package patterns

import "sort"

// Statistics summarizes a scan result for reporting.
type Statistics struct {
	Total           int            `json:"total"`
	Bullish         int            `json:"bullish"`
	Bearish         int            `json:"bearish"`
	Neutral         int            `json:"neutral"`
	HighReliability int            `json:"high_reliability"`
	ByName          map[string]int `json:"by_name"`
	Recent          []Pattern      `json:"recent"`
}

// recentLimit caps the number of latest hits kept in Statistics.
const recentLimit = 5

// Summarize aggregates hits into counts and keeps the latest hits by
// candle index.
func Summarize(hits []Pattern) Statistics {
	stats := Statistics{ByName: make(map[string]int)}

	for _, p := range hits {
		stats.Total++
		stats.ByName[p.Name]++
		switch p.Signal.Direction() {
		case DirectionBullish:
			stats.Bullish++
		case DirectionBearish:
			stats.Bearish++
		default:
			stats.Neutral++
		}
		if p.Reliability >= ReliabilityHigh {
			stats.HighReliability++
		}
	}

	recent := make([]Pattern, len(hits))
	copy(recent, hits)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Index > recent[j].Index
	})
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	stats.Recent = recent

	return stats
}
