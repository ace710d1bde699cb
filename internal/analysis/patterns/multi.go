package patterns

import (
	"index-analyzer/internal/models"
)

// ThreeMethodsDetector finds a long candle, three small counter-trend
// candles held inside its range, and a final candle resuming the
// move beyond the first close.
type ThreeMethodsDetector struct{}

func (*ThreeMethodsDetector) Name() string { return "Three Methods" }

func (*ThreeMethodsDetector) Window() int { return 5 }

func (*ThreeMethodsDetector) Evaluate(candles []models.Candle, idx int) *Pattern {
	first := candles[idx-4]
	middle := candles[idx-3 : idx]
	last := candles[idx]

	if first.Bullish() && last.Bullish() && last.Close > first.Close &&
		insideRange(middle, first) && smallerBodies(middle, first) {
		return newPattern(candles, idx, "Rising Three Methods", SignalBullishContinuation, ReliabilityHigh,
			"Uptrend pausing, then resuming with strength")
	}
	if first.Bearish() && last.Bearish() && last.Close < first.Close &&
		insideRange(middle, first) && smallerBodies(middle, first) {
		return newPattern(candles, idx, "Falling Three Methods", SignalBearishContinuation, ReliabilityHigh,
			"Downtrend pausing, then resuming with strength")
	}
	return nil
}

func insideRange(middle []models.Candle, first models.Candle) bool {
	for _, c := range middle {
		if c.Close <= first.Low || c.Close >= first.High {
			return false
		}
	}
	return true
}

func smallerBodies(middle []models.Candle, first models.Candle) bool {
	for _, c := range middle {
		if c.Body() >= first.Body() {
			return false
		}
	}
	return true
}
