package patterns

import (
	"math"

	"index-analyzer/internal/models"
)

// EngulfingDetector finds a candle whose body fully engulfs the
// previous candle's body, against the prior trend.
type EngulfingDetector struct{}

func (*EngulfingDetector) Name() string { return "Engulfing" }

func (*EngulfingDetector) Window() int { return 2 }

func (*EngulfingDetector) Evaluate(candles []models.Candle, idx int) *Pattern {
	prev, curr := candles[idx-1], candles[idx]

	if prev.Bearish() && curr.Bullish() &&
		curr.Open < prev.Close && curr.Close > prev.Open &&
		precedingTrend(candles, idx) == trendDown {
		return newPattern(candles, idx, "Bullish Engulfing", SignalBullishReversal, ReliabilityHigh,
			"Strong bullish reversal, buyers overwhelmed sellers")
	}
	if prev.Bullish() && curr.Bearish() &&
		curr.Open > prev.Close && curr.Close < prev.Open &&
		precedingTrend(candles, idx) == trendUp {
		return newPattern(candles, idx, "Bearish Engulfing", SignalBearishReversal, ReliabilityHigh,
			"Strong bearish reversal, sellers overwhelmed buyers")
	}
	return nil
}

// HaramiDetector finds a small body contained inside the previous
// candle's larger body.
type HaramiDetector struct{}

func (*HaramiDetector) Name() string { return "Harami" }

func (*HaramiDetector) Window() int { return 2 }

func (*HaramiDetector) Evaluate(candles []models.Candle, idx int) *Pattern {
	prev, curr := candles[idx-1], candles[idx]

	if prev.Bearish() && curr.Bullish() &&
		curr.Open > prev.Close && curr.Close < prev.Open &&
		precedingTrend(candles, idx) == trendDown {
		return newPattern(candles, idx, "Bullish Harami", SignalBullishReversal, ReliabilityMedium,
			"Selling pressure fading, possible upward turn")
	}
	if prev.Bullish() && curr.Bearish() &&
		curr.Open < prev.Close && curr.Close > prev.Open &&
		precedingTrend(candles, idx) == trendUp {
		return newPattern(candles, idx, "Bearish Harami", SignalBearishReversal, ReliabilityMedium,
			"Buying pressure fading, possible downward turn")
	}
	return nil
}

// PiercingLineDetector finds a bullish candle that opens below the
// prior low and closes above the midpoint of the prior bearish body.
type PiercingLineDetector struct{}

func (*PiercingLineDetector) Name() string { return "Piercing Line" }

func (*PiercingLineDetector) Window() int { return 2 }

func (*PiercingLineDetector) Evaluate(candles []models.Candle, idx int) *Pattern {
	prev, curr := candles[idx-1], candles[idx]

	if prev.Bearish() && curr.Bullish() &&
		curr.Open < prev.Low &&
		curr.Close > (prev.Open+prev.Close)/2 &&
		curr.Close < prev.Open &&
		precedingTrend(candles, idx) == trendDown {
		return newPattern(candles, idx, "Piercing Line", SignalBullishReversal, ReliabilityHigh,
			"Bullish reversal, buyers reclaimed over half the prior loss")
	}
	return nil
}

// DarkCloudCoverDetector is the bearish mirror of the piercing line.
type DarkCloudCoverDetector struct{}

func (*DarkCloudCoverDetector) Name() string { return "Dark Cloud Cover" }

func (*DarkCloudCoverDetector) Window() int { return 2 }

func (*DarkCloudCoverDetector) Evaluate(candles []models.Candle, idx int) *Pattern {
	prev, curr := candles[idx-1], candles[idx]

	if prev.Bullish() && curr.Bearish() &&
		curr.Open > prev.High &&
		curr.Close < (prev.Open+prev.Close)/2 &&
		curr.Close > prev.Open &&
		precedingTrend(candles, idx) == trendUp {
		return newPattern(candles, idx, "Dark Cloud Cover", SignalBearishReversal, ReliabilityHigh,
			"Bearish reversal, sellers erased over half the prior gain")
	}
	return nil
}

// TweezerDetector finds matching consecutive highs at a top or
// matching lows at a bottom, within a 0.1% tolerance.
type TweezerDetector struct{}

func (*TweezerDetector) Name() string { return "Tweezer" }

func (*TweezerDetector) Window() int { return 2 }

func (*TweezerDetector) Evaluate(candles []models.Candle, idx int) *Pattern {
	prev, curr := candles[idx-1], candles[idx]

	if math.Abs(curr.High-prev.High) < curr.High*0.001 &&
		precedingTrend(candles, idx) == trendUp {
		return newPattern(candles, idx, "Tweezer Top", SignalBearishReversal, ReliabilityMedium,
			"Double top at matching highs, resistance holding")
	}
	if math.Abs(curr.Low-prev.Low) < curr.Low*0.001 &&
		precedingTrend(candles, idx) == trendDown {
		return newPattern(candles, idx, "Tweezer Bottom", SignalBullishReversal, ReliabilityMedium,
			"Double bottom at matching lows, support holding")
	}
	return nil
}
