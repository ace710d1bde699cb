package patterns

import (
	"index-analyzer/internal/models"
)

// MorningStarDetector finds a bearish candle, a small-bodied star and
// a bullish candle closing above the midpoint of the first body.
type MorningStarDetector struct{}

func (*MorningStarDetector) Name() string { return "Morning Star" }

func (*MorningStarDetector) Window() int { return 3 }

func (*MorningStarDetector) Evaluate(candles []models.Candle, idx int) *Pattern {
	first, star, last := candles[idx-2], candles[idx-1], candles[idx]

	if first.Bearish() &&
		star.Body() < first.Body()*0.3 &&
		last.Bullish() &&
		last.Close > (first.Open+first.Close)/2 &&
		precedingTrend(candles, idx-2) == trendDown {
		return newPattern(candles, idx, "Morning Star", SignalBullishReversal, ReliabilityVeryHigh,
			"Major bullish reversal after a downtrend")
	}
	return nil
}

// EveningStarDetector is the bearish mirror of the morning star.
type EveningStarDetector struct{}

func (*EveningStarDetector) Name() string { return "Evening Star" }

func (*EveningStarDetector) Window() int { return 3 }

func (*EveningStarDetector) Evaluate(candles []models.Candle, idx int) *Pattern {
	first, star, last := candles[idx-2], candles[idx-1], candles[idx]

	if first.Bullish() &&
		star.Body() < first.Body()*0.3 &&
		last.Bearish() &&
		last.Close < (first.Open+first.Close)/2 &&
		precedingTrend(candles, idx-2) == trendUp {
		return newPattern(candles, idx, "Evening Star", SignalBearishReversal, ReliabilityVeryHigh,
			"Major bearish reversal after an uptrend")
	}
	return nil
}

// ThreeWhiteSoldiersDetector finds three consecutive bullish candles
// with rising opens and closes.
type ThreeWhiteSoldiersDetector struct{}

func (*ThreeWhiteSoldiersDetector) Name() string { return "Three White Soldiers" }

func (*ThreeWhiteSoldiersDetector) Window() int { return 3 }

func (*ThreeWhiteSoldiersDetector) Evaluate(candles []models.Candle, idx int) *Pattern {
	a, b, c := candles[idx-2], candles[idx-1], candles[idx]

	if a.Bullish() && b.Bullish() && c.Bullish() &&
		b.Close > a.Close && c.Close > b.Close &&
		b.Open > a.Open && c.Open > b.Open {
		return newPattern(candles, idx, "Three White Soldiers", SignalStrongBullish, ReliabilityVeryHigh,
			"Sustained buying pressure across three sessions")
	}
	return nil
}

// ThreeBlackCrowsDetector is the bearish mirror of the soldiers.
type ThreeBlackCrowsDetector struct{}

func (*ThreeBlackCrowsDetector) Name() string { return "Three Black Crows" }

func (*ThreeBlackCrowsDetector) Window() int { return 3 }

func (*ThreeBlackCrowsDetector) Evaluate(candles []models.Candle, idx int) *Pattern {
	a, b, c := candles[idx-2], candles[idx-1], candles[idx]

	if a.Bearish() && b.Bearish() && c.Bearish() &&
		b.Close < a.Close && c.Close < b.Close &&
		b.Open < a.Open && c.Open < b.Open {
		return newPattern(candles, idx, "Three Black Crows", SignalStrongBearish, ReliabilityVeryHigh,
			"Sustained selling pressure across three sessions")
	}
	return nil
}

// ThreeInsideDetector finds a harami followed by a confirming close.
type ThreeInsideDetector struct{}

func (*ThreeInsideDetector) Name() string { return "Three Inside" }

func (*ThreeInsideDetector) Window() int { return 3 }

func (*ThreeInsideDetector) Evaluate(candles []models.Candle, idx int) *Pattern {
	a, b, c := candles[idx-2], candles[idx-1], candles[idx]

	if a.Bearish() && b.Bullish() &&
		b.Close < a.Open && b.Open > a.Close &&
		c.Bullish() && c.Close > b.Close {
		return newPattern(candles, idx, "Three Inside Up", SignalBullishReversal, ReliabilityHigh,
			"Confirmed bullish harami reversal")
	}
	if a.Bullish() && b.Bearish() &&
		b.Close > a.Open && b.Open < a.Close &&
		c.Bearish() && c.Close < b.Close {
		return newPattern(candles, idx, "Three Inside Down", SignalBearishReversal, ReliabilityHigh,
			"Confirmed bearish harami reversal")
	}
	return nil
}

// ThreeOutsideDetector finds an engulfing followed by a confirming
// close.
type ThreeOutsideDetector struct{}

func (*ThreeOutsideDetector) Name() string { return "Three Outside" }

func (*ThreeOutsideDetector) Window() int { return 3 }

func (*ThreeOutsideDetector) Evaluate(candles []models.Candle, idx int) *Pattern {
	a, b, c := candles[idx-2], candles[idx-1], candles[idx]

	if a.Bearish() && b.Bullish() &&
		b.Open < a.Close && b.Close > a.Open &&
		c.Bullish() && c.Close > b.Close {
		return newPattern(candles, idx, "Three Outside Up", SignalBullishReversal, ReliabilityHigh,
			"Confirmed bullish engulfing reversal")
	}
	if a.Bullish() && b.Bearish() &&
		b.Open > a.Close && b.Close < a.Open &&
		c.Bearish() && c.Close < b.Close {
		return newPattern(candles, idx, "Three Outside Down", SignalBearishReversal, ReliabilityHigh,
			"Confirmed bearish engulfing reversal")
	}
	return nil
}
