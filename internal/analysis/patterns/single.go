package patterns

import (
	"index-analyzer/internal/models"
)

// DojiDetector finds candles whose body is under 10% of the full range.
// The signal depends on the preceding trend.
type DojiDetector struct{}

func (*DojiDetector) Name() string { return "Doji" }

func (*DojiDetector) Window() int { return 1 }

func (*DojiDetector) Evaluate(candles []models.Candle, idx int) *Pattern {
	c := candles[idx]
	if c.Range() <= 0 || c.Body()/c.Range() >= 0.1 {
		return nil
	}

	signal := SignalNeutral
	switch precedingTrend(candles, idx) {
	case trendUp:
		signal = SignalBearishReversal
	case trendDown:
		signal = SignalBullishReversal
	}

	return newPattern(candles, idx, "Doji", signal, ReliabilityMedium,
		"Market indecision, possible trend reversal")
}

// HammerDetector finds long lower shadows after a downtrend.
type HammerDetector struct{}

func (*HammerDetector) Name() string { return "Hammer" }

func (*HammerDetector) Window() int { return 2 }

func (*HammerDetector) Evaluate(candles []models.Candle, idx int) *Pattern {
	c := candles[idx]
	if c.LowerShadow() > c.Body()*2 &&
		c.UpperShadow() < c.Body()*0.3 &&
		precedingTrend(candles, idx) == trendDown {
		return newPattern(candles, idx, "Hammer", SignalBullishReversal, ReliabilityHigh,
			"Strong bullish reversal signal after a downtrend")
	}
	return nil
}

// HangingManDetector is the hammer geometry after an uptrend.
type HangingManDetector struct{}

func (*HangingManDetector) Name() string { return "Hanging Man" }

func (*HangingManDetector) Window() int { return 2 }

func (*HangingManDetector) Evaluate(candles []models.Candle, idx int) *Pattern {
	c := candles[idx]
	if c.LowerShadow() > c.Body()*2 &&
		c.UpperShadow() < c.Body()*0.3 &&
		precedingTrend(candles, idx) == trendUp {
		return newPattern(candles, idx, "Hanging Man", SignalBearishReversal, ReliabilityMedium,
			"Possible bearish reversal signal after an uptrend")
	}
	return nil
}

// ShootingStarDetector finds long upper shadows after an uptrend.
type ShootingStarDetector struct{}

func (*ShootingStarDetector) Name() string { return "Shooting Star" }

func (*ShootingStarDetector) Window() int { return 2 }

func (*ShootingStarDetector) Evaluate(candles []models.Candle, idx int) *Pattern {
	c := candles[idx]
	if c.UpperShadow() > c.Body()*2 &&
		c.LowerShadow() < c.Body()*0.3 &&
		precedingTrend(candles, idx) == trendUp {
		return newPattern(candles, idx, "Shooting Star", SignalBearishReversal, ReliabilityHigh,
			"Strong bearish reversal signal after an uptrend")
	}
	return nil
}

// InvertedHammerDetector is the shooting-star geometry after a downtrend.
type InvertedHammerDetector struct{}

func (*InvertedHammerDetector) Name() string { return "Inverted Hammer" }

func (*InvertedHammerDetector) Window() int { return 2 }

func (*InvertedHammerDetector) Evaluate(candles []models.Candle, idx int) *Pattern {
	c := candles[idx]
	if c.UpperShadow() > c.Body()*2 &&
		c.LowerShadow() < c.Body()*0.3 &&
		precedingTrend(candles, idx) == trendDown {
		return newPattern(candles, idx, "Inverted Hammer", SignalBullishReversal, ReliabilityMedium,
			"Possible bullish reversal signal after a downtrend")
	}
	return nil
}

// SpinningTopDetector finds small bodies with shadows on both sides.
type SpinningTopDetector struct{}

func (*SpinningTopDetector) Name() string { return "Spinning Top" }

func (*SpinningTopDetector) Window() int { return 1 }

func (*SpinningTopDetector) Evaluate(candles []models.Candle, idx int) *Pattern {
	c := candles[idx]
	if c.Range() > 0 &&
		c.Body()/c.Range() < 0.3 &&
		c.UpperShadow() > c.Body() &&
		c.LowerShadow() > c.Body() {
		return newPattern(candles, idx, "Spinning Top", SignalNeutral, ReliabilityLow,
			"Indecision, possible consolidation")
	}
	return nil
}

// MarubozuDetector finds near-shadowless candles: the body covers more
// than 95% of the range.
type MarubozuDetector struct{}

func (*MarubozuDetector) Name() string { return "Marubozu" }

func (*MarubozuDetector) Window() int { return 1 }

func (*MarubozuDetector) Evaluate(candles []models.Candle, idx int) *Pattern {
	c := candles[idx]
	if c.Range() <= 0 || c.Body()/c.Range() <= 0.95 {
		return nil
	}
	if c.Bullish() {
		return newPattern(candles, idx, "Bullish Marubozu", SignalStrongBullish, ReliabilityHigh,
			"Very strong bullish signal, buyers in control")
	}
	return newPattern(candles, idx, "Bearish Marubozu", SignalStrongBearish, ReliabilityHigh,
		"Very strong bearish signal, sellers in control")
}

// LongLeggedDojiDetector finds dojis with extreme shadows both ways.
type LongLeggedDojiDetector struct{}

func (*LongLeggedDojiDetector) Name() string { return "Long-Legged Doji" }

func (*LongLeggedDojiDetector) Window() int { return 1 }

func (*LongLeggedDojiDetector) Evaluate(candles []models.Candle, idx int) *Pattern {
	c := candles[idx]
	if c.Range() > 0 &&
		c.Body()/c.Range() < 0.05 &&
		c.UpperShadow() > c.Body()*5 &&
		c.LowerShadow() > c.Body()*5 {
		return newPattern(candles, idx, "Long-Legged Doji", SignalNeutral, ReliabilityMedium,
			"Extreme indecision, important turning point possible")
	}
	return nil
}

// DragonflyDojiDetector finds dojis whose range is almost entirely
// lower shadow.
type DragonflyDojiDetector struct{}

func (*DragonflyDojiDetector) Name() string { return "Dragonfly Doji" }

func (*DragonflyDojiDetector) Window() int { return 1 }

func (*DragonflyDojiDetector) Evaluate(candles []models.Candle, idx int) *Pattern {
	c := candles[idx]
	if c.Range() <= 0 ||
		c.Body()/c.Range() >= 0.05 ||
		c.LowerShadow() <= c.Range()*0.7 ||
		c.UpperShadow() >= c.Range()*0.1 {
		return nil
	}

	if precedingTrend(candles, idx) == trendDown {
		return newPattern(candles, idx, "Dragonfly Doji", SignalBullishReversal, ReliabilityHigh,
			"Strong bullish reversal signal at the bottom")
	}
	return newPattern(candles, idx, "Dragonfly Doji", SignalNeutral, ReliabilityMedium,
		"Support found")
}

// GravestoneDojiDetector finds dojis whose range is almost entirely
// upper shadow.
type GravestoneDojiDetector struct{}

func (*GravestoneDojiDetector) Name() string { return "Gravestone Doji" }

func (*GravestoneDojiDetector) Window() int { return 1 }

func (*GravestoneDojiDetector) Evaluate(candles []models.Candle, idx int) *Pattern {
	c := candles[idx]
	if c.Range() <= 0 ||
		c.Body()/c.Range() >= 0.05 ||
		c.UpperShadow() <= c.Range()*0.7 ||
		c.LowerShadow() >= c.Range()*0.1 {
		return nil
	}

	if precedingTrend(candles, idx) == trendUp {
		return newPattern(candles, idx, "Gravestone Doji", SignalBearishReversal, ReliabilityHigh,
			"Strong bearish reversal signal at the top")
	}
	return newPattern(candles, idx, "Gravestone Doji", SignalNeutral, ReliabilityMedium,
		"Resistance found")
}
