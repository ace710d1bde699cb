package report

import (
	"fmt"
	"strings"

	"index-analyzer/internal/analysis"
)

// Direction is the consolidated market call embedded in the report
// prompt so every section of the generated text agrees with it.
type Direction struct {
	Primary        string
	Recommendation string
	Strength       int
	Factors        []string
}

// determineDirection votes RSI, MACD histogram and the probability
// distribution into a single direction. Unlike the composite score,
// an overbought RSI counts against the trend here: the report reads
// it as stretched, not as strength.
func determineDirection(rep *analysis.Report) Direction {
	score := 0
	var factors []string

	if rsi, ok := scalarIndicator(rep, "RSI_"); ok {
		switch {
		case rsi > 70:
			score -= 2
			factors = append(factors, fmt.Sprintf("RSI overbought (%.2f)", rsi))
		case rsi > 50:
			score++
			factors = append(factors, fmt.Sprintf("RSI bullish (%.2f)", rsi))
		case rsi < 30:
			score += 2
			factors = append(factors, fmt.Sprintf("RSI oversold (%.2f)", rsi))
		default:
			score--
			factors = append(factors, fmt.Sprintf("RSI bearish (%.2f)", rsi))
		}
	}

	if hist, ok := macdHistogram(rep); ok {
		if hist > 0 {
			score += 2
			factors = append(factors, fmt.Sprintf("MACD positive (%.4f)", hist))
		} else {
			score -= 2
			factors = append(factors, fmt.Sprintf("MACD negative (%.4f)", hist))
		}
	}

	probs := rep.Score.Probabilities
	if probs.Bullish > probs.Bearish*1.5 {
		score += 2
		factors = append(factors, fmt.Sprintf("Bullish signals dominate (%.1f%%)", probs.Bullish))
	} else if probs.Bearish > probs.Bullish*1.5 {
		score -= 2
		factors = append(factors, fmt.Sprintf("Bearish signals dominate (%.1f%%)", probs.Bearish))
	}

	d := Direction{Factors: factors}
	switch {
	case score >= 3:
		d.Primary = "STRONG BULLISH"
		d.Recommendation = "BUY - Strong upward signals"
		d.Strength = min(10, 7+floorDiv(score, 2))
	case score >= 1:
		d.Primary = "BULLISH"
		d.Recommendation = "CAUTIOUS BUY - Positive signals prevail"
		d.Strength = 6
	case score >= -1:
		d.Primary = "NEUTRAL"
		d.Recommendation = "WAIT - No clear direction"
		d.Strength = 5
	case score >= -3:
		d.Primary = "BEARISH"
		d.Recommendation = "CAUTIOUS SELL - Negative signals prevail"
		d.Strength = 4
	default:
		d.Primary = "STRONG BEARISH"
		d.Recommendation = "SELL - Strong downward signals"
		d.Strength = max(1, 3+floorDiv(score, 2))
	}
	return d
}

// scalarIndicator finds the first single-value indicator whose name
// starts with the prefix.
func scalarIndicator(rep *analysis.Report, prefix string) (float64, bool) {
	for name, value := range rep.Indicators {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if v, ok := value.(float64); ok {
			return v, true
		}
	}
	return 0, false
}

func macdHistogram(rep *analysis.Report) (float64, bool) {
	for name, value := range rep.Indicators {
		if !strings.HasPrefix(name, "MACD_") {
			continue
		}
		group, ok := value.(map[string]interface{})
		if !ok {
			continue
		}
		if v, ok := group["histogram"].(float64); ok {
			return v, true
		}
	}
	return 0, false
}

// floorDiv rounds the quotient toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
