// Package scoring aggregates the latest indicator values, detected
// levels and pivot points into a composite score, scenario
// probabilities, price targets and a market sentiment with rationale.
package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"index-analyzer/internal/analysis/indicators"
	"index-analyzer/internal/analysis/levels"
)

// Snapshot carries the most recent defined value of every input the
// aggregator consumes. NaN marks an indicator that is unavailable or
// still warming up; missing inputs are skipped, never an error.
type Snapshot struct {
	Price         float64
	RSI           float64
	MACDHistogram float64
	ADX           float64
	DIPlus        float64
	DIMinus       float64
	StochK        float64
	PercentB      float64
	MFI           float64
	EMA           map[int]float64
	OBV           []float64
	Pivots        *indicators.PivotPoints
	Levels        *levels.Result
}

// NewSnapshot returns a snapshot with every scalar input marked
// unavailable.
func NewSnapshot() *Snapshot {
	nan := math.NaN()
	return &Snapshot{
		Price:         nan,
		RSI:           nan,
		MACDHistogram: nan,
		ADX:           nan,
		DIPlus:        nan,
		DIMinus:       nan,
		StochK:        nan,
		PercentB:      nan,
		MFI:           nan,
		EMA:           make(map[int]float64),
	}
}

// TrendStrength is the weighted composite score with its rationale.
type TrendStrength struct {
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
}

// Probabilities holds the vote-based scenario distribution. The three
// percentages sum to 100.
type Probabilities struct {
	Bullish        float64 `json:"bullish_probability"`
	Bearish        float64 `json:"bearish_probability"`
	Neutral        float64 `json:"neutral_probability"`
	BullishSignals int     `json:"bullish_signals"`
	BearishSignals int     `json:"bearish_signals"`
	NeutralSignals int     `json:"neutral_signals"`
	TotalSignals   int     `json:"total_signals"`
}

// Target is one candidate price objective.
type Target struct {
	Level    string  `json:"level"`
	Price    float64 `json:"price"`
	Distance float64 `json:"distance"`
}

// Targets groups price objectives by direction, closest first.
type Targets struct {
	Bullish []Target `json:"bullish"`
	Bearish []Target `json:"bearish"`
}

// Result is the full aggregation output for one analysis run.
type Result struct {
	Sentiment     string        `json:"sentiment"`
	Score         float64       `json:"score"`
	Reasoning     string        `json:"reasoning"`
	Probabilities Probabilities `json:"probabilities"`
	Targets       Targets       `json:"price_targets"`
}

// Aggregator computes scores from snapshots. Stateless and safe for
// concurrent use.
type Aggregator struct{}

func NewAggregator() *Aggregator { return &Aggregator{} }

// Score runs the complete aggregation.
func (a *Aggregator) Score(s *Snapshot) Result {
	probs := a.Probabilities(s)
	sentiment, score, reasoning := a.Sentiment(s, probs)
	return Result{
		Sentiment:     sentiment,
		Score:         score,
		Reasoning:     reasoning,
		Probabilities: probs,
		Targets:       a.PriceTargets(s),
	}
}

// TrendStrength computes the weighted composite score on the
// [-100, +100] scale plus a short rationale built from the strongest
// contributions.
func (a *Aggregator) TrendStrength(s *Snapshot) TrendStrength {
	var score, weight float64
	var reasons []string

	if defined(s.RSI) {
		switch {
		case s.RSI > 70:
			score += 2
			weight += 2
			reasons = append(reasons, fmt.Sprintf("RSI overbought (%.1f)", s.RSI))
		case s.RSI > 50:
			score++
			weight++
			reasons = append(reasons, fmt.Sprintf("RSI bullish (%.1f)", s.RSI))
		case s.RSI < 30:
			score -= 2
			weight += 2
			reasons = append(reasons, fmt.Sprintf("RSI oversold (%.1f)", s.RSI))
		default:
			score--
			weight++
			reasons = append(reasons, fmt.Sprintf("RSI bearish (%.1f)", s.RSI))
		}
	}

	if defined(s.MACDHistogram) {
		if s.MACDHistogram > 0 {
			score += 1.5
			reasons = append(reasons, fmt.Sprintf("MACD positive (%.4f)", s.MACDHistogram))
		} else {
			score -= 1.5
			reasons = append(reasons, fmt.Sprintf("MACD negative (%.4f)", s.MACDHistogram))
		}
		weight += 1.5
	}

	if defined(s.ADX) {
		if s.ADX > 25 {
			if defined(s.DIPlus) && defined(s.DIMinus) {
				if s.DIPlus > s.DIMinus {
					score += 2
					reasons = append(reasons, "ADX bullish (DI+ > DI-)")
				} else {
					score -= 2
					reasons = append(reasons, "ADX bearish (DI- > DI+)")
				}
				weight += 2
			}
		} else {
			reasons = append(reasons, fmt.Sprintf("ADX weak (%.1f)", s.ADX))
		}
	}

	if defined(s.Price) {
		var above, below int
		for _, period := range sortedPeriods(s.EMA) {
			ema := s.EMA[period]
			if !defined(ema) {
				continue
			}
			if s.Price > ema {
				score++
				above++
			} else {
				score--
				below++
			}
			weight++
		}
		if above+below > 0 {
			reasons = append(reasons, fmt.Sprintf("EMAs: %d above / %d below", above, below))
		}
	}

	if defined(s.PercentB) {
		if s.PercentB > 0.8 {
			score -= 0.5
			reasons = append(reasons, "Bollinger high (reversal risk)")
		} else if s.PercentB < 0.2 {
			score += 0.5
			reasons = append(reasons, "Bollinger low (rebound chance)")
		}
		weight += 0.5
	}

	if len(s.OBV) > 0 {
		curr := s.OBV[len(s.OBV)-1]
		prev := curr
		if len(s.OBV) > 5 {
			prev = s.OBV[len(s.OBV)-5]
		}
		if curr > prev*1.02 {
			score++
			reasons = append(reasons, "OBV rising")
		} else if curr < prev*0.98 {
			score--
			reasons = append(reasons, "OBV falling")
		}
		weight++
	}

	final := 0.0
	if weight > 0 {
		final = clamp(score/weight*50, -100, 100)
	}

	reasoning := "no clear signals"
	if len(reasons) > 0 {
		if len(reasons) > 4 {
			reasons = reasons[:4]
		}
		reasoning = strings.Join(reasons, ", ")
	}

	return TrendStrength{Score: final, Reasoning: reasoning}
}

// Probabilities tallies directional votes across the indicators and
// converts them to a percentage distribution.
func (a *Aggregator) Probabilities(s *Snapshot) Probabilities {
	var bullish, bearish, neutral, total int

	vote := func(isBull, isBear bool) {
		switch {
		case isBull:
			bullish++
		case isBear:
			bearish++
		default:
			neutral++
		}
		total++
	}

	if defined(s.RSI) {
		vote(s.RSI > 60, s.RSI < 40)
	}
	if defined(s.MACDHistogram) {
		if math.Abs(s.MACDHistogram) < 0.001 {
			vote(false, false)
		} else {
			vote(s.MACDHistogram > 0, s.MACDHistogram < 0)
		}
	}
	if defined(s.StochK) {
		vote(s.StochK > 70, s.StochK < 30)
	}
	if defined(s.PercentB) {
		// Band position votes with the move here, unlike the
		// mean-reversion reading in TrendStrength
		vote(s.PercentB > 0.8, s.PercentB < 0.2)
	}
	if defined(s.MFI) {
		vote(s.MFI > 60, s.MFI < 40)
	}

	if defined(s.Price) {
		for _, period := range []int{50, 200} {
			ema, ok := s.EMA[period]
			if !ok || !defined(ema) || ema == 0 {
				continue
			}
			diff := (s.Price - ema) / ema * 100
			vote(diff > 1, diff < -1)
		}
	}

	if len(s.OBV) > 0 {
		curr := s.OBV[len(s.OBV)-1]
		window := s.OBV
		if len(window) > 20 {
			window = window[len(window)-20:]
		}
		var sum float64
		for _, v := range window {
			sum += v
		}
		avg := sum / float64(len(window))
		diff := 0.0
		if avg != 0 {
			diff = (curr - avg) / avg * 100
		}
		vote(diff > 5, diff < -5)
	}

	// A weak ADX counts twice toward neutrality
	if defined(s.ADX) && s.ADX < 20 {
		neutral += 2
		total += 2
	}

	if total == 0 {
		return Probabilities{Bullish: 33.33, Bearish: 33.33, Neutral: 33.34}
	}

	return Probabilities{
		Bullish:        round2(float64(bullish) / float64(total) * 100),
		Bearish:        round2(float64(bearish) / float64(total) * 100),
		Neutral:        round2(float64(neutral) / float64(total) * 100),
		BullishSignals: bullish,
		BearishSignals: bearish,
		NeutralSignals: neutral,
		TotalSignals:   total,
	}
}

// Sentiment blends the composite score with the vote distribution and
// maps it onto a five-step scale. The vote bias is applied before
// both the neutral override and the threshold mapping.
func (a *Aggregator) Sentiment(s *Snapshot, probs Probabilities) (sentiment string, score float64, reasoning string) {
	ts := a.TrendStrength(s)
	score = ts.Score
	reasoning = ts.Reasoning

	if probs.TotalSignals > 0 {
		bias := float64(probs.BullishSignals-probs.BearishSignals) / float64(probs.TotalSignals) * 20
		score += bias
		reasoning = fmt.Sprintf("%s | signals: %d up / %d flat / %d down",
			reasoning, probs.BullishSignals, probs.NeutralSignals, probs.BearishSignals)
	}

	var mainReason string
	switch {
	case float64(probs.NeutralSignals) > float64(probs.TotalSignals)*0.6 && math.Abs(score) < 15:
		sentiment = "Neutral"
		mainReason = "High neutrality, consolidation"
	case score >= 25:
		sentiment = "Very Bullish"
		mainReason = "Strong upward signals"
	case score >= 10:
		sentiment = "Bullish"
		mainReason = "Positive bias"
	case score >= -10:
		sentiment = "Neutral"
		mainReason = "Balanced market"
	case score >= -25:
		sentiment = "Bearish"
		mainReason = "Negative bias"
	default:
		sentiment = "Very Bearish"
		mainReason = "Strong downward signals"
	}

	return sentiment, score, mainReason + ": " + reasoning
}

// PriceTargets classifies Fibonacci levels, pivot levels and detected
// support/resistance into bullish targets above and bearish targets
// below the current price.
func (a *Aggregator) PriceTargets(s *Snapshot) Targets {
	targets := Targets{}
	if !defined(s.Price) || s.Price == 0 {
		return targets
	}
	current := s.Price

	add := func(label string, price float64) {
		t := Target{
			Level:    label,
			Price:    round2(price),
			Distance: round2((price - current) / current * 100),
		}
		if price > current {
			targets.Bullish = append(targets.Bullish, t)
		} else if price < current {
			targets.Bearish = append(targets.Bearish, t)
		}
	}

	if s.Levels != nil && s.Levels.Fibonacci != nil {
		for _, lvl := range s.Levels.Fibonacci.Retracements {
			add(lvl.Label, lvl.Price)
		}
		for _, lvl := range s.Levels.Fibonacci.Extensions {
			if lvl.Price > current {
				add(lvl.Label, lvl.Price)
			}
		}
	}

	if s.Pivots != nil {
		for i, price := range []float64{s.Pivots.R1, s.Pivots.R2, s.Pivots.R3} {
			if price > current {
				add(fmt.Sprintf("Resistance R%d", i+1), price)
			}
		}
		for i, price := range []float64{s.Pivots.S1, s.Pivots.S2, s.Pivots.S3} {
			if price > 0 && price < current {
				add(fmt.Sprintf("Support S%d", i+1), price)
			}
		}
	}

	if s.Levels != nil {
		for _, lvl := range s.Levels.Resistances {
			if lvl.Price > current {
				add(lvl.Label, lvl.Price)
			}
		}
		for _, lvl := range s.Levels.Supports {
			if lvl.Price < current {
				add(lvl.Label, lvl.Price)
			}
		}
	}

	sort.SliceStable(targets.Bullish, func(i, j int) bool {
		return targets.Bullish[i].Distance < targets.Bullish[j].Distance
	})
	sort.SliceStable(targets.Bearish, func(i, j int) bool {
		return math.Abs(targets.Bearish[i].Distance) < math.Abs(targets.Bearish[j].Distance)
	})

	if len(targets.Bullish) > 5 {
		targets.Bullish = targets.Bullish[:5]
	}
	if len(targets.Bearish) > 5 {
		targets.Bearish = targets.Bearish[:5]
	}

	return targets
}

func defined(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func sortedPeriods(m map[int]float64) []int {
	periods := make([]int, 0, len(m))
	for p := range m {
		periods = append(periods, p)
	}
	sort.Ints(periods)
	return periods
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
