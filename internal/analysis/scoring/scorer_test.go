package scoring

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"index-analyzer/internal/analysis/indicators"
	"index-analyzer/internal/analysis/levels"
)

func TestTrendStrengthBullishInputs(t *testing.T) {
	s := NewSnapshot()
	s.Price = 110
	s.RSI = 65
	s.MACDHistogram = 0.5
	s.ADX = 30
	s.DIPlus = 28
	s.DIMinus = 12
	s.EMA = map[int]float64{9: 105, 21: 103, 50: 100, 200: 95}
	s.OBV = []float64{100, 110, 120, 130, 140, 150, 200}

	ts := NewAggregator().TrendStrength(s)

	// RSI +1/1, MACD +1.5/1.5, ADX +2/2, EMAs +4/4, OBV +1/1
	// => 9.5/9.5 * 50 = 50
	if math.Abs(ts.Score-50) > 1e-9 {
		t.Errorf("expected score 50, got %f", ts.Score)
	}
	if ts.Reasoning == "" || ts.Reasoning == "no clear signals" {
		t.Errorf("expected contribution reasons, got %q", ts.Reasoning)
	}
}

func TestTrendStrengthEmptySnapshot(t *testing.T) {
	ts := NewAggregator().TrendStrength(NewSnapshot())
	if ts.Score != 0 {
		t.Errorf("expected score 0 with no inputs, got %f", ts.Score)
	}
	if ts.Reasoning != "no clear signals" {
		t.Errorf("unexpected reasoning %q", ts.Reasoning)
	}
}

func TestTrendStrengthOversoldRSIWeighsDouble(t *testing.T) {
	s := NewSnapshot()
	s.RSI = 25

	ts := NewAggregator().TrendStrength(s)
	// -2/2 * 50 = -50
	if math.Abs(ts.Score+50) > 1e-9 {
		t.Errorf("expected score -50, got %f", ts.Score)
	}
}

func TestTrendStrengthScoreClamped(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 100
	params.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(params)

	properties.Property("composite score stays within [-100, 100]", prop.ForAll(
		func(rsi, hist, adx, diPlus, diMinus, price float64) bool {
			s := NewSnapshot()
			s.RSI = rsi
			s.MACDHistogram = hist
			s.ADX = adx
			s.DIPlus = diPlus
			s.DIMinus = diMinus
			s.Price = price
			s.EMA = map[int]float64{50: price * 0.9, 200: price * 1.1}

			ts := NewAggregator().TrendStrength(s)
			return ts.Score >= -100 && ts.Score <= 100
		},
		gen.Float64Range(0, 100),
		gen.Float64Range(-10, 10),
		gen.Float64Range(0, 60),
		gen.Float64Range(0, 50),
		gen.Float64Range(0, 50),
		gen.Float64Range(1, 1000),
	))

	properties.TestingRun(t)
}

func TestProbabilitiesSumTo100(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 100
	params.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(params)

	properties.Property("probabilities sum to 100", prop.ForAll(
		func(rsi, hist, stochK, percentB, mfi, adx float64) bool {
			s := NewSnapshot()
			s.RSI = rsi
			s.MACDHistogram = hist
			s.StochK = stochK
			s.PercentB = percentB
			s.MFI = mfi
			s.ADX = adx

			p := NewAggregator().Probabilities(s)
			sum := p.Bullish + p.Bearish + p.Neutral
			return math.Abs(sum-100) < 0.02
		},
		gen.Float64Range(0, 100),
		gen.Float64Range(-5, 5),
		gen.Float64Range(0, 100),
		gen.Float64Range(-0.5, 1.5),
		gen.Float64Range(0, 100),
		gen.Float64Range(0, 60),
	))

	properties.TestingRun(t)
}

func TestProbabilitiesNoVotes(t *testing.T) {
	p := NewAggregator().Probabilities(NewSnapshot())
	if p.Bullish != 33.33 || p.Bearish != 33.33 || p.Neutral != 33.34 {
		t.Errorf("expected even split for empty snapshot, got %+v", p)
	}
	if p.TotalSignals != 0 {
		t.Errorf("expected zero signals, got %d", p.TotalSignals)
	}
}

func TestProbabilitiesWeakADXDoublesNeutral(t *testing.T) {
	s := NewSnapshot()
	s.RSI = 70 // bullish vote
	s.ADX = 15 // two neutral votes

	p := NewAggregator().Probabilities(s)
	if p.BullishSignals != 1 || p.NeutralSignals != 2 || p.TotalSignals != 3 {
		t.Errorf("unexpected tally %+v", p)
	}
}

func TestProbabilitiesTinyHistogramIsNeutral(t *testing.T) {
	s := NewSnapshot()
	s.MACDHistogram = 0.0005

	p := NewAggregator().Probabilities(s)
	if p.NeutralSignals != 1 || p.TotalSignals != 1 {
		t.Errorf("expected one neutral vote, got %+v", p)
	}
}

func TestSentimentBiasAppliedBeforeThresholds(t *testing.T) {
	// TrendStrength alone lands at +20 ("Bullish" band); a strongly
	// bullish vote split lifts the adjusted score past 25.
	s := NewSnapshot()
	s.RSI = 75            // +2/2 overbought, bullish vote
	s.MACDHistogram = 0.5 // +1.5/1.5, bullish vote
	s.ADX = 15            // weak: no weight, two neutral votes
	s.StochK = 80         // bullish vote
	s.MFI = 70            // bullish vote

	agg := NewAggregator()
	ts := agg.TrendStrength(s)
	if math.Abs(ts.Score-50) > 1e-9 {
		t.Fatalf("expected raw score 50, got %f", ts.Score)
	}

	probs := agg.Probabilities(s)
	sentiment, score, reasoning := agg.Sentiment(s, probs)

	// bias = (4-0)/6 * 20 = 13.33
	if score <= ts.Score {
		t.Errorf("expected vote bias to lift the score, got %f", score)
	}
	if sentiment != "Very Bullish" {
		t.Errorf("expected Very Bullish, got %s", sentiment)
	}
	if want := "signals: 4 up / 2 flat / 0 down"; !strings.Contains(reasoning, want) {
		t.Errorf("expected %q in reasoning %q", want, reasoning)
	}
}

func TestSentimentNeutralOverrideUsesAdjustedScore(t *testing.T) {
	// Mostly neutral votes and a weak adjusted score collapse to
	// Neutral. Raw score is +10, bias lifts it to 13.33, still
	// inside the override band.
	s := NewSnapshot()
	s.RSI = 45            // -1/1, neutral vote
	s.MACDHistogram = 0.5 // +1.5/1.5, bullish vote
	s.ADX = 15            // weak: two neutral votes
	s.MFI = 50            // neutral vote
	s.StochK = 55         // neutral vote

	agg := NewAggregator()
	probs := agg.Probabilities(s)
	if probs.NeutralSignals != 5 || probs.BullishSignals != 1 || probs.TotalSignals != 6 {
		t.Fatalf("unexpected tally %+v", probs)
	}

	sentiment, score, reasoning := agg.Sentiment(s, probs)
	if sentiment != "Neutral" {
		t.Errorf("expected Neutral, got %s (score %f)", sentiment, score)
	}
	if !strings.Contains(reasoning, "High neutrality") {
		t.Errorf("expected neutral override reasoning, got %q", reasoning)
	}
}

func TestPriceTargetsClassificationAndOrder(t *testing.T) {
	s := NewSnapshot()
	s.Price = 100
	s.Pivots = &indicators.PivotPoints{
		Pivot: 99,
		R1:    102, R2: 105, R3: 108,
		S1: 97, S2: 95, S3: 92,
	}
	s.Levels = &levels.Result{
		Resistances: []levels.Level{{Price: 101, Kind: levels.KindResistance, Label: "Key Resistance"}},
		Supports:    []levels.Level{{Price: 90, Kind: levels.KindSupport, Label: "Key Support"}},
	}

	targets := NewAggregator().PriceTargets(s)

	for _, tgt := range targets.Bullish {
		if tgt.Price <= 100 {
			t.Errorf("bullish target below current price: %+v", tgt)
		}
	}
	for _, tgt := range targets.Bearish {
		if tgt.Price >= 100 {
			t.Errorf("bearish target above current price: %+v", tgt)
		}
		if tgt.Distance >= 0 {
			t.Errorf("bearish distance should be negative: %+v", tgt)
		}
	}

	if targets.Bullish[0].Level != "Key Resistance" {
		t.Errorf("expected closest bullish target first, got %+v", targets.Bullish[0])
	}
	if targets.Bearish[0].Level != "Support S1" {
		t.Errorf("expected closest bearish target first, got %+v", targets.Bearish[0])
	}
}

func TestPriceTargetsTruncatedToFive(t *testing.T) {
	s := NewSnapshot()
	s.Price = 100

	var resistances []levels.Level
	for i := 0; i < 8; i++ {
		resistances = append(resistances, levels.Level{
			Price: 101 + float64(i),
			Kind:  levels.KindResistance,
			Label: "Key Resistance",
		})
	}
	s.Levels = &levels.Result{Resistances: resistances}

	targets := NewAggregator().PriceTargets(s)
	if len(targets.Bullish) != 5 {
		t.Errorf("expected 5 bullish targets, got %d", len(targets.Bullish))
	}
}

