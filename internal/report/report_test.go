package report

import (
	"strings"
	"testing"

	"index-analyzer/internal/analysis"
	"index-analyzer/internal/analysis/scoring"
)

func sampleReport() *analysis.Report {
	return &analysis.Report{
		Symbol:       "^GSPC",
		CurrentPrice: 5230.45,
		Indicators: map[string]interface{}{
			"RSI_14": 62.5,
			"ATR_14": 45.12,
			"MACD_12_26_9": map[string]interface{}{
				"macd":      12.5,
				"signal":    10.2,
				"histogram": 2.3,
			},
		},
		Score: scoring.Result{
			Sentiment: "Bullish",
			Score:     35,
			Reasoning: "Positive bias: RSI bullish",
			Probabilities: scoring.Probabilities{
				Bullish: 60,
				Bearish: 20,
				Neutral: 20,
			},
		},
	}
}

func TestDetermineDirectionBullish(t *testing.T) {
	d := determineDirection(sampleReport())

	// RSI 62.5 -> +1, MACD hist 2.3 -> +2, probabilities 60 > 30 -> +2
	if d.Primary != "STRONG BULLISH" {
		t.Errorf("expected STRONG BULLISH, got %s", d.Primary)
	}
	if d.Strength < 7 || d.Strength > 10 {
		t.Errorf("unexpected strength %d", d.Strength)
	}
	if len(d.Factors) != 3 {
		t.Errorf("expected 3 factors, got %v", d.Factors)
	}
}

func TestDetermineDirectionOverboughtRSICountsAgainst(t *testing.T) {
	rep := sampleReport()
	rep.Indicators["RSI_14"] = 75.0
	rep.Score.Probabilities.Bullish = 33
	rep.Score.Probabilities.Bearish = 33

	d := determineDirection(rep)
	// RSI 75 -> -2, MACD -> +2, probabilities balanced -> 0
	if d.Primary != "NEUTRAL" {
		t.Errorf("expected NEUTRAL, got %s", d.Primary)
	}
}

func TestFallbackReportMentionsSentiment(t *testing.T) {
	rep := sampleReport()
	text := fallbackReport(rep, determineDirection(rep))

	for _, want := range []string{"^GSPC", "Bullish", "LLM not available"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in fallback report", want)
		}
	}
}

func TestFloorDiv(t *testing.T) {
	cases := []struct{ a, b, want int }{
		{4, 2, 2},
		{5, 2, 2},
		{-4, 2, -2},
		{-5, 2, -3},
	}
	for _, c := range cases {
		if got := floorDiv(c.a, c.b); got != c.want {
			t.Errorf("floorDiv(%d, %d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}
