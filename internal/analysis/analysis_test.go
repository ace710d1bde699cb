package analysis

import (
	"context"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"index-analyzer/internal/config"
	apperrors "index-analyzer/internal/errors"
	"index-analyzer/internal/models"
)

func testPipeline() *Pipeline {
	return NewPipeline(config.Default(), zerolog.Nop())
}

func seriesOf(candles []models.Candle) *models.Series {
	return models.NewSeries("^GSPC", models.IntervalDay, candles)
}

func dayCandle(i int, o, h, l, c float64, volume int64) models.Candle {
	return models.Candle{
		Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * 24 * time.Hour),
		Open:      o,
		High:      h,
		Low:       l,
		Close:     c,
		Volume:    volume,
	}
}

func flatCandles(n int) []models.Candle {
	candles := make([]models.Candle, n)
	for i := range candles {
		candles[i] = dayCandle(i, 100, 100, 100, 100, 5000)
	}
	return candles
}

func risingCandles(n int) []models.Candle {
	candles := make([]models.Candle, 0, n)
	price := 100.0
	for i := 0; i < n; i++ {
		next := price * 1.02
		// Open at the low, close at the high: no wicks at all.
		candles = append(candles, dayCandle(i, price, next, price, next, 5000))
		price = next
	}
	return candles
}

func TestRunEmptySeries(t *testing.T) {
	_, err := testPipeline().Run(context.Background(), seriesOf(nil))
	if err == nil {
		t.Fatal("expected an error for an empty series")
	}
	if !apperrors.Is(err, apperrors.ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func TestRunShortHistoryReportsNullRSI(t *testing.T) {
	report, err := testPipeline().Run(context.Background(), seriesOf(risingCandles(13)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v := report.Indicators["RSI_14"]; v != nil {
		t.Errorf("expected null RSI with 13 candles, got %v", v)
	}
}

func TestRunFlatSeries(t *testing.T) {
	report, err := testPipeline().Run(context.Background(), seriesOf(flatCandles(60)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	atr, ok := report.Indicators["ATR_14"].(float64)
	if !ok {
		t.Fatalf("expected a numeric ATR, got %v", report.Indicators["ATR_14"])
	}
	if atr != 0 {
		t.Errorf("expected zero ATR for a flat series, got %f", atr)
	}

	if n := len(report.Levels.Supports); n != 0 {
		t.Errorf("expected no supports at a flat price, got %d", n)
	}
	if n := len(report.Levels.Resistances); n != 0 {
		t.Errorf("expected no resistances at a flat price, got %d", n)
	}
	if report.Score.Sentiment == "" {
		t.Error("expected a sentiment even for a flat series")
	}
}

func TestRunRisingSeriesWithoutWicks(t *testing.T) {
	report, err := testPipeline().Run(context.Background(), seriesOf(risingCandles(60)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := make(map[string]bool)
	for _, p := range report.Patterns {
		seen[p.Name] = true
	}
	for _, name := range []string{"Doji", "Hammer", "Shooting Star"} {
		if seen[name] {
			t.Errorf("did not expect %s in a monotone wickless series", name)
		}
	}
	if !seen["Three White Soldiers"] {
		t.Error("expected Three White Soldiers in a monotone rising series")
	}

	for _, tgt := range report.Score.Targets.Bearish {
		if tgt.Price >= report.CurrentPrice {
			t.Errorf("bearish target not below price: %+v", tgt)
		}
	}
	for _, tgt := range report.Score.Targets.Bullish {
		if tgt.Price <= report.CurrentPrice {
			t.Errorf("bullish target not above price: %+v", tgt)
		}
	}
}

func TestRunIsIdempotent(t *testing.T) {
	candles := risingCandles(80)

	first, err := testPipeline().Run(context.Background(), seriesOf(candles))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := testPipeline().Run(context.Background(), seriesOf(candles))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first.Indicators, second.Indicators) {
		t.Error("indicator values differ between identical runs")
	}
	if !reflect.DeepEqual(first.Score, second.Score) {
		t.Error("scores differ between identical runs")
	}
	if len(first.Patterns) != len(second.Patterns) {
		t.Errorf("pattern counts differ: %d vs %d", len(first.Patterns), len(second.Patterns))
	}
}

func TestRunProbabilitiesSumTo100(t *testing.T) {
	report, err := testPipeline().Run(context.Background(), seriesOf(risingCandles(80)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := report.Score.Probabilities
	if sum := p.Bullish + p.Bearish + p.Neutral; math.Abs(sum-100) > 0.02 {
		t.Errorf("probabilities sum to %f", sum)
	}
}

func TestScrub(t *testing.T) {
	in := map[string]interface{}{
		"ok":  1.5,
		"bad": math.NaN(),
		"nested": []interface{}{
			math.Inf(1),
			"text",
			map[string]interface{}{"v": math.Inf(-1)},
		},
	}

	out := Scrub(in).(map[string]interface{})
	if out["ok"] != 1.5 {
		t.Errorf("expected finite value preserved, got %v", out["ok"])
	}
	if out["bad"] != nil {
		t.Errorf("expected NaN scrubbed to nil, got %v", out["bad"])
	}
	nested := out["nested"].([]interface{})
	if nested[0] != nil || nested[1] != "text" {
		t.Errorf("unexpected nested scrub %v", nested)
	}
	if inner := nested[2].(map[string]interface{}); inner["v"] != nil {
		t.Errorf("expected -Inf scrubbed to nil, got %v", inner["v"])
	}
}
