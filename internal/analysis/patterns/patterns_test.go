package patterns

import (
	"testing"
	"time"

	"index-analyzer/internal/models"
)

func candle(i int, o, h, l, c float64) models.Candle {
	return models.Candle{
		Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * 24 * time.Hour),
		Open:      o,
		High:      h,
		Low:       l,
		Close:     c,
		Volume:    1000,
	}
}

// downtrendPrefix returns n candles declining steeply enough that the
// preceding-trend check classifies the move as a downtrend.
func downtrendPrefix(n int, start float64) []models.Candle {
	candles := make([]models.Candle, 0, n)
	price := start
	for i := 0; i < n; i++ {
		next := price * 0.98
		candles = append(candles, candle(i, price, price+1, next-1, next))
		price = next
	}
	return candles
}

func uptrendPrefix(n int, start float64) []models.Candle {
	candles := make([]models.Candle, 0, n)
	price := start
	for i := 0; i < n; i++ {
		next := price * 1.02
		candles = append(candles, candle(i, price, next+1, price-1, next))
		price = next
	}
	return candles
}

func names(hits []Pattern) map[string]bool {
	set := make(map[string]bool, len(hits))
	for _, p := range hits {
		set[p.Name] = true
	}
	return set
}

func TestPrecedingTrend(t *testing.T) {
	down := downtrendPrefix(7, 100)
	if got := precedingTrend(down, 6); got != trendDown {
		t.Errorf("expected downtrend, got %v", got)
	}

	up := uptrendPrefix(7, 100)
	if got := precedingTrend(up, 6); got != trendUp {
		t.Errorf("expected uptrend, got %v", got)
	}

	flat := make([]models.Candle, 7)
	for i := range flat {
		flat[i] = candle(i, 100, 101, 99, 100)
	}
	if got := precedingTrend(flat, 6); got != trendSideways {
		t.Errorf("expected sideways, got %v", got)
	}

	if got := precedingTrend(flat, 4); got != trendUnknown {
		t.Errorf("expected unknown for short history, got %v", got)
	}
}

func TestHammerAfterDowntrend(t *testing.T) {
	candles := downtrendPrefix(6, 100)
	// Small body near the top of the range with a long lower wick.
	candles = append(candles, candle(6, 90.0, 90.21, 85.0, 90.2))

	hits := (&HammerDetector{}).Evaluate(candles, 6)
	if hits == nil {
		t.Fatal("expected hammer detection")
	}
	if hits.Signal != SignalBullishReversal {
		t.Errorf("expected bullish reversal, got %s", hits.Signal)
	}
	if hits.Reliability != ReliabilityHigh {
		t.Errorf("expected high reliability, got %s", hits.Reliability)
	}
}

func TestHammerGeometryWithoutDowntrendIgnored(t *testing.T) {
	candles := uptrendPrefix(6, 100)
	candles = append(candles, candle(6, 113.0, 113.21, 108.0, 113.2))

	if p := (&HammerDetector{}).Evaluate(candles, 6); p != nil {
		t.Errorf("hammer geometry in an uptrend should not match Hammer, got %+v", p)
	}
	// The same geometry after an uptrend is a hanging man instead.
	if p := (&HangingManDetector{}).Evaluate(candles, 6); p == nil {
		t.Error("expected hanging man detection")
	}
}

func TestMarubozuDirection(t *testing.T) {
	bull := []models.Candle{candle(0, 100, 110.2, 99.9, 110)}
	p := (&MarubozuDetector{}).Evaluate(bull, 0)
	if p == nil || p.Name != "Bullish Marubozu" || p.Signal != SignalStrongBullish {
		t.Fatalf("expected bullish marubozu, got %+v", p)
	}

	bear := []models.Candle{candle(0, 110, 110.1, 99.8, 100)}
	p = (&MarubozuDetector{}).Evaluate(bear, 0)
	if p == nil || p.Name != "Bearish Marubozu" || p.Signal != SignalStrongBearish {
		t.Fatalf("expected bearish marubozu, got %+v", p)
	}
}

func TestBullishEngulfing(t *testing.T) {
	candles := downtrendPrefix(6, 100)
	prev := candles[5]
	// Bearish candle, then a bullish candle whose body engulfs it.
	candles[5] = candle(5, prev.Open, prev.High, prev.Close-1, prev.Close)
	engulf := candle(6, prev.Close-0.5, prev.Open+2, prev.Close-1, prev.Open+1)
	candles = append(candles, engulf)

	p := (&EngulfingDetector{}).Evaluate(candles, 6)
	if p == nil {
		t.Fatal("expected bullish engulfing detection")
	}
	if p.Name != "Bullish Engulfing" || p.Signal != SignalBullishReversal {
		t.Errorf("unexpected result %+v", p)
	}
}

func TestThreeWhiteSoldiersNeedsNoTrend(t *testing.T) {
	candles := []models.Candle{
		candle(0, 100, 103, 99, 102),
		candle(1, 101, 105, 100, 104),
		candle(2, 102, 107, 101, 106),
	}
	p := (&ThreeWhiteSoldiersDetector{}).Evaluate(candles, 2)
	if p == nil {
		t.Fatal("expected three white soldiers detection")
	}
	if p.Reliability != ReliabilityVeryHigh {
		t.Errorf("expected very high reliability, got %s", p.Reliability)
	}
}

func TestRisingThreeMethods(t *testing.T) {
	candles := []models.Candle{
		candle(0, 100, 111, 99, 110),
		candle(1, 109, 110, 106, 107),
		candle(2, 107, 108, 104, 105),
		candle(3, 105, 106, 102, 103),
		candle(4, 104, 116, 103, 115),
	}
	p := (&ThreeMethodsDetector{}).Evaluate(candles, 4)
	if p == nil {
		t.Fatal("expected rising three methods detection")
	}
	if p.Signal != SignalBullishContinuation {
		t.Errorf("expected bullish continuation, got %s", p.Signal)
	}
}

func TestScanFindsDojiInFlatSeries(t *testing.T) {
	candles := make([]models.Candle, 10)
	for i := range candles {
		candles[i] = candle(i, 100, 101, 99, 100.05)
	}
	hits := NewRecognizer().Scan(candles)
	if !names(hits)["Doji"] {
		t.Error("expected doji hits in a flat series")
	}
	for _, p := range hits {
		if p.Name == "Doji" && p.Signal.Direction() != DirectionNeutral {
			t.Errorf("flat-series doji should be neutral, got %s", p.Signal)
		}
	}
}

func TestScanEmptySeries(t *testing.T) {
	if hits := NewRecognizer().Scan(nil); len(hits) != 0 {
		t.Errorf("expected no hits on empty series, got %d", len(hits))
	}
}

func TestPrimaryPrefersHigherReliability(t *testing.T) {
	hits := []Pattern{
		{Index: 9, Name: "Doji", Reliability: ReliabilityMedium},
		{Index: 9, Name: "Shooting Star", Reliability: ReliabilityHigh},
		{Index: 8, Name: "Hammer", Reliability: ReliabilityVeryHigh},
	}
	best, ok := Primary(hits, 9)
	if !ok {
		t.Fatal("expected a primary pattern at index 9")
	}
	if best.Name != "Shooting Star" {
		t.Errorf("expected Shooting Star as primary, got %s", best.Name)
	}
}

func TestPrimaryTieGoesToEarliestHit(t *testing.T) {
	hits := []Pattern{
		{Index: 3, Name: "Hammer", Reliability: ReliabilityHigh},
		{Index: 3, Name: "Piercing Line", Reliability: ReliabilityHigh},
	}
	best, ok := Primary(hits, 3)
	if !ok || best.Name != "Hammer" {
		t.Errorf("expected first-registered hit to win the tie, got %+v", best)
	}
}

func TestSummarize(t *testing.T) {
	hits := []Pattern{
		{Index: 1, Name: "Hammer", Signal: SignalBullishReversal, Reliability: ReliabilityHigh},
		{Index: 2, Name: "Doji", Signal: SignalNeutral, Reliability: ReliabilityMedium},
		{Index: 5, Name: "Evening Star", Signal: SignalBearishReversal, Reliability: ReliabilityVeryHigh},
		{Index: 7, Name: "Doji", Signal: SignalNeutral, Reliability: ReliabilityMedium},
	}
	stats := Summarize(hits)

	if stats.Total != 4 || stats.Bullish != 1 || stats.Bearish != 1 || stats.Neutral != 2 {
		t.Errorf("unexpected counts %+v", stats)
	}
	if stats.HighReliability != 2 {
		t.Errorf("expected 2 high-or-better hits, got %d", stats.HighReliability)
	}
	if stats.ByName["Doji"] != 2 {
		t.Errorf("expected 2 doji hits, got %d", stats.ByName["Doji"])
	}
	if len(stats.Recent) != 4 || stats.Recent[0].Index != 7 {
		t.Errorf("expected recent hits newest first, got %+v", stats.Recent)
	}
}
