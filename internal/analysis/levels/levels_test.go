package levels

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"index-analyzer/internal/config"
	"index-analyzer/internal/models"
)

func newDetector() *Detector {
	return NewDetector(config.Default().Levels)
}

func candlesFromCloses(closes []float64) []models.Candle {
	candles := make([]models.Candle, len(closes))
	for i, c := range closes {
		candles[i] = models.Candle{
			Timestamp: time.Now().Add(time.Duration(i) * 24 * time.Hour),
			Open:      c,
			High:      c * 1.01,
			Low:       c * 0.99,
			Close:     c,
			Volume:    1000,
		}
	}
	return candles
}

func TestFibonacciRetracementMath(t *testing.T) {
	candles := []models.Candle{
		{High: 200, Low: 100, Close: 150},
		{High: 190, Low: 110, Close: 160},
	}

	set := newDetector().Fibonacci(candles)
	if set == nil {
		t.Fatal("expected a fibonacci set")
	}
	if set.High != 200 || set.Low != 100 {
		t.Fatalf("window extremes = %f/%f, want 200/100", set.High, set.Low)
	}

	// retracement = high - range*ratio
	wantByLabel := map[string]float64{
		"Fib 0%":    200,
		"Fib 23.6%": 200 - 100*0.236,
		"Fib 50%":   150,
		"Fib 61.8%": 200 - 100*0.618,
		"Fib 100%":  100,
	}
	got := map[string]float64{}
	for _, l := range set.Retracements {
		got[l.Label] = l.Price
	}
	for label, want := range wantByLabel {
		price, ok := got[label]
		if !ok {
			t.Errorf("missing level %q", label)
			continue
		}
		if math.Abs(price-want) > 1e-9 {
			t.Errorf("%s = %f, want %f", label, price, want)
		}
	}

	// extensions sit above the high
	for _, l := range set.Extensions {
		if l.Price <= set.High {
			t.Errorf("extension %s (%f) should be above the high", l.Label, l.Price)
		}
	}
}

func TestSupportResistanceDirectionalProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())
	properties := gopter.NewProperties(parameters)

	detector := newDetector()

	properties.Property("supports below price, resistances above, counts capped", prop.ForAll(
		func(closes []float64) bool {
			candles := candlesFromCloses(closes)
			supports, resistances := detector.SupportResistance(candles)

			current := candles[len(candles)-1].Close
			if len(supports) > 5 || len(resistances) > 5 {
				t.Logf("too many levels: %d supports, %d resistances", len(supports), len(resistances))
				return false
			}
			for _, l := range supports {
				if l.Price >= current {
					t.Logf("support %f not below price %f", l.Price, current)
					return false
				}
			}
			for _, l := range resistances {
				if l.Price <= current {
					t.Logf("resistance %f not above price %f", l.Price, current)
					return false
				}
			}
			return true
		},
		gen.SliceOfN(60, gen.Float64Range(50, 500)).SuchThat(func(closes []float64) bool {
			return len(closes) > 0
		}),
	))

	properties.TestingRun(t)
}

func TestSupportResistanceFlatSeries(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100
	}
	candles := make([]models.Candle, len(closes))
	for i := range candles {
		candles[i] = models.Candle{Open: 100, High: 100, Low: 100, Close: 100, Volume: 1000}
	}

	supports, resistances := newDetector().SupportResistance(candles)
	// every extreme equals the current price, the strict filter drops all
	if len(supports) != 0 || len(resistances) != 0 {
		t.Errorf("flat series should yield no levels, got %d/%d", len(supports), len(resistances))
	}
}

func TestSupportResistanceKeepsClosest(t *testing.T) {
	// V-shape with many distinct lows below the final price
	var closes []float64
	for i := 0; i < 30; i++ {
		closes = append(closes, 200-float64(i))
	}
	for i := 0; i < 30; i++ {
		closes = append(closes, 171+float64(i))
	}

	candles := candlesFromCloses(closes)
	supports, _ := newDetector().SupportResistance(candles)

	if len(supports) == 0 {
		t.Fatal("expected supports below price")
	}
	current := candles[len(candles)-1].Close
	for i := 1; i < len(supports); i++ {
		if supports[i].Price <= supports[i-1].Price {
			t.Fatal("supports should be in ascending order")
		}
	}
	// the kept supports are the closest below price
	if current-supports[len(supports)-1].Price > current-supports[0].Price {
		t.Error("closest support should be last")
	}
}

func TestDetectEmptySeries(t *testing.T) {
	res := newDetector().Detect(nil)
	if res == nil {
		t.Fatal("expected a result")
	}
	if res.Fibonacci != nil || len(res.Supports) != 0 || len(res.Resistances) != 0 {
		t.Error("empty series should yield an empty result")
	}
}

func TestRatioLabel(t *testing.T) {
	cases := map[float64]string{
		0:     "0%",
		0.236: "23.6%",
		0.5:   "50%",
		1:     "100%",
		1.618: "161.8%",
	}
	for ratio, want := range cases {
		if got := ratioLabel(ratio); got != want {
			t.Errorf("ratioLabel(%v) = %q, want %q", ratio, got, want)
		}
	}
}
