package indicators

import (
	"context"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"index-analyzer/internal/config"
	apperrors "index-analyzer/internal/errors"
	"index-analyzer/internal/models"
)

// candleGen generates valid candle data with realistic OHLCV values.
func candleGen() gopter.Gen {
	return gen.Struct(reflect.TypeOf(models.Candle{}), map[string]gopter.Gen{
		"Timestamp": gen.TimeRange(time.Now().Add(-365*24*time.Hour), time.Hour),
		"Open":      gen.Float64Range(100.0, 1000.0),
		"High":      gen.Float64Range(100.0, 1000.0),
		"Low":       gen.Float64Range(100.0, 1000.0),
		"Close":     gen.Float64Range(100.0, 1000.0),
		"Volume":    gen.Int64Range(1000, 10000000),
	}).Map(fixCandle)
}

// fixCandle enforces OHLC constraints: High >= max(Open, Close),
// Low <= min(Open, Close), and a non-zero range.
func fixCandle(c models.Candle) models.Candle {
	if c.Open <= 0 {
		c.Open = 100.0
	}
	if c.Close <= 0 {
		c.Close = 100.0
	}
	c.High = math.Max(c.High, math.Max(c.Open, c.Close))
	c.Low = math.Min(c.Low, math.Min(c.Open, c.Close))
	if c.Low <= 0 {
		c.Low = math.Min(c.Open, c.Close)
	}
	if c.High <= c.Low {
		c.High = c.Low + 1.0
	}
	return c
}

// candleSliceGen generates a slice of valid candles with ascending
// timestamps.
func candleSliceGen(minLen, maxLen int) gopter.Gen {
	return gen.SliceOfN(maxLen, candleGen()).Map(func(candles []models.Candle) []models.Candle {
		for len(candles) < minLen {
			candles = append(candles, candles[len(candles)-1])
		}
		for i := range candles {
			candles[i].Timestamp = time.Now().Add(time.Duration(i) * time.Hour)
			candles[i] = fixCandle(candles[i])
		}
		return candles
	})
}

func newProperties(t *testing.T) *gopter.Properties {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())
	return gopter.NewProperties(parameters)
}

func TestProperty_RSIWithinBoundsAndWarmup(t *testing.T) {
	properties := newProperties(t)

	properties.Property("RSI is NaN for exactly the first period values, then within [0, 100]", prop.ForAll(
		func(candles []models.Candle) bool {
			rsi := NewRSI(14)
			values, err := rsi.Calculate(candles)
			if err != nil {
				return false
			}
			if len(values) != len(candles) {
				return false
			}
			for i, v := range values {
				if i < 14 {
					if !math.IsNaN(v) {
						t.Logf("index %d should be warm-up NaN, got %f", i, v)
						return false
					}
					continue
				}
				if math.IsNaN(v) || v < 0 || v > 100 {
					t.Logf("RSI out of bounds at %d: %f", i, v)
					return false
				}
			}
			return true
		},
		candleSliceGen(20, 120),
	))

	properties.TestingRun(t)
}

func TestProperty_MovingAverageWarmupLengths(t *testing.T) {
	properties := newProperties(t)

	properties.Property("SMA, EMA and ATR define values from period-1 onwards", prop.ForAll(
		func(candles []models.Candle, period int) bool {
			smaValues, err := NewSMA(period).Calculate(candles)
			if err != nil {
				return false
			}
			emaValues, err := NewEMA(period).Calculate(candles)
			if err != nil {
				return false
			}
			atrValues, err := NewATR(period).Calculate(candles)
			if err != nil {
				return false
			}

			for _, values := range [][]float64{smaValues, emaValues, atrValues} {
				if len(values) != len(candles) {
					return false
				}
				for i, v := range values {
					if (i < period-1) != math.IsNaN(v) {
						t.Logf("period %d: wrong definedness at %d", period, i)
						return false
					}
				}
			}
			return true
		},
		candleSliceGen(30, 100),
		gen.IntRange(2, 25),
	))

	properties.TestingRun(t)
}

func TestProperty_OscillatorBounds(t *testing.T) {
	properties := newProperties(t)

	properties.Property("defined oscillator values stay in their bounds", prop.ForAll(
		func(candles []models.Candle) bool {
			stoch, err := NewStochastic(14, 3).Calculate(candles)
			if err != nil {
				return false
			}
			for _, key := range []string{"percent_k", "percent_d"} {
				for _, v := range stoch[key] {
					if !math.IsNaN(v) && (v < 0 || v > 100) {
						t.Logf("stochastic %s out of bounds: %f", key, v)
						return false
					}
				}
			}

			williams, err := NewWilliamsR(14).Calculate(candles)
			if err != nil {
				return false
			}
			for _, v := range williams {
				if !math.IsNaN(v) && (v < -100 || v > 0) {
					t.Logf("williams %%R out of bounds: %f", v)
					return false
				}
			}

			mfi, err := NewMFI(14).Calculate(candles)
			if err != nil {
				return false
			}
			for _, v := range mfi {
				if !math.IsNaN(v) && (v < 0 || v > 100) {
					t.Logf("MFI out of bounds: %f", v)
					return false
				}
			}

			cmf, err := NewCMF(20).Calculate(candles)
			if err != nil {
				return false
			}
			for _, v := range cmf {
				if !math.IsNaN(v) && (v < -1 || v > 1) {
					t.Logf("CMF out of bounds: %f", v)
					return false
				}
			}
			return true
		},
		candleSliceGen(40, 120),
	))

	properties.TestingRun(t)
}

func TestProperty_ADXComponentsWithinBounds(t *testing.T) {
	properties := newProperties(t)

	properties.Property("ADX and DI components stay in [0, 100]", prop.ForAll(
		func(candles []models.Candle) bool {
			adx, err := NewADX(14).Calculate(candles)
			if err != nil {
				return false
			}
			for key, values := range adx {
				if len(values) != len(candles) {
					return false
				}
				for _, v := range values {
					if !math.IsNaN(v) && (v < 0 || v > 100) {
						t.Logf("%s out of bounds: %f", key, v)
						return false
					}
				}
			}
			return true
		},
		candleSliceGen(40, 120),
	))

	properties.TestingRun(t)
}

func TestProperty_BollingerBandOrdering(t *testing.T) {
	properties := newProperties(t)

	properties.Property("lower <= middle <= upper wherever defined", prop.ForAll(
		func(candles []models.Candle) bool {
			bands, err := NewBollingerBands(20, 2.0).Calculate(candles)
			if err != nil {
				return false
			}
			middle := bands["middle"]
			upper := bands["upper"]
			lower := bands["lower"]
			for i := range middle {
				if math.IsNaN(middle[i]) {
					continue
				}
				if lower[i] > middle[i] || middle[i] > upper[i] {
					t.Logf("band ordering violated at %d: %f %f %f", i, lower[i], middle[i], upper[i])
					return false
				}
			}
			return true
		},
		candleSliceGen(25, 100),
	))

	properties.TestingRun(t)
}

func TestProperty_EngineColumnsFullLength(t *testing.T) {
	properties := newProperties(t)

	engine := NewDefaultEngine(config.Default().Analysis)

	properties.Property("every engine column has the input length", prop.ForAll(
		func(candles []models.Candle) bool {
			singles, multis, err := engine.CalculateAll(context.Background(), candles)
			if err != nil {
				return false
			}
			for name, values := range singles {
				if len(values) != len(candles) {
					t.Logf("%s: length %d, want %d", name, len(values), len(candles))
					return false
				}
			}
			for name, group := range multis {
				for key, values := range group {
					if len(values) != len(candles) {
						t.Logf("%s.%s: length %d, want %d", name, key, len(values), len(candles))
						return false
					}
				}
			}
			return true
		},
		candleSliceGen(10, 80),
	))

	properties.TestingRun(t)
}

func TestShortHistoryRSIAllNaN(t *testing.T) {
	candles := make([]models.Candle, 13)
	for i := range candles {
		price := 100.0 + float64(i)
		candles[i] = models.Candle{
			Timestamp: time.Now().Add(time.Duration(i) * 24 * time.Hour),
			Open:      price,
			High:      price + 1,
			Low:       price - 1,
			Close:     price + 0.5,
			Volume:    1000,
		}
	}

	values, err := NewRSI(14).Calculate(candles)
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if len(values) != 13 {
		t.Fatalf("expected 13 values, got %d", len(values))
	}
	for i, v := range values {
		if !math.IsNaN(v) {
			t.Errorf("index %d: expected NaN, got %f", i, v)
		}
	}
}

func TestEngineEmptyInput(t *testing.T) {
	engine := NewDefaultEngine(config.Default().Analysis)
	_, _, err := engine.CalculateAll(context.Background(), nil)
	if !apperrors.Is(err, apperrors.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestLastDefined(t *testing.T) {
	nan := math.NaN()

	if _, ok := LastDefined([]float64{nan, nan}); ok {
		t.Error("all-NaN slice should have no defined value")
	}
	if _, ok := LastDefined(nil); ok {
		t.Error("empty slice should have no defined value")
	}
	v, ok := LastDefined([]float64{nan, 1.5, 2.5, nan})
	if !ok || v != 2.5 {
		t.Errorf("expected 2.5, got %f (ok=%v)", v, ok)
	}
}

func TestPivotPointsFromCandles(t *testing.T) {
	candles := []models.Candle{
		{High: 110, Low: 90, Close: 100},
		{High: 120, Low: 100, Close: 115},
	}

	pp, err := NewStandardPivotPoints().CalculateFromCandles(candles)
	if err != nil {
		t.Fatalf("CalculateFromCandles: %v", err)
	}

	pivot := (120.0 + 100.0 + 115.0) / 3
	if math.Abs(pp.Pivot-pivot) > 1e-9 {
		t.Errorf("pivot = %f, want %f", pp.Pivot, pivot)
	}
	if pp.R1 <= pp.Pivot || pp.R2 <= pp.R1 || pp.R3 <= pp.R2 {
		t.Error("resistances should ascend from the pivot")
	}
	if pp.S1 >= pp.Pivot || pp.S2 >= pp.S1 || pp.S3 >= pp.S2 {
		t.Error("supports should descend from the pivot")
	}
}
