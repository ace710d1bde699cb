// Package levels detects horizontal price levels: Fibonacci
// retracements and extensions over the analyzed window, and local
// support/resistance levels from rolling extrema.
package levels

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"index-analyzer/internal/config"
	"index-analyzer/internal/models"
)

// Kind classifies a price level.
type Kind string

const (
	KindSupport      Kind = "support"
	KindResistance   Kind = "resistance"
	KindFibRetrace   Kind = "fib_retracement"
	KindFibExtension Kind = "fib_extension"
)

// Level is a single horizontal price level.
type Level struct {
	Price float64 `json:"price"`
	Kind  Kind    `json:"kind"`
	Label string  `json:"label"`
}

// FibonacciSet holds the Fibonacci levels for one analysis window.
type FibonacciSet struct {
	High         float64 `json:"high"`
	Low          float64 `json:"low"`
	Retracements []Level `json:"retracements"`
	Extensions   []Level `json:"extensions"`
}

// Result holds everything the detector produces for one series.
type Result struct {
	Fibonacci   *FibonacciSet `json:"fibonacci,omitempty"`
	Supports    []Level       `json:"supports"`
	Resistances []Level       `json:"resistances"`
}

// Detector computes Fibonacci and support/resistance levels.
type Detector struct {
	ratios     []float64
	extensions []float64
	window     int
	maxLevels  int
}

// NewDetector creates a level detector from configuration.
func NewDetector(cfg config.LevelsConfig) *Detector {
	return &Detector{
		ratios:     cfg.FibonacciRatios,
		extensions: cfg.ExtensionRatios,
		window:     cfg.Window,
		maxLevels:  cfg.MaxLevels,
	}
}

// Detect runs both level computations. An empty series yields an
// empty result, never an error.
func (d *Detector) Detect(candles []models.Candle) *Result {
	res := &Result{}
	if len(candles) == 0 {
		return res
	}
	res.Fibonacci = d.Fibonacci(candles)
	res.Supports, res.Resistances = d.SupportResistance(candles)
	return res
}

// Fibonacci computes retracement levels from the window's extremes as
// high - range*ratio, and extension levels above the high for ratios
// greater than 1.
func (d *Detector) Fibonacci(candles []models.Candle) *FibonacciSet {
	if len(candles) == 0 {
		return nil
	}

	high := candles[0].High
	low := candles[0].Low
	for _, c := range candles[1:] {
		if c.High > high {
			high = c.High
		}
		if c.Low < low {
			low = c.Low
		}
	}
	diff := high - low

	set := &FibonacciSet{High: high, Low: low}

	for _, ratio := range d.ratios {
		set.Retracements = append(set.Retracements, Level{
			Price: high - diff*ratio,
			Kind:  KindFibRetrace,
			Label: fmt.Sprintf("Fib %s", ratioLabel(ratio)),
		})
	}
	for _, ratio := range d.extensions {
		set.Extensions = append(set.Extensions, Level{
			Price: high + diff*(ratio-1),
			Kind:  KindFibExtension,
			Label: fmt.Sprintf("Fib Ext %s", ratioLabel(ratio)),
		})
	}

	return set
}

// SupportResistance finds local extrema with a centered rolling window
// and filters them to supports strictly below and resistances strictly
// above the current price. At most maxLevels values are kept per side:
// the closest ones to price.
func (d *Detector) SupportResistance(candles []models.Candle) (supports, resistances []Level) {
	if len(candles) == 0 {
		return nil, nil
	}

	current := candles[len(candles)-1].Close
	half := d.window / 2

	supportSet := make(map[float64]struct{})
	resistanceSet := make(map[float64]struct{})

	for i := range candles {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi >= len(candles) {
			hi = len(candles) - 1
		}

		windowMin := candles[lo].Low
		windowMax := candles[lo].High
		for j := lo + 1; j <= hi; j++ {
			if candles[j].Low < windowMin {
				windowMin = candles[j].Low
			}
			if candles[j].High > windowMax {
				windowMax = candles[j].High
			}
		}

		if candles[i].Low == windowMin {
			supportSet[candles[i].Low] = struct{}{}
		}
		if candles[i].High == windowMax {
			resistanceSet[candles[i].High] = struct{}{}
		}
	}

	// Directional filter: a level on the wrong side of price is
	// discarded, not down-ranked
	var supportPrices, resistancePrices []float64
	for p := range supportSet {
		if p < current {
			supportPrices = append(supportPrices, p)
		}
	}
	for p := range resistanceSet {
		if p > current {
			resistancePrices = append(resistancePrices, p)
		}
	}

	sort.Float64s(supportPrices)
	sort.Float64s(resistancePrices)

	// Closest supports are the highest ones below price
	if len(supportPrices) > d.maxLevels {
		supportPrices = supportPrices[len(supportPrices)-d.maxLevels:]
	}
	// Closest resistances are the lowest ones above price
	if len(resistancePrices) > d.maxLevels {
		resistancePrices = resistancePrices[:d.maxLevels]
	}

	for _, p := range supportPrices {
		supports = append(supports, Level{Price: p, Kind: KindSupport, Label: "Key Support"})
	}
	for _, p := range resistancePrices {
		resistances = append(resistances, Level{Price: p, Kind: KindResistance, Label: "Key Resistance"})
	}

	return supports, resistances
}

// ratioLabel renders 0.236 as "23.6%" and 1.618 as "161.8%". The
// product is rounded to one decimal first so binary rounding noise
// never leaks into labels.
func ratioLabel(ratio float64) string {
	pct := math.Round(ratio*1000) / 10
	return strconv.FormatFloat(pct, 'f', -1, 64) + "%"
}
