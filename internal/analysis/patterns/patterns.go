// Package patterns recognizes candlestick formations in a candle
// series. Each formation family is a Detector evaluated independently
// over every valid index, so new formations can be added without
// touching a central dispatcher.
package patterns

import (
	"encoding/json"
	"time"

	"index-analyzer/internal/models"
)

// Signal classifies what a detected pattern implies.
type Signal string

const (
	SignalBullishReversal     Signal = "bullish_reversal"
	SignalBearishReversal     Signal = "bearish_reversal"
	SignalBullishContinuation Signal = "bullish_continuation"
	SignalBearishContinuation Signal = "bearish_continuation"
	SignalNeutral             Signal = "neutral"
	SignalStrongBullish       Signal = "strong_bullish"
	SignalStrongBearish       Signal = "strong_bearish"
)

// Direction collapses a signal to bullish, bearish or neutral.
type Direction string

const (
	DirectionBullish Direction = "bullish"
	DirectionBearish Direction = "bearish"
	DirectionNeutral Direction = "neutral"
)

// Direction returns the directional class of the signal.
func (s Signal) Direction() Direction {
	switch s {
	case SignalBullishReversal, SignalBullishContinuation, SignalStrongBullish:
		return DirectionBullish
	case SignalBearishReversal, SignalBearishContinuation, SignalStrongBearish:
		return DirectionBearish
	default:
		return DirectionNeutral
	}
}

// Reliability is the ordinal confidence rank of a formation.
type Reliability int

const (
	ReliabilityLow Reliability = iota
	ReliabilityMedium
	ReliabilityHigh
	ReliabilityVeryHigh
)

func (r Reliability) String() string {
	switch r {
	case ReliabilityLow:
		return "Low"
	case ReliabilityMedium:
		return "Medium"
	case ReliabilityHigh:
		return "High"
	case ReliabilityVeryHigh:
		return "Very High"
	default:
		return "Unknown"
	}
}

// Pattern is one detected formation. Immutable once created.
type Pattern struct {
	Index       int         `json:"index"`
	Name        string      `json:"name"`
	Signal      Signal      `json:"signal"`
	Reliability Reliability `json:"-"`
	Description string      `json:"description"`
	Price       float64     `json:"price"`
	Timestamp   time.Time   `json:"timestamp"`
}

// ReliabilityLabel is the human-readable rank, used in snapshots.
func (p Pattern) ReliabilityLabel() string { return p.Reliability.String() }

// MarshalJSON serializes the reliability as its label rather than the
// internal ordinal.
func (p Pattern) MarshalJSON() ([]byte, error) {
	type alias Pattern
	return json.Marshal(struct {
		alias
		Reliability string `json:"reliability"`
	}{alias(p), p.ReliabilityLabel()})
}

// Detector evaluates one formation family at a single index. It
// returns nil when the formation is not present there.
type Detector interface {
	Name() string
	Window() int
	Evaluate(candles []models.Candle, idx int) *Pattern
}

// trendLookback is the preceding-trend classification window.
const trendLookback = 5

type trend int

const (
	trendUnknown trend = iota
	trendUp
	trendDown
	trendSideways
)

// precedingTrend compares the close at idx-lookback with the close at
// idx-1, with a 2% band for sideways.
func precedingTrend(candles []models.Candle, idx int) trend {
	if idx < trendLookback {
		return trendUnknown
	}
	start := candles[idx-trendLookback].Close
	end := candles[idx-1].Close

	switch {
	case end > start*1.02:
		return trendUp
	case end < start*0.98:
		return trendDown
	default:
		return trendSideways
	}
}

// newPattern builds a hit at idx priced from that candle's close.
func newPattern(candles []models.Candle, idx int, name string, signal Signal, rel Reliability, desc string) *Pattern {
	return &Pattern{
		Index:       idx,
		Name:        name,
		Signal:      signal,
		Reliability: rel,
		Description: desc,
		Price:       candles[idx].Close,
		Timestamp:   candles[idx].Timestamp,
	}
}

// Recognizer scans a series with a registry of detectors.
type Recognizer struct {
	detectors []Detector
}

// NewRecognizer creates a recognizer with the full default catalogue.
func NewRecognizer() *Recognizer {
	r := &Recognizer{}
	// Single-candle formations
	r.Register(&DojiDetector{})
	r.Register(&HammerDetector{})
	r.Register(&HangingManDetector{})
	r.Register(&ShootingStarDetector{})
	r.Register(&InvertedHammerDetector{})
	r.Register(&SpinningTopDetector{})
	r.Register(&MarubozuDetector{})
	r.Register(&LongLeggedDojiDetector{})
	r.Register(&DragonflyDojiDetector{})
	r.Register(&GravestoneDojiDetector{})
	// Two-candle formations
	r.Register(&EngulfingDetector{})
	r.Register(&HaramiDetector{})
	r.Register(&PiercingLineDetector{})
	r.Register(&DarkCloudCoverDetector{})
	r.Register(&TweezerDetector{})
	// Three-candle formations
	r.Register(&MorningStarDetector{})
	r.Register(&EveningStarDetector{})
	r.Register(&ThreeWhiteSoldiersDetector{})
	r.Register(&ThreeBlackCrowsDetector{})
	r.Register(&ThreeInsideDetector{})
	r.Register(&ThreeOutsideDetector{})
	// Five-candle formations
	r.Register(&ThreeMethodsDetector{})
	return r
}

// Register appends a detector. Registration order defines detection
// order, which breaks reliability ties in Primary.
func (r *Recognizer) Register(d Detector) {
	r.detectors = append(r.detectors, d)
}

// Detectors returns the registered detector names in order.
func (r *Recognizer) Detectors() []string {
	names := make([]string, len(r.detectors))
	for i, d := range r.detectors {
		names[i] = d.Name()
	}
	return names
}

// Scan evaluates every detector over its valid index range and
// returns all hits in detection order. An empty or too-short series
// yields no hits.
func (r *Recognizer) Scan(candles []models.Candle) []Pattern {
	var hits []Pattern
	for _, d := range r.detectors {
		start := d.Window() - 1
		for i := start; i < len(candles); i++ {
			if p := d.Evaluate(candles, i); p != nil {
				hits = append(hits, *p)
			}
		}
	}
	return hits
}

// Primary picks the single most significant pattern at an index:
// highest reliability wins, ties go to the earliest detected hit.
func Primary(hits []Pattern, idx int) (Pattern, bool) {
	var best Pattern
	found := false
	for _, p := range hits {
		if p.Index != idx {
			continue
		}
		if !found || p.Reliability > best.Reliability {
			best = p
			found = true
		}
	}
	return best, found
}
