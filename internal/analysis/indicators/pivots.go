package indicators

import (
	"index-analyzer/internal/models"
)

// PivotPoints represents classic floor-trader pivot levels.
type PivotPoints struct {
	Pivot float64 // Central pivot
	R1    float64 // Resistance 1
	R2    float64 // Resistance 2
	R3    float64 // Resistance 3
	S1    float64 // Support 1
	S2    float64 // Support 2
	S3    float64 // Support 3
}

// StandardPivotPoints calculates classic pivot points from the most
// recent period's high, low and close.
type StandardPivotPoints struct{}

// NewStandardPivotPoints creates a new Standard Pivot Points calculator.
func NewStandardPivotPoints() *StandardPivotPoints {
	return &StandardPivotPoints{}
}

func (s *StandardPivotPoints) Name() string {
	return "StandardPivotPoints"
}

func (s *StandardPivotPoints) Period() int {
	return 1
}

// Calculate calculates pivot points from the previous period's OHLC.
func (s *StandardPivotPoints) Calculate(high, low, close float64) *PivotPoints {
	pivot := (high + low + close) / 3

	return &PivotPoints{
		Pivot: pivot,
		R1:    2*pivot - low,
		R2:    pivot + (high - low),
		R3:    high + 2*(pivot-low),
		S1:    2*pivot - high,
		S2:    pivot - (high - low),
		S3:    low - 2*(high-pivot),
	}
}

// CalculateFromCandle calculates pivot points from a candle.
func (s *StandardPivotPoints) CalculateFromCandle(candle models.Candle) *PivotPoints {
	return s.Calculate(candle.High, candle.Low, candle.Close)
}

// CalculateFromCandles calculates pivot points from the last candle in the slice.
func (s *StandardPivotPoints) CalculateFromCandles(candles []models.Candle) (*PivotPoints, error) {
	if len(candles) == 0 {
		return nil, ErrInsufficientData
	}
	return s.CalculateFromCandle(candles[len(candles)-1]), nil
}
