package indicators

import (
	"fmt"

	"index-analyzer/internal/models"
)

// VWAP calculates a rolling Volume Weighted Average Price.
type VWAP struct {
	period int
}

// NewVWAP creates a new VWAP indicator.
func NewVWAP(period int) *VWAP {
	return &VWAP{period: period}
}

func (v *VWAP) Name() string {
	return fmt.Sprintf("VWAP_%d", v.period)
}

func (v *VWAP) Period() int {
	return v.period
}

func (v *VWAP) Calculate(candles []models.Candle) ([]float64, error) {
	if v.period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) == 0 {
		return nil, ErrInsufficientData
	}

	n := len(candles)
	result := nanSlice(n)

	for i := v.period - 1; i < n; i++ {
		var sumTPV, sumVol float64
		for j := i - v.period + 1; j <= i; j++ {
			tp := typicalPrice(candles[j])
			sumTPV += tp * float64(candles[j].Volume)
			sumVol += float64(candles[j].Volume)
		}
		if sumVol != 0 {
			result[i] = sumTPV / sumVol
		} else {
			// No volume in the window, fall back to typical price
			result[i] = typicalPrice(candles[i])
		}
	}

	return result, nil
}

// OBV calculates On-Balance Volume.
type OBV struct{}

// NewOBV creates a new OBV indicator.
func NewOBV() *OBV {
	return &OBV{}
}

func (o *OBV) Name() string {
	return "OBV"
}

func (o *OBV) Period() int {
	return 1
}

func (o *OBV) Calculate(candles []models.Candle) ([]float64, error) {
	if len(candles) == 0 {
		return nil, ErrInsufficientData
	}

	n := len(candles)
	result := make([]float64, n)
	result[0] = float64(candles[0].Volume)

	for i := 1; i < n; i++ {
		if candles[i].Close > candles[i-1].Close {
			result[i] = result[i-1] + float64(candles[i].Volume)
		} else if candles[i].Close < candles[i-1].Close {
			result[i] = result[i-1] - float64(candles[i].Volume)
		} else {
			result[i] = result[i-1]
		}
	}

	return result, nil
}

// MFI calculates Money Flow Index.
type MFI struct {
	period int
}

// NewMFI creates a new MFI indicator.
func NewMFI(period int) *MFI {
	return &MFI{period: period}
}

func (m *MFI) Name() string {
	return fmt.Sprintf("MFI_%d", m.period)
}

func (m *MFI) Period() int {
	return m.period + 1
}

func (m *MFI) Calculate(candles []models.Candle) ([]float64, error) {
	if m.period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) == 0 {
		return nil, ErrInsufficientData
	}

	n := len(candles)
	result := nanSlice(n)

	rawMF := make([]float64, n)
	for i := 0; i < n; i++ {
		rawMF[i] = typicalPrice(candles[i]) * float64(candles[i].Volume)
	}

	for i := m.period; i < n; i++ {
		var positiveMF, negativeMF float64

		for j := i - m.period + 1; j <= i; j++ {
			if j > 0 {
				currentTP := typicalPrice(candles[j])
				prevTP := typicalPrice(candles[j-1])

				if currentTP > prevTP {
					positiveMF += rawMF[j]
				} else if currentTP < prevTP {
					negativeMF += rawMF[j]
				}
			}
		}

		if negativeMF == 0 {
			result[i] = 100
		} else {
			mfRatio := positiveMF / negativeMF
			result[i] = 100 - (100 / (1 + mfRatio))
		}
	}

	return result, nil
}

// CMF calculates Chaikin Money Flow.
type CMF struct {
	period int
}

// NewCMF creates a new CMF indicator.
func NewCMF(period int) *CMF {
	return &CMF{period: period}
}

func (c *CMF) Name() string {
	return fmt.Sprintf("CMF_%d", c.period)
}

func (c *CMF) Period() int {
	return c.period
}

func (c *CMF) Calculate(candles []models.Candle) ([]float64, error) {
	if c.period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) == 0 {
		return nil, ErrInsufficientData
	}

	n := len(candles)
	result := nanSlice(n)

	// Money Flow Volume per candle; zero-range candles contribute nothing
	mfv := make([]float64, n)
	for i := 0; i < n; i++ {
		hl := candles[i].High - candles[i].Low
		if hl != 0 {
			mfm := ((candles[i].Close - candles[i].Low) - (candles[i].High - candles[i].Close)) / hl
			mfv[i] = mfm * float64(candles[i].Volume)
		}
	}

	for i := c.period - 1; i < n; i++ {
		var sumMFV, sumVol float64
		for j := i - c.period + 1; j <= i; j++ {
			sumMFV += mfv[j]
			sumVol += float64(candles[j].Volume)
		}

		if sumVol != 0 {
			result[i] = sumMFV / sumVol
		} else {
			result[i] = 0
		}
	}

	return result, nil
}
