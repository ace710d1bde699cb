// Package indicators provides technical indicator calculations with parallel processing.
//
// Every indicator returns a slice aligned with the input candles where
// warm-up positions hold NaN. Callers treat NaN as "no value yet"; the
// reporting layer scrubs NaN to JSON null.
package indicators

import (
	"context"
	"fmt"
	"math"
	"sync"

	"index-analyzer/internal/config"
	"index-analyzer/internal/models"
)

// Indicator defines the interface for single-value technical indicators.
type Indicator interface {
	Name() string
	Calculate(candles []models.Candle) ([]float64, error)
	Period() int
}

// MultiValueIndicator defines the interface for indicators that return multiple values.
type MultiValueIndicator interface {
	Name() string
	Calculate(candles []models.Candle) (map[string][]float64, error)
	Period() int
}

// Engine provides parallel indicator calculation using a worker pool.
type Engine struct {
	workers     int
	indicators  map[string]Indicator
	multiIndics map[string]MultiValueIndicator
	order       []string
	multiOrder  []string
	mu          sync.RWMutex
}

// NewEngine creates a new indicator engine with the specified number of workers.
func NewEngine(workers int) *Engine {
	if workers <= 0 {
		workers = 4
	}
	return &Engine{
		workers:     workers,
		indicators:  make(map[string]Indicator),
		multiIndics: make(map[string]MultiValueIndicator),
	}
}

// NewDefaultEngine creates an engine with the configured indicator set
// registered.
func NewDefaultEngine(cfg config.AnalysisConfig) *Engine {
	e := NewEngine(cfg.Workers)

	for _, p := range cfg.SMAPeriods {
		e.RegisterIndicator(NewSMA(p))
	}
	for _, p := range cfg.EMAPeriods {
		e.RegisterIndicator(NewEMA(p))
	}
	e.RegisterIndicator(NewRSI(cfg.RSIPeriod))
	e.RegisterIndicator(NewATR(cfg.ATRPeriod))
	e.RegisterIndicator(NewCCI(cfg.CCIPeriod))
	e.RegisterIndicator(NewWilliamsR(cfg.WilliamsRPeriod))
	e.RegisterIndicator(NewROC(cfg.ROCPeriod))
	e.RegisterIndicator(NewOBV())
	e.RegisterIndicator(NewMFI(cfg.MFIPeriod))
	e.RegisterIndicator(NewCMF(cfg.CMFPeriod))
	e.RegisterIndicator(NewVWAP(cfg.VWAPPeriod))

	e.RegisterMultiIndicator(NewMACD(cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal))
	e.RegisterMultiIndicator(NewBollingerBands(cfg.BBPeriod, cfg.BBStdDev))
	e.RegisterMultiIndicator(NewStochastic(cfg.StochPeriod, 3))
	e.RegisterMultiIndicator(NewADX(cfg.ADXPeriod))

	return e
}

// RegisterIndicator registers a single-value indicator.
func (e *Engine) RegisterIndicator(ind Indicator) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.indicators[ind.Name()]; !ok {
		e.order = append(e.order, ind.Name())
	}
	e.indicators[ind.Name()] = ind
}

// RegisterMultiIndicator registers a multi-value indicator.
func (e *Engine) RegisterMultiIndicator(ind MultiValueIndicator) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.multiIndics[ind.Name()]; !ok {
		e.multiOrder = append(e.multiOrder, ind.Name())
	}
	e.multiIndics[ind.Name()] = ind
}

// CalculateAll calculates all registered indicators in parallel.
// Indicators whose calculation fails are omitted from the result; an
// empty candle slice fails the whole call.
func (e *Engine) CalculateAll(ctx context.Context, candles []models.Candle) (map[string][]float64, map[string]map[string][]float64, error) {
	if len(candles) == 0 {
		return nil, nil, ErrInsufficientData
	}

	e.mu.RLock()
	indicators := make([]Indicator, 0, len(e.indicators))
	for _, name := range e.order {
		indicators = append(indicators, e.indicators[name])
	}
	multiIndics := make([]MultiValueIndicator, 0, len(e.multiIndics))
	for _, name := range e.multiOrder {
		multiIndics = append(multiIndics, e.multiIndics[name])
	}
	e.mu.RUnlock()

	singleResults := make(map[string][]float64)
	multiResults := make(map[string]map[string][]float64)
	var mu sync.Mutex
	var wg sync.WaitGroup

	singleWork := make(chan Indicator, len(indicators))
	multiWork := make(chan MultiValueIndicator, len(multiIndics))

	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ind := range singleWork {
				select {
				case <-ctx.Done():
					return
				default:
					values, err := ind.Calculate(candles)
					if err == nil {
						mu.Lock()
						singleResults[ind.Name()] = values
						mu.Unlock()
					}
				}
			}
		}()
	}

	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ind := range multiWork {
				select {
				case <-ctx.Done():
					return
				default:
					values, err := ind.Calculate(candles)
					if err == nil {
						mu.Lock()
						multiResults[ind.Name()] = values
						mu.Unlock()
					}
				}
			}
		}()
	}

	for _, ind := range indicators {
		singleWork <- ind
	}
	close(singleWork)

	for _, ind := range multiIndics {
		multiWork <- ind
	}
	close(multiWork)

	wg.Wait()

	return singleResults, multiResults, nil
}

// Calculate calculates a specific indicator by name.
func (e *Engine) Calculate(ctx context.Context, name string, candles []models.Candle) ([]float64, error) {
	e.mu.RLock()
	ind, ok := e.indicators[name]
	e.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("indicator %s not found", name)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
		return ind.Calculate(candles)
	}
}

// CalculateMulti calculates a specific multi-value indicator by name.
func (e *Engine) CalculateMulti(ctx context.Context, name string, candles []models.Candle) (map[string][]float64, error) {
	e.mu.RLock()
	ind, ok := e.multiIndics[name]
	e.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("multi-value indicator %s not found", name)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
		return ind.Calculate(candles)
	}
}

// ListIndicators returns the names of all registered single-value
// indicators in registration order.
func (e *Engine) ListIndicators() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, len(e.order))
	copy(names, e.order)
	return names
}

// ListMultiIndicators returns the names of all registered multi-value
// indicators in registration order.
func (e *Engine) ListMultiIndicators() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, len(e.multiOrder))
	copy(names, e.multiOrder)
	return names
}

// LastDefined returns the most recent non-NaN value of a column, with
// ok false when the column has no defined values.
func LastDefined(values []float64) (float64, bool) {
	for i := len(values) - 1; i >= 0; i-- {
		if !math.IsNaN(values[i]) {
			return values[i], true
		}
	}
	return 0, false
}
