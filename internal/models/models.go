// Package models provides domain models for the analysis engine.
package models

import (
	"sort"
	"time"
)

// Interval represents the bar duration of a candle series.
type Interval string

const (
	IntervalMinute  Interval = "1m"
	Interval5Minute Interval = "5m"
	IntervalHour    Interval = "1h"
	IntervalDay     Interval = "1d"
	IntervalWeek    Interval = "1wk"
)

// Candle represents OHLCV data for a time period.
type Candle struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}

// Bullish reports whether the candle closed above its open.
func (c Candle) Bullish() bool { return c.Close > c.Open }

// Bearish reports whether the candle closed below its open.
func (c Candle) Bearish() bool { return c.Close < c.Open }

// Body returns the absolute height of the candle body.
func (c Candle) Body() float64 {
	if c.Close > c.Open {
		return c.Close - c.Open
	}
	return c.Open - c.Close
}

// UpperShadow returns the wick above the body.
func (c Candle) UpperShadow() float64 {
	if c.Close > c.Open {
		return c.High - c.Close
	}
	return c.High - c.Open
}

// LowerShadow returns the wick below the body.
func (c Candle) LowerShadow() float64 {
	if c.Close > c.Open {
		return c.Open - c.Low
	}
	return c.Close - c.Low
}

// Range returns the full high-low span of the candle.
func (c Candle) Range() float64 { return c.High - c.Low }

// Series is an ordered candle sequence plus aligned indicator columns.
// Columns are full-length slices where warm-up positions hold NaN.
// A Series is built once per analysis run and treated as immutable by
// everything downstream.
type Series struct {
	Symbol   string
	Interval Interval
	Candles  []Candle

	columns map[string][]float64
}

// NewSeries builds a Series from candles, sorting them by timestamp.
func NewSeries(symbol string, interval Interval, candles []Candle) *Series {
	sorted := make([]Candle, len(candles))
	copy(sorted, candles)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return &Series{
		Symbol:   symbol,
		Interval: interval,
		Candles:  sorted,
		columns:  make(map[string][]float64),
	}
}

// Len returns the number of candles.
func (s *Series) Len() int { return len(s.Candles) }

// Last returns the most recent candle. The boolean is false for an
// empty series.
func (s *Series) Last() (Candle, bool) {
	if len(s.Candles) == 0 {
		return Candle{}, false
	}
	return s.Candles[len(s.Candles)-1], true
}

// CurrentPrice returns the close of the most recent candle, or 0 for
// an empty series.
func (s *Series) CurrentPrice() float64 {
	c, ok := s.Last()
	if !ok {
		return 0
	}
	return c.Close
}

// SetColumn attaches an aligned indicator column. Columns shorter or
// longer than the candle sequence are rejected by downstream consumers,
// so callers always pass full-length slices.
func (s *Series) SetColumn(name string, values []float64) {
	if s.columns == nil {
		s.columns = make(map[string][]float64)
	}
	s.columns[name] = values
}

// Column returns a named indicator column.
func (s *Series) Column(name string) ([]float64, bool) {
	v, ok := s.columns[name]
	return v, ok
}

// ColumnNames returns the attached column names in sorted order.
func (s *Series) ColumnNames() []string {
	names := make([]string, 0, len(s.columns))
	for name := range s.columns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
