// Package provider abstracts candle data sources behind a single
// fetch interface.
package provider

import (
	"context"
	"time"

	"index-analyzer/internal/models"
)

// CandleProvider fetches historical OHLCV data for a symbol. A failed
// fetch or an empty result means no analysis is possible for that
// symbol; it never panics the caller.
type CandleProvider interface {
	Fetch(ctx context.Context, symbol string, from, to time.Time, interval models.Interval) ([]models.Candle, error)
}
