// Package store provides data persistence for candles and analysis
// history.
package store

import (
	"context"
	"encoding/json"
	"time"

	"index-analyzer/internal/models"
)

// DataStore defines the persistence interface.
type DataStore interface {
	// Candle cache
	SaveCandles(ctx context.Context, symbol, interval string, candles []models.Candle) error
	GetCandles(ctx context.Context, symbol, interval string, from, to time.Time) ([]models.Candle, error)
	GetCandlesFreshness(ctx context.Context, symbol, interval string) (time.Time, error)

	// Analysis history
	SaveAnalysis(ctx context.Context, entry *AnalysisEntry) error
	GetAnalyses(ctx context.Context, filter AnalysisFilter) ([]AnalysisEntry, error)
	GetLatestAnalysis(ctx context.Context, symbol string) (*AnalysisEntry, error)

	Close() error
}

// AnalysisEntry is one persisted analysis run.
type AnalysisEntry struct {
	ID          int64           `json:"id"`
	Symbol      string          `json:"symbol"`
	Interval    string          `json:"interval"`
	CreatedAt   time.Time       `json:"created_at"`
	Sentiment   string          `json:"sentiment"`
	Score       float64         `json:"score"`
	CandleCount int             `json:"candle_count"`
	Report      json.RawMessage `json:"report"`
}

// AnalysisFilter narrows history queries.
type AnalysisFilter struct {
	Symbol string
	Since  time.Time
	Limit  int
}
