package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	apperrors "index-analyzer/internal/errors"
	"index-analyzer/internal/models"
	"index-analyzer/pkg/utils"
)

// KiteProvider fetches candles from the Kite Connect historical-data
// API. Instrument tokens are resolved from the exchange instrument
// dump and cached for the lifetime of the provider.
type KiteProvider struct {
	client   *kiteconnect.Client
	exchange string

	mu     sync.RWMutex
	tokens map[string]int
}

// NewKiteProvider creates an authenticated Kite provider.
func NewKiteProvider(apiKey, accessToken, exchange string) *KiteProvider {
	client := kiteconnect.New(apiKey)
	client.SetAccessToken(accessToken)
	if exchange == "" {
		exchange = "NSE"
	}
	return &KiteProvider{
		client:   client,
		exchange: exchange,
		tokens:   make(map[string]int),
	}
}

// Fetch retrieves historical candles for the symbol.
func (p *KiteProvider) Fetch(ctx context.Context, symbol string, from, to time.Time, interval models.Interval) ([]models.Candle, error) {
	kiteInterval, err := kiteIntervalFor(interval)
	if err != nil {
		return nil, err
	}

	token, err := p.instrumentToken(ctx, symbol)
	if err != nil {
		return nil, apperrors.NewDataError("historical", symbol, "instrument lookup failed", err)
	}

	data, err := utils.RetryWithResult(ctx, utils.DefaultRetryConfig(), func() ([]kiteconnect.HistoricalData, error) {
		return p.client.GetHistoricalData(token, kiteInterval, from, to, false, false)
	})
	if err != nil {
		return nil, apperrors.NewDataError("historical", symbol, "historical fetch failed", err)
	}
	if len(data) == 0 {
		return nil, apperrors.NewDataError("historical", symbol, "no candles returned", apperrors.ErrNoData)
	}

	candles := make([]models.Candle, len(data))
	for i, d := range data {
		candles[i] = models.Candle{
			Timestamp: d.Date.Time,
			Open:      d.Open,
			High:      d.High,
			Low:       d.Low,
			Close:     d.Close,
			Volume:    int64(d.Volume),
		}
	}
	return candles, nil
}

func (p *KiteProvider) instrumentToken(ctx context.Context, symbol string) (int, error) {
	p.mu.RLock()
	token, ok := p.tokens[symbol]
	p.mu.RUnlock()
	if ok {
		return token, nil
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	instruments, err := p.client.GetInstrumentsByExchange(p.exchange)
	if err != nil {
		return 0, err
	}

	p.mu.Lock()
	for _, inst := range instruments {
		p.tokens[inst.Tradingsymbol] = inst.InstrumentToken
	}
	token, ok = p.tokens[symbol]
	p.mu.Unlock()

	if !ok {
		return 0, fmt.Errorf("%w: %s on %s", apperrors.ErrSymbolNotFound, symbol, p.exchange)
	}
	return token, nil
}

// kiteIntervalFor maps a bar interval onto Kite's interval names.
// Weekly bars are not served by the historical API.
func kiteIntervalFor(interval models.Interval) (string, error) {
	switch interval {
	case models.IntervalMinute:
		return "minute", nil
	case models.Interval5Minute:
		return "5minute", nil
	case models.IntervalHour:
		return "60minute", nil
	case models.IntervalDay, "":
		return "day", nil
	default:
		return "", apperrors.NewValidationError("interval", string(interval), "unsupported bar interval")
	}
}
