package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "index-analyzer/internal/errors"
	"index-analyzer/internal/models"
)

// loadSeries fetches candles for a symbol over the given period and
// interval. The provider is preferred; fetched candles are written to
// the local cache. When the provider is unavailable or fails, the
// cache is used instead.
func (app *App) loadSeries(ctx context.Context, symbol, period, interval string) (*models.Series, error) {
	duration, err := parsePeriod(period)
	if err != nil {
		return nil, err
	}

	to := time.Now()
	from := to.Add(-duration)

	var candles []models.Candle
	if app.Provider != nil {
		candles, err = app.Provider.Fetch(ctx, symbol, from, to, models.Interval(interval))
		if err != nil {
			app.Logger.Warn().Err(err).Str("symbol", symbol).Msg("Provider fetch failed, trying cache")
		} else if app.Store != nil {
			if err := app.Store.SaveCandles(ctx, symbol, interval, candles); err != nil {
				app.Logger.Warn().Err(err).Msg("Failed to cache candles")
			}
		}
	}

	if len(candles) == 0 && app.Store != nil {
		candles, err = app.Store.GetCandles(ctx, symbol, interval, from, to)
		if err != nil {
			return nil, err
		}
	}

	if len(candles) == 0 {
		return nil, apperrors.NewDataError("candles", symbol,
			"no data available from provider or cache", apperrors.ErrNoData)
	}

	return models.NewSeries(symbol, models.Interval(interval), candles), nil
}

// parsePeriod converts a period shorthand like "1y", "6mo", "2w" or
// "30d" into a duration.
func parsePeriod(period string) (time.Duration, error) {
	period = strings.ToLower(strings.TrimSpace(period))
	if period == "" {
		return 0, apperrors.NewValidationError("period", period, "period must not be empty")
	}

	var unit time.Duration
	var digits string
	switch {
	case strings.HasSuffix(period, "mo"):
		digits, unit = strings.TrimSuffix(period, "mo"), 30*24*time.Hour
	case strings.HasSuffix(period, "y"):
		digits, unit = strings.TrimSuffix(period, "y"), 365*24*time.Hour
	case strings.HasSuffix(period, "w"):
		digits, unit = strings.TrimSuffix(period, "w"), 7*24*time.Hour
	case strings.HasSuffix(period, "d"):
		digits, unit = strings.TrimSuffix(period, "d"), 24*time.Hour
	default:
		return 0, apperrors.NewValidationError("period", period,
			"expected a number followed by d, w, mo or y")
	}

	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return 0, apperrors.NewValidationError("period", period,
			fmt.Sprintf("invalid period count %q", digits))
	}
	return time.Duration(n) * unit, nil
}
