// Package analysis runs the complete processing pipeline for one
// symbol: indicators, level detection, pattern recognition and score
// aggregation, combined into a JSON-serializable report.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"index-analyzer/internal/analysis/indicators"
	"index-analyzer/internal/analysis/levels"
	"index-analyzer/internal/analysis/patterns"
	"index-analyzer/internal/analysis/scoring"
	"index-analyzer/internal/config"
	apperrors "index-analyzer/internal/errors"
	"index-analyzer/internal/models"
)

// Report is the complete output of one analysis run. All float values
// are scrubbed of NaN and infinities before JSON marshalling.
type Report struct {
	Symbol       string                  `json:"symbol"`
	Interval     models.Interval         `json:"interval"`
	GeneratedAt  time.Time               `json:"generated_at"`
	CurrentPrice float64                 `json:"current_price"`
	CandleCount  int                     `json:"candle_count"`
	Indicators   map[string]interface{}  `json:"indicators"`
	Pivots       *indicators.PivotPoints `json:"pivots,omitempty"`
	Levels       *levels.Result          `json:"levels"`
	Patterns     []patterns.Pattern      `json:"patterns"`
	PatternStats patterns.Statistics     `json:"pattern_statistics"`
	Score        scoring.Result          `json:"score"`
}

// Pipeline wires the analysis stages together. It is stateless across
// runs: every call to Run rebuilds the complete report from scratch,
// so running it twice on the same series yields the same result.
type Pipeline struct {
	cfg        config.AnalysisConfig
	engine     *indicators.Engine
	levels     *levels.Detector
	recognizer *patterns.Recognizer
	aggregator *scoring.Aggregator
	logger     zerolog.Logger
}

// NewPipeline builds a pipeline from configuration.
func NewPipeline(cfg *config.Config, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		cfg:        cfg.Analysis,
		engine:     indicators.NewDefaultEngine(cfg.Analysis),
		levels:     levels.NewDetector(cfg.Levels),
		recognizer: patterns.NewRecognizer(),
		aggregator: scoring.NewAggregator(),
		logger:     logger.With().Str("component", "pipeline").Logger(),
	}
}

// Run analyzes the series and produces a report. A series without
// candles cannot be analyzed and returns ErrInsufficientData.
func (p *Pipeline) Run(ctx context.Context, series *models.Series) (*Report, error) {
	if series == nil || series.Len() == 0 {
		return nil, apperrors.NewAnalysisError("pipeline", seriesSymbol(series), apperrors.ErrInsufficientData)
	}

	candles := series.Candles
	started := time.Now()

	singles, multis, err := p.engine.CalculateAll(ctx, candles)
	if err != nil {
		return nil, apperrors.NewAnalysisError("indicators", series.Symbol, err)
	}
	for name, values := range singles {
		series.SetColumn(name, values)
	}
	for name, columns := range multis {
		for key, values := range columns {
			series.SetColumn(name+"."+key, values)
		}
	}

	levelResult := p.levels.Detect(candles)
	hits := p.recognizer.Scan(candles)

	pivots, err := indicators.NewStandardPivotPoints().CalculateFromCandles(candles)
	if err != nil {
		return nil, apperrors.NewAnalysisError("pivots", series.Symbol, err)
	}

	snapshot := p.buildSnapshot(series, singles, multis, pivots, levelResult)
	score := p.aggregator.Score(snapshot)

	report := &Report{
		Symbol:       series.Symbol,
		Interval:     series.Interval,
		GeneratedAt:  time.Now().UTC(),
		CurrentPrice: series.CurrentPrice(),
		CandleCount:  series.Len(),
		Indicators:   latestIndicatorValues(singles, multis),
		Pivots:       pivots,
		Levels:       levelResult,
		Patterns:     hits,
		PatternStats: patterns.Summarize(hits),
		Score:        score,
	}

	p.logger.Info().
		Str("symbol", series.Symbol).
		Str("sentiment", score.Sentiment).
		Float64("score", score.Score).
		Int("patterns", len(hits)).
		Dur("elapsed", time.Since(started)).
		Msg("analysis complete")

	return report, nil
}

// buildSnapshot extracts the most recent defined value of every input
// the aggregator reads.
func (p *Pipeline) buildSnapshot(series *models.Series, singles map[string][]float64, multis map[string]map[string][]float64, pivots *indicators.PivotPoints, levelResult *levels.Result) *scoring.Snapshot {
	s := scoring.NewSnapshot()
	s.Price = series.CurrentPrice()
	s.Pivots = pivots
	s.Levels = levelResult
	s.OBV = singles["OBV"]

	if v, ok := indicators.LastDefined(singles[fmt.Sprintf("RSI_%d", p.cfg.RSIPeriod)]); ok {
		s.RSI = v
	}
	if v, ok := indicators.LastDefined(singles[fmt.Sprintf("MFI_%d", p.cfg.MFIPeriod)]); ok {
		s.MFI = v
	}
	for _, period := range p.cfg.EMAPeriods {
		if v, ok := indicators.LastDefined(singles[fmt.Sprintf("EMA_%d", period)]); ok {
			s.EMA[period] = v
		}
	}

	if macd, ok := multis[p.macdName()]; ok {
		if v, ok := indicators.LastDefined(macd["histogram"]); ok {
			s.MACDHistogram = v
		}
	}
	if bb, ok := multis[p.bollingerName()]; ok {
		if v, ok := indicators.LastDefined(bb["percent_b"]); ok {
			s.PercentB = v
		}
	}
	if stoch, ok := multis[p.stochasticName()]; ok {
		if v, ok := indicators.LastDefined(stoch["percent_k"]); ok {
			s.StochK = v
		}
	}
	if adx, ok := multis[p.adxName()]; ok {
		if v, ok := indicators.LastDefined(adx["adx"]); ok {
			s.ADX = v
		}
		if v, ok := indicators.LastDefined(adx["plus_di"]); ok {
			s.DIPlus = v
		}
		if v, ok := indicators.LastDefined(adx["minus_di"]); ok {
			s.DIMinus = v
		}
	}

	return s
}

func (p *Pipeline) macdName() string {
	return fmt.Sprintf("MACD_%d_%d_%d", p.cfg.MACDFast, p.cfg.MACDSlow, p.cfg.MACDSignal)
}

func (p *Pipeline) bollingerName() string {
	return fmt.Sprintf("BollingerBands_%d_%.1f", p.cfg.BBPeriod, p.cfg.BBStdDev)
}

func (p *Pipeline) stochasticName() string {
	return fmt.Sprintf("Stochastic_%d_%d", p.cfg.StochPeriod, 3)
}

func (p *Pipeline) adxName() string {
	return fmt.Sprintf("ADX_%d", p.cfg.ADXPeriod)
}

func seriesSymbol(series *models.Series) string {
	if series == nil {
		return ""
	}
	return series.Symbol
}
