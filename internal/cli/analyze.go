package cli

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"index-analyzer/internal/analysis"
	"index-analyzer/internal/analysis/patterns"
	"index-analyzer/internal/analysis/scoring"
	"index-analyzer/internal/store"
)

func newAnalyzeCmd(app *App) *cobra.Command {
	var period string
	var interval string
	var withReport bool

	cmd := &cobra.Command{
		Use:   "analyze <symbol>",
		Short: "Run a full technical analysis for a symbol",
		Long: `Fetches candles for the symbol, computes indicators, candlestick
patterns, support/resistance levels and a composite sentiment score.

Preset names from the configuration (e.g. "sp500") are resolved to
their tickers.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx := cmd.Context()

			rep, err := app.runAnalysis(ctx, args[0], period, interval)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(scrubbed(rep))
			}

			renderReport(output, app, rep)

			if withReport {
				output.Println()
				output.Heading("Market Report")
				text, err := app.Reporter.Comprehensive(ctx, rep)
				if err != nil {
					return err
				}
				output.Println(text)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&period, "period", "p", "", "data window, e.g. 1y, 6mo, 30d")
	cmd.Flags().StringVarP(&interval, "interval", "i", "", "candle interval, e.g. 1d, 1h")
	cmd.Flags().BoolVarP(&withReport, "report", "r", false, "generate a written market report")
	return cmd
}

// runAnalysis loads candles, runs the pipeline and persists the
// resulting snapshot.
func (app *App) runAnalysis(ctx context.Context, symbol, period, interval string) (*analysis.Report, error) {
	symbol = app.Config.ResolveSymbol(symbol)
	if period == "" {
		period = app.Config.Analysis.DefaultPeriod
	}
	if interval == "" {
		interval = app.Config.Analysis.DefaultInterval
	}

	series, err := app.loadSeries(ctx, symbol, period, interval)
	if err != nil {
		return nil, err
	}

	pipeline := analysis.NewPipeline(app.Config, app.Logger)
	rep, err := pipeline.Run(ctx, series)
	if err != nil {
		return nil, err
	}

	if app.Store != nil {
		raw, err := json.Marshal(scrubbed(rep))
		if err == nil {
			entry := &store.AnalysisEntry{
				Symbol:      rep.Symbol,
				Interval:    string(rep.Interval),
				CreatedAt:   rep.GeneratedAt,
				Sentiment:   rep.Score.Sentiment,
				Score:       rep.Score.Score,
				CandleCount: rep.CandleCount,
				Report:      raw,
			}
			if err := app.Store.SaveAnalysis(ctx, entry); err != nil {
				app.Logger.Warn().Err(err).Msg("Failed to persist analysis")
			}
		}
	}

	return rep, nil
}

// scrubbed returns the report as a JSON-safe value with NaN and Inf
// replaced by null.
func scrubbed(rep *analysis.Report) interface{} {
	data, err := json.Marshal(rep)
	if err != nil {
		return rep
	}
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return rep
	}
	return analysis.Scrub(v)
}

func renderReport(output *Output, app *App, rep *analysis.Report) {
	dateFormat := app.Config.UI.DateFormat

	output.Heading("Analysis: %s", rep.Symbol)
	output.Printf("Date:     %s\n", FormatDate(rep.GeneratedAt, dateFormat))
	output.Printf("Interval: %s\n", rep.Interval)
	output.Printf("Candles:  %d\n", rep.CandleCount)
	output.Printf("Price:    %s\n", FormatPrice(rep.CurrentPrice))
	output.Println()

	renderScore(output, rep.Score)
	output.Println()
	renderIndicators(output, rep)
	output.Println()
	renderPatternSummary(output, rep.PatternStats)
	output.Println()
	renderLevels(output, rep)
}

func renderScore(output *Output, score scoring.Result) {
	output.Heading("Sentiment")
	label := score.Sentiment
	switch {
	case score.Score >= 10:
		label = output.Bullish(label)
	case score.Score <= -10:
		label = output.Bearish(label)
	default:
		label = output.Neutral(label)
	}
	output.Printf("Sentiment: %s (%s)\n", label, output.Signed(score.Score, FormatPercent(score.Score)))
	output.Printf("Reasoning: %s\n", score.Reasoning)
	output.Println()

	p := score.Probabilities
	output.Printf("Scenario probabilities: %s bullish / %s bearish / %s neutral\n",
		output.Bullish(FormatPercent(p.Bullish)),
		output.Bearish(FormatPercent(p.Bearish)),
		output.Neutral(FormatPercent(p.Neutral)))

	if len(score.Targets.Bullish) > 0 || len(score.Targets.Bearish) > 0 {
		output.Println()
		table := NewTable(output, "Direction", "Level", "Price", "Distance")
		for _, t := range score.Targets.Bullish {
			table.AddRow(output.Bullish("↑"), t.Level, FormatPrice(t.Price), FormatPercent(t.Distance))
		}
		for _, t := range score.Targets.Bearish {
			table.AddRow(output.Bearish("↓"), t.Level, FormatPrice(t.Price), FormatPercent(t.Distance))
		}
		table.Render()
	}
}

func renderIndicators(output *Output, rep *analysis.Report) {
	output.Heading("Indicators")

	names := make([]string, 0, len(rep.Indicators))
	for name := range rep.Indicators {
		names = append(names, name)
	}
	sort.Strings(names)

	table := NewTable(output, "Indicator", "Value")
	for _, name := range names {
		switch v := rep.Indicators[name].(type) {
		case map[string]interface{}:
			keys := make([]string, 0, len(v))
			for k := range v {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			var parts []string
			for _, k := range keys {
				parts = append(parts, k+"="+FormatIndicator(v[k]))
			}
			table.AddRow(name, strings.Join(parts, "  "))
		default:
			table.AddRow(name, FormatIndicator(v))
		}
	}
	table.Render()

	if rep.Pivots != nil {
		output.Println()
		output.Bold("Pivot Points")
		output.Printf("  P: %s   R1: %s  R2: %s  R3: %s\n",
			FormatPrice(rep.Pivots.Pivot),
			FormatPrice(rep.Pivots.R1), FormatPrice(rep.Pivots.R2), FormatPrice(rep.Pivots.R3))
		output.Printf("            S1: %s  S2: %s  S3: %s\n",
			FormatPrice(rep.Pivots.S1), FormatPrice(rep.Pivots.S2), FormatPrice(rep.Pivots.S3))
	}
}

func renderPatternSummary(output *Output, stats patterns.Statistics) {
	output.Heading("Patterns")
	if stats.Total == 0 {
		output.Dim("No patterns detected.")
		return
	}

	output.Printf("Detected: %d (%s bullish, %s bearish, %d neutral, %d high-reliability)\n",
		stats.Total,
		output.Bullish(strconv.Itoa(stats.Bullish)),
		output.Bearish(strconv.Itoa(stats.Bearish)),
		stats.Neutral,
		stats.HighReliability)

	if len(stats.Recent) > 0 {
		output.Println()
		table := NewTable(output, "Date", "Pattern", "Signal", "Reliability")
		for _, p := range stats.Recent {
			signal := string(p.Signal.Direction())
			switch p.Signal.Direction() {
			case patterns.DirectionBullish:
				signal = output.Bullish(signal)
			case patterns.DirectionBearish:
				signal = output.Bearish(signal)
			}
			table.AddRow(
				FormatDate(p.Timestamp, ""),
				p.Name,
				signal,
				p.ReliabilityLabel(),
			)
		}
		table.Render()
	}
}

func renderLevels(output *Output, rep *analysis.Report) {
	output.Heading("Levels")
	if rep.Levels == nil {
		output.Dim("No levels detected.")
		return
	}

	if len(rep.Levels.Resistances) > 0 {
		output.Bold("Resistance")
		for i := len(rep.Levels.Resistances) - 1; i >= 0; i-- {
			l := rep.Levels.Resistances[i]
			output.Printf("  %s  %s\n", output.Bearish(FormatPrice(l.Price)), l.Label)
		}
	}
	output.Printf("  %s  current price\n", FormatPrice(rep.CurrentPrice))
	if len(rep.Levels.Supports) > 0 {
		output.Bold("Support")
		for i := len(rep.Levels.Supports) - 1; i >= 0; i-- {
			l := rep.Levels.Supports[i]
			output.Printf("  %s  %s\n", output.Bullish(FormatPrice(l.Price)), l.Label)
		}
	}

	if fib := rep.Levels.Fibonacci; fib != nil {
		output.Println()
		output.Bold("Fibonacci (window high %s, low %s)", FormatPrice(fib.High), FormatPrice(fib.Low))
		for _, l := range fib.Retracements {
			output.Printf("  %s  %s\n", FormatPrice(l.Price), l.Label)
		}
	}
}

