package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"index-analyzer/internal/analysis/patterns"
)

func newPatternsCmd(app *App) *cobra.Command {
	var period string
	var interval string
	var limit int

	cmd := &cobra.Command{
		Use:   "patterns <symbol>",
		Short: "Detect candlestick patterns for a symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			rep, err := app.runAnalysis(cmd.Context(), args[0], period, interval)
			if err != nil {
				return err
			}

			hits := rep.Patterns
			if limit > 0 && len(hits) > limit {
				hits = hits[len(hits)-limit:]
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"symbol":     rep.Symbol,
					"patterns":   hits,
					"statistics": rep.PatternStats,
				})
			}

			output.Heading("Patterns: %s", rep.Symbol)
			if len(hits) == 0 {
				output.Dim("No patterns detected.")
				return nil
			}

			table := NewTable(output, "Date", "Price", "Pattern", "Signal", "Reliability")
			for _, p := range hits {
				signal := string(p.Signal.Direction())
				switch p.Signal.Direction() {
				case patterns.DirectionBullish:
					signal = output.Bullish(signal)
				case patterns.DirectionBearish:
					signal = output.Bearish(signal)
				}
				table.AddRow(
					FormatDate(p.Timestamp, app.Config.UI.DateFormat),
					FormatPrice(p.Price),
					p.Name,
					signal,
					p.ReliabilityLabel(),
				)
			}
			table.Render()

			stats := rep.PatternStats
			output.Println()
			output.Printf("Total: %d (%s bullish, %s bearish, %d neutral)\n",
				stats.Total,
				output.Bullish(strconv.Itoa(stats.Bullish)),
				output.Bearish(strconv.Itoa(stats.Bearish)),
				stats.Neutral)
			return nil
		},
	}

	cmd.Flags().StringVarP(&period, "period", "p", "", "data window, e.g. 1y, 6mo, 30d")
	cmd.Flags().StringVarP(&interval, "interval", "i", "", "candle interval, e.g. 1d, 1h")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "show at most this many recent patterns (0 = all)")
	return cmd
}
