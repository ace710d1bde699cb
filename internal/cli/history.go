package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"index-analyzer/internal/store"
)

func newHistoryCmd(app *App) *cobra.Command {
	var limit int
	var since string

	cmd := &cobra.Command{
		Use:   "history [symbol]",
		Short: "List previous analysis runs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("local store unavailable, history disabled")
			}

			filter := store.AnalysisFilter{Limit: limit}
			if len(args) > 0 {
				filter.Symbol = app.Config.ResolveSymbol(args[0])
			}
			if since != "" {
				d, err := parsePeriod(since)
				if err != nil {
					return err
				}
				filter.Since = time.Now().Add(-d)
			}

			entries, err := app.Store.GetAnalyses(cmd.Context(), filter)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(entries)
			}

			output.Heading("Analysis History")
			if len(entries) == 0 {
				output.Dim("No prior analyses found.")
				return nil
			}

			table := NewTable(output, "Date", "Symbol", "Interval", "Candles", "Sentiment", "Score")
			for _, e := range entries {
				sentiment := e.Sentiment
				switch {
				case e.Score >= 10:
					sentiment = output.Bullish(sentiment)
				case e.Score <= -10:
					sentiment = output.Bearish(sentiment)
				}
				table.AddRow(
					e.CreatedAt.Format("02-Jan-2006 15:04"),
					e.Symbol,
					e.Interval,
					fmt.Sprintf("%d", e.CandleCount),
					sentiment,
					output.Signed(e.Score, FormatPercent(e.Score)),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of entries")
	cmd.Flags().StringVar(&since, "since", "", "only entries newer than this, e.g. 7d, 1mo")
	return cmd
}
