package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

func newWatchCmd(app *App) *cobra.Command {
	var schedule string
	var period string
	var interval string

	cmd := &cobra.Command{
		Use:   "watch <symbol> [symbol...]",
		Short: "Re-analyze symbols on a schedule",
		Long: `Runs the analysis for the given symbols on a cron schedule and
prints a one-line summary per run. Stops on Ctrl-C.

The schedule accepts standard cron expressions and descriptors like
"@every 15m" or "@hourly".`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if schedule == "" {
				schedule = app.Config.Watch.Schedule
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			runAll := func() {
				for _, symbol := range args {
					app.watchOnce(ctx, output, symbol, period, interval)
				}
			}

			c := cron.New()
			if _, err := c.AddFunc(schedule, runAll); err != nil {
				return err
			}

			output.Heading("Watching %d symbol(s), schedule %q", len(args), schedule)
			runAll()
			c.Start()

			<-ctx.Done()
			cronCtx := c.Stop()
			<-cronCtx.Done()
			output.Println()
			output.Dim("Watch stopped.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&schedule, "schedule", "s", "", "cron schedule (default from config)")
	cmd.Flags().StringVarP(&period, "period", "p", "", "data window, e.g. 1y, 6mo, 30d")
	cmd.Flags().StringVarP(&interval, "interval", "i", "", "candle interval, e.g. 1d, 1h")
	return cmd
}

func (app *App) watchOnce(ctx context.Context, output *Output, symbol, period, interval string) {
	rep, err := app.runAnalysis(ctx, symbol, period, interval)
	if err != nil {
		output.Error("%s: %v", symbol, err)
		return
	}

	sentiment := rep.Score.Sentiment
	switch {
	case rep.Score.Score >= 10:
		sentiment = output.Bullish(sentiment)
	case rep.Score.Score <= -10:
		sentiment = output.Bearish(sentiment)
	default:
		sentiment = output.Neutral(sentiment)
	}
	output.Printf("%s  %-10s %s  %s (%s)  %d patterns\n",
		FormatDate(rep.GeneratedAt, "02-Jan-2006 15:04"),
		rep.Symbol,
		FormatPrice(rep.CurrentPrice),
		sentiment,
		FormatPercent(rep.Score.Score),
		rep.PatternStats.Total)
}
