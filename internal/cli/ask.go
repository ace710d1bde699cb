package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newAskCmd(app *App) *cobra.Command {
	var period string
	var interval string

	cmd := &cobra.Command{
		Use:   "ask <symbol> <question...>",
		Short: "Ask a question about a symbol's analysis",
		Long: `Runs the analysis for the symbol and answers the question from the
computed indicators, patterns and score using the configured language
model.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			question := strings.Join(args[1:], " ")

			rep, err := app.runAnalysis(cmd.Context(), args[0], period, interval)
			if err != nil {
				return err
			}

			answer, err := app.Reporter.Answer(cmd.Context(), question, rep)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]string{
					"symbol":   rep.Symbol,
					"question": question,
					"answer":   answer,
				})
			}

			output.Heading("Q&A: %s", rep.Symbol)
			output.Bold("Q: %s", question)
			output.Println()
			output.Println(answer)
			return nil
		},
	}

	cmd.Flags().StringVarP(&period, "period", "p", "", "data window, e.g. 1y, 6mo, 30d")
	cmd.Flags().StringVarP(&interval, "interval", "i", "", "candle interval, e.g. 1d, 1h")
	return cmd
}
