package cli

import (
	"github.com/spf13/cobra"
)

func newLevelsCmd(app *App) *cobra.Command {
	var period string
	var interval string

	cmd := &cobra.Command{
		Use:   "levels <symbol>",
		Short: "Show support, resistance and Fibonacci levels",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			rep, err := app.runAnalysis(cmd.Context(), args[0], period, interval)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"symbol":        rep.Symbol,
					"current_price": rep.CurrentPrice,
					"levels":        rep.Levels,
					"pivots":        rep.Pivots,
				})
			}

			output.Heading("Levels: %s", rep.Symbol)
			output.Printf("Price: %s\n", FormatPrice(rep.CurrentPrice))
			output.Println()
			renderLevels(output, rep)

			if rep.Pivots != nil {
				output.Println()
				output.Bold("Pivot Points")
				table := NewTable(output, "Level", "Price")
				table.AddRow("R3", FormatPrice(rep.Pivots.R3))
				table.AddRow("R2", FormatPrice(rep.Pivots.R2))
				table.AddRow("R1", FormatPrice(rep.Pivots.R1))
				table.AddRow("P", FormatPrice(rep.Pivots.Pivot))
				table.AddRow("S1", FormatPrice(rep.Pivots.S1))
				table.AddRow("S2", FormatPrice(rep.Pivots.S2))
				table.AddRow("S3", FormatPrice(rep.Pivots.S3))
				table.Render()
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&period, "period", "p", "", "data window, e.g. 1y, 6mo, 30d")
	cmd.Flags().StringVarP(&interval, "interval", "i", "", "candle interval, e.g. 1d, 1h")
	return cmd
}
