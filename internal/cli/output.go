// Package cli provides the command-line interface of the analyzer.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Output handles formatted terminal output. In JSON mode all helpers
// other than JSON are expected to stay silent paths; commands check
// IsJSON before rendering text.
type Output struct {
	writer   io.Writer
	jsonMode bool

	heading *color.Color
	success *color.Color
	warning *color.Color
	failure *color.Color
	muted   *color.Color
	bold    *color.Color
}

// NewOutput creates an Output bound to the command's stdout.
func NewOutput(cmd *cobra.Command) *Output {
	jsonMode, _ := cmd.Flags().GetBool("json")
	o := &Output{
		writer:   cmd.OutOrStdout(),
		jsonMode: jsonMode,
		heading:  color.New(color.FgCyan, color.Bold),
		success:  color.New(color.FgGreen),
		warning:  color.New(color.FgYellow),
		failure:  color.New(color.FgRed),
		muted:    color.New(color.Faint),
		bold:     color.New(color.Bold),
	}
	if jsonMode || !isTerminal() {
		for _, c := range []*color.Color{o.heading, o.success, o.warning, o.failure, o.muted, o.bold} {
			c.DisableColor()
		}
	}
	return o
}

func isTerminal() bool {
	info, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// IsJSON reports whether JSON output mode is enabled.
func (o *Output) IsJSON() bool {
	return o.jsonMode
}

// JSON writes data as indented JSON.
func (o *Output) JSON(data interface{}) error {
	enc := json.NewEncoder(o.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// Printf prints a formatted message.
func (o *Output) Printf(format string, args ...interface{}) {
	fmt.Fprintf(o.writer, format, args...)
}

// Println prints its arguments followed by a newline.
func (o *Output) Println(args ...interface{}) {
	fmt.Fprintln(o.writer, args...)
}

// Heading prints a section heading followed by a rule.
func (o *Output) Heading(format string, args ...interface{}) {
	o.heading.Fprintf(o.writer, format+"\n", args...)
	o.muted.Fprintln(o.writer, strings.Repeat("─", 44))
}

// Success prints a message in green.
func (o *Output) Success(format string, args ...interface{}) {
	o.success.Fprintf(o.writer, format+"\n", args...)
}

// Warning prints a message in yellow.
func (o *Output) Warning(format string, args ...interface{}) {
	o.warning.Fprintf(o.writer, format+"\n", args...)
}

// Error prints a message in red.
func (o *Output) Error(format string, args ...interface{}) {
	o.failure.Fprintf(o.writer, format+"\n", args...)
}

// Dim prints a muted message.
func (o *Output) Dim(format string, args ...interface{}) {
	o.muted.Fprintf(o.writer, format+"\n", args...)
}

// Bold prints a bold message.
func (o *Output) Bold(format string, args ...interface{}) {
	o.bold.Fprintf(o.writer, format+"\n", args...)
}

// Bullish returns text colored for upward readings.
func (o *Output) Bullish(text string) string {
	return o.success.Sprint(text)
}

// Bearish returns text colored for downward readings.
func (o *Output) Bearish(text string) string {
	return o.failure.Sprint(text)
}

// Neutral returns text colored for sideways readings.
func (o *Output) Neutral(text string) string {
	return o.warning.Sprint(text)
}

// Signed colors a formatted value green, red, or plain by its sign.
func (o *Output) Signed(value float64, text string) string {
	switch {
	case value > 0:
		return o.success.Sprint(text)
	case value < 0:
		return o.failure.Sprint(text)
	default:
		return text
	}
}

// Table renders aligned columnar output.
type Table struct {
	headers []string
	rows    [][]string
	output  *Output
}

// NewTable creates a table with the given headers.
func NewTable(output *Output, headers ...string) *Table {
	return &Table{headers: headers, output: output}
}

// AddRow appends a row.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render writes the table to the output.
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = displayWidth(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && displayWidth(cell) > widths[i] {
				widths[i] = displayWidth(cell)
			}
		}
	}

	t.printRow(t.headers, widths, true)
	var rule []string
	for _, w := range widths {
		rule = append(rule, strings.Repeat("─", w))
	}
	t.output.Dim(strings.Join(rule, "──"))
	for _, row := range t.rows {
		t.printRow(row, widths, false)
	}
}

func (t *Table) printRow(cells []string, widths []int, header bool) {
	var parts []string
	for i, cell := range cells {
		if i >= len(widths) {
			break
		}
		pad := widths[i] - displayWidth(cell)
		if pad < 0 {
			pad = 0
		}
		padded := cell + strings.Repeat(" ", pad)
		if header {
			padded = t.output.bold.Sprint(padded)
		}
		parts = append(parts, padded)
	}
	t.output.Println(strings.Join(parts, "  "))
}

// displayWidth is the cell width without ANSI escape sequences.
func displayWidth(s string) int {
	width := 0
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			width++
		}
	}
	return width
}
