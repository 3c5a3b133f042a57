package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/robotalks/hilval/pkg/validate"
)

const traceFormat = "%-5s | %-5s | %-5s | %-6s | %s\n"

// Table prints the per-sample trace as it goes and the summary as a table.
type Table struct {
	Out io.Writer
}

// NewTable creates a Table reporter.
func NewTable(out io.Writer) *Table {
	return &Table{Out: out}
}

// Start implements validate.Reporter.
func (t *Table) Start(total int) error {
	if _, err := fmt.Fprintf(t.Out, "validating %d samples\n", total); err != nil {
		return err
	}
	_, err := fmt.Fprintf(t.Out, traceFormat, "IDX", "TRUTH", "REF", "DEVICE", "STATUS")
	return err
}

// Record implements validate.Reporter.
func (t *Table) Record(row validate.Row) error {
	_, err := fmt.Fprintf(t.Out, traceFormat,
		strconv.Itoa(row.Index),
		strconv.Itoa(row.Truth),
		strconv.Itoa(row.Reference),
		row.Prediction.String(),
		row.Outcome.String())
	return err
}

// Finish implements validate.Reporter.
func (t *Table) Finish(s validate.Summary) error {
	title := "RESULT"
	if s.Partial() {
		title = "PARTIAL RESULT"
	}
	tw := tablewriter.NewWriter(t.Out)
	tw.SetHeader([]string{title, ""})
	tw.SetAutoFormatHeaders(false)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.AppendBulk([][]string{
		{"samples", fmt.Sprintf("%d/%d", s.Processed, s.Total)},
		{"correct", fmt.Sprintf("%d/%d", s.Correct, s.Processed)},
		{"accuracy", validate.FormatRatio(s.Accuracy())},
		{"agreement", fmt.Sprintf("%d/%d", s.Agreement, s.Processed)},
		{"fidelity", validate.FormatRatio(s.Fidelity())},
		{"divergent", strconv.Itoa(s.Divergent)},
		{"timeouts", strconv.Itoa(s.Timeouts)},
	})
	tw.Render()
	return nil
}
