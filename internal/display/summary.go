package display

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// SummaryTable renders the end-of-batch report as a bordered table.
func SummaryTable(converted, skipped, failed int, outputBytes int64) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	tw.AppendHeader(table.Row{"Result", "Count"})
	tw.AppendRow(table.Row{"Converted", strconv.Itoa(converted)})
	tw.AppendRow(table.Row{"Skipped", strconv.Itoa(skipped)})
	tw.AppendRow(table.Row{"Failed", strconv.Itoa(failed)})
	tw.AppendFooter(table.Row{"Output size", FormatBytes(outputBytes)})

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft, AlignFooter: text.AlignRight},
	})

	return tw.Render()
}
