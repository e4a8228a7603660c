package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/radekjisa/volby-export/internal/results"
)

// writePreview renders the summary columns of the first maxRows
// municipalities as a terminal table. Party columns are left to the CSV;
// district exports can carry dozens of them.
func writePreview(w io.Writer, t *results.Table, maxRows int) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)

	header := table.Row{}
	for _, col := range results.FixedColumns {
		header = append(header, col)
	}
	tw.AppendHeader(header)

	for i, row := range t.Rows {
		if i == maxRows {
			break
		}
		tw.AppendRow(table.Row{row.Code, row.Name, row.RegisteredVoters, row.EnvelopesIssued, row.ValidVotes})
	}
	if len(t.Rows) > maxRows {
		tw.AppendFooter(table.Row{"", fmt.Sprintf("+ %d more", len(t.Rows)-maxRows), "", "", ""})
	}
	tw.Render()
}
