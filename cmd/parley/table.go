package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// tableLayout describes one rendered table. Rows shorter than Headers are
// padded with empty cells.
type tableLayout struct {
	Title    string
	Headers  []string
	Rows     [][]string
	Aligns   []columnAlignment
	MaxWidth map[int]int
}

func renderTable(tbl tableLayout) string {
	columns := len(tbl.Headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	if tbl.Title != "" {
		tw.SetTitle(tbl.Title)
	}

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = tbl.Headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range tbl.Rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(tbl.Aligns) && tbl.Aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
			WidthMax:    tbl.MaxWidth[i],
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func writeTable(w io.Writer, tbl tableLayout) {
	if out := renderTable(tbl); out != "" {
		fmt.Fprintln(w, out)
	}
}

// formatMs renders a track offset as m:ss.mmm.
func formatMs(ms int64) string {
	sign := ""
	if ms < 0 {
		sign = "-"
		ms = -ms
	}
	minutes := ms / 60000
	seconds := (ms % 60000) / 1000
	millis := ms % 1000
	return fmt.Sprintf("%s%d:%02d.%03d", sign, minutes, seconds, millis)
}

func formatVolume(volume float64) string {
	return fmt.Sprintf("%.0f%%", volume*100)
}
