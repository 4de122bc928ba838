package reporter

import (
	"fmt"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/five82/video2gif/internal/util"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// SizeTable renders one row per tier of every conversion, original first.
func SizeTable(conversions []ConversionSummary) string {
	headers := []string{"File", "Version", "Dimensions", "Size", "Reduction"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight}

	var rows [][]string
	for _, c := range conversions {
		name := filepath.Base(c.Input)
		switch {
		case c.Canceled:
			rows = append(rows, []string{name, "canceled", "", "", ""})
			continue
		case !c.Success:
			rows = append(rows, []string{name, "failed", "", "", ""})
			continue
		}

		rows = append(rows, []string{name, "original", dash(c.Dimensions), util.FormatBytes(c.OriginalSize), ""})
		for _, t := range c.Tiers {
			if !t.Produced {
				rows = append(rows, []string{"", t.Tier, "-", "not created", ""})
				continue
			}
			rows = append(rows, []string{
				"",
				t.Tier,
				dash(t.Dimensions),
				util.FormatBytes(t.Size),
				fmt.Sprintf("%.2f%%", t.Reduction),
			})
		}
	}
	return renderTable(headers, rows, aligns)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
