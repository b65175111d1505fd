// Package render provides the shared text-rendering primitives used by the
// canonical record formatters. Output is deterministic plain text; color
// never enters a record rendering.
package render

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Duration formats a millisecond duration the way tool summaries read:
// sub-second values in milliseconds, everything else in seconds with one
// decimal.
func Duration(ms int64) string {
	d := time.Duration(ms) * time.Millisecond

	if d < time.Second {
		return fmt.Sprintf("%dms", ms)
	}

	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}

	return fmt.Sprintf("%dm%02ds", int(d.Minutes()), int(d.Seconds())%60)
}

// Count formats an item count with a singular/plural noun. Large counts get
// thousands separators.
func Count(n int, singular, plural string) string {
	noun := plural
	if n == 1 {
		noun = singular
	}

	return humanize.Comma(int64(n)) + " " + noun
}

// StatusWord maps a success flag to the stable header word.
func StatusWord(ok bool) string {
	if ok {
		return "ok"
	}

	return "failed"
}

// Table renders rows as a borderless aligned table.
func Table(header table.Row, rows []table.Row) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateHeader = false

	tbl.AppendHeader(header)

	for _, row := range rows {
		tbl.AppendRow(row)
	}

	return tbl.Render()
}
