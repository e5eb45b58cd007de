package main

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"subdl/internal/history"
)

// kvTable renders the two-column rounded tables subdl prints: the run
// summary and `config show`. Numeric summaries read better right-aligned;
// settings stay left.
func kvTable(keyHeader, valueHeader string, rows [][2]string, rightAlignValues bool) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{keyHeader, valueHeader})
	for _, row := range rows {
		tw.AppendRow(table.Row{row[0], row[1]})
	}

	valueAlign := text.AlignLeft
	if rightAlignValues {
		valueAlign = text.AlignRight
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: valueAlign, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}

// runsTable renders the `subdl history` listing, newest first.
func runsTable(records []history.RunRecord) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"When", "Title", "Regions", "Fetched", "Missing", "Files", "Duration"})

	for _, record := range records {
		tw.AppendRow(table.Row{
			record.CreatedAt.Local().Format("2006-01-02 15:04"),
			displayTitle(record.Title, record.MediaID, record.Year),
			record.Regions,
			record.Fetched,
			record.NotFound,
			record.Files,
			record.Duration.Round(10 * time.Millisecond).String(),
		})
	}

	configs := make([]table.ColumnConfig, 0, 5)
	for column := 3; column <= 7; column++ {
		configs = append(configs, table.ColumnConfig{
			Number:      column,
			Align:       text.AlignRight,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// displayTitle falls back to the platform media id for runs that never
// resolved a name.
func displayTitle(title, mediaID string, year int) string {
	if title == "" {
		title = mediaID
	}
	if year > 0 {
		title = fmt.Sprintf("%s (%d)", title, year)
	}
	return title
}
