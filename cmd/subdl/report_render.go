package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"subdl/internal/acquire"
)

func renderReport(report *acquire.Report) string {
	notFound, transient, fatal := report.FailureCount()

	rows := [][2]string{
		{"Title", displayTitle(report.Title, report.MediaID, report.Year)},
		{"Regions checked", strconv.Itoa(report.Regions)},
		{"Subtitles fetched", strconv.Itoa(report.Fetched)},
		{"Regions without title", strconv.Itoa(notFound)},
		{"Transient failures", strconv.Itoa(transient)},
		{"Fatal failures", strconv.Itoa(fatal)},
		{"Unique subtitles", strconv.Itoa(report.Clusters)},
		{"Files written", strconv.Itoa(len(report.Files))},
		{"Duration", report.Duration.Round(10 * time.Millisecond).String()},
	}

	var b strings.Builder
	b.WriteString(kvTable("Run", report.RunID, rows, true))

	if len(report.Files) > 0 {
		b.WriteString("\n\nWritten:\n")
		for _, file := range report.Files {
			b.WriteString("  ")
			b.WriteString(file)
			b.WriteByte('\n')
		}
	}
	if len(report.Skipped) > 0 {
		b.WriteString("\nSkipped:\n")
		for _, item := range report.Skipped {
			fmt.Fprintf(&b, "  %s/%s: %s\n", item.Region, item.Language, item.Reason)
		}
	}
	if len(report.WriteFailures) > 0 {
		b.WriteString("\nWrite failures:\n")
		for _, failure := range report.WriteFailures {
			fmt.Fprintf(&b, "  %s: %v\n", failure.Path, failure.Err)
		}
	}
	if fatal > 0 {
		b.WriteString("\nFatal regions:\n")
		for _, failure := range report.Failures {
			if failure.Kind == acquire.FailureFatal {
				fmt.Fprintf(&b, "  %s: %v\n", failure.Region, failure.Err)
			}
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
