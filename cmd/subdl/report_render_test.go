package main

import (
	"errors"
	"strings"
	"testing"
	"time"

	"subdl/internal/acquire"
)

func TestRenderReportSummarizesCounts(t *testing.T) {
	report := &acquire.Report{
		RunID:   "run-1",
		Title:   "The Example",
		Year:    2001,
		MediaID: "umc.cmc.aaaaaaaaaaaaaaaaaaaa",
		Regions: 16,
		Fetched: 12,
		Failures: []acquire.FetchFailure{
			{Region: "jp", Kind: acquire.FailureNotFound, Err: errors.New("no playables")},
			{Region: "de", Kind: acquire.FailureTransient, Err: errors.New("timeout")},
		},
		Clusters: 4,
		Files: []string{
			"/out/The Example (2001)/iTunes/The.Example.2001.iT.WEB.en-US.srt",
		},
		Duration: 3200 * time.Millisecond,
	}

	out := renderReport(report)

	requireContains(t, out, "The Example (2001)")
	requireContains(t, out, "16")
	requireContains(t, out, "Unique subtitles")
	requireContains(t, out, "The.Example.2001.iT.WEB.en-US.srt")
	if strings.Contains(out, "Fatal regions") {
		t.Fatalf("no fatal section expected: %q", out)
	}
}

func TestRenderReportListsFatalRegions(t *testing.T) {
	report := &acquire.Report{
		RunID:   "run-2",
		MediaID: "umc.cmc.bbbbbbbbbbbbbbbbbbbb",
		Regions: 3,
		Failures: []acquire.FetchFailure{
			{Region: "us", Kind: acquire.FailureFatal, Err: errors.New("403 from storefront")},
		},
	}

	out := renderReport(report)

	requireContains(t, out, "Fatal regions")
	requireContains(t, out, "403 from storefront")
	// falls back to the media id when no title was resolved
	requireContains(t, out, "umc.cmc.bbbbbbbbbbbbbbbbbbbb")
}
