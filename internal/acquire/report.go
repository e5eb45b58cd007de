package acquire

import "time"

// Report summarizes one acquisition run: what was attempted, what failed,
// and what landed on disk. Per-region and per-item failures live here rather
// than escalating; partial success is the expected common case.
type Report struct {
	RunID         string
	Title         string
	Year          int
	MediaID       string
	Regions       int
	Fetched       int
	Failures      []FetchFailure
	Skipped       []SkippedItem
	Clusters      int
	Files         []string
	WriteFailures []WriteFailure
	Duration      time.Duration
}

// FailureCount returns per-kind failure totals in taxonomy order:
// not-found, transient, fatal.
func (r *Report) FailureCount() (notFound, transient, fatal int) {
	for _, failure := range r.Failures {
		switch failure.Kind {
		case FailureNotFound:
			notFound++
		case FailureTransient:
			transient++
		case FailureFatal:
			fatal++
		}
	}
	return notFound, transient, fatal
}
