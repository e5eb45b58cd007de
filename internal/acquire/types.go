package acquire

import (
	"errors"
	"fmt"
)

// ErrAcquisition is the run-fatal outcome: every region failed and no
// subtitle was obtained.
var ErrAcquisition = errors.New("all regions failed, no subtitles obtained")

// ErrNoSubtitles marks a region that answered but carries no subtitle tracks
// for the title. Expected for most regions, classified as NotFound.
var ErrNoSubtitles = errors.New("no subtitles in region")

// RawSubtitle is one subtitle document fetched from a region, still in the
// vendor's sidecar format with its raw language tag.
type RawSubtitle struct {
	Region   string
	Language string
	Name     string
	Forced   bool
	SDH      bool
	Body     []byte
}

// FailureKind classifies a terminal per-region fetch failure.
type FailureKind int

const (
	// FailureNotFound means the region does not carry the title or serves no
	// subtitles for it.
	FailureNotFound FailureKind = iota
	// FailureTransient means network trouble or a 5xx; retried before surfacing.
	FailureTransient
	// FailureFatal means the region answered with an unusable response shape.
	FailureFatal
)

func (k FailureKind) String() string {
	switch k {
	case FailureNotFound:
		return "not-found"
	case FailureTransient:
		return "transient"
	case FailureFatal:
		return "fatal"
	default:
		return fmt.Sprintf("failure(%d)", int(k))
	}
}

// FetchFailure is the terminal failure outcome of one region's fetch task.
// Never fatal to the run by itself; aggregated into the run report.
type FetchFailure struct {
	Region string
	Kind   FailureKind
	Err    error
}

func (f FetchFailure) String() string {
	return fmt.Sprintf("%s: %s: %v", f.Region, f.Kind, f.Err)
}

// SkippedItem records a fetched subtitle dropped during conversion or
// filtering. Per-item, never fatal.
type SkippedItem struct {
	Region   string
	Language string
	Reason   error
}

// WriteFailure records one output file that could not be written. Remaining
// writes continue.
type WriteFailure struct {
	Path string
	Err  error
}
