package storefront

import (
	"errors"
	"log/slog"
	"sort"
	"strings"
)

// ErrNoRegions is the discovery failure: the title reference resolved to zero
// usable storefronts. Distinct from a run that fetched regions and found no
// subtitles, which is a valid empty result.
var ErrNoRegions = errors.New("no storefront serves this title")

// Enumerator builds the region set for one acquisition run.
type Enumerator struct {
	logger *slog.Logger
}

// NewEnumerator returns an Enumerator logging through the supplied logger.
func NewEnumerator(logger *slog.Logger) *Enumerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enumerator{logger: logger.With("component", "storefront")}
}

// Enumerate merges the provider-reported regions for the title with the
// always-check list, drops unknown and duplicate codes, and returns the fetch
// schedule: priority storefronts first, the rest alphabetical. Returns
// ErrNoRegions when nothing usable remains.
func (e *Enumerator) Enumerate(providerRegions []string) ([]string, error) {
	seen := make(map[string]struct{})
	var regions []string

	add := func(code string) {
		code = strings.ToLower(strings.TrimSpace(code))
		if code == "" {
			return
		}
		// uk and gb name the same storefront; collapse to the ISO code so
		// the schedule never fetches 143444 twice.
		if code == "uk" {
			code = "gb"
		}
		if _, dup := seen[code]; dup {
			return
		}
		if !Known(code) {
			e.logger.Debug("skipping unknown region code", "region", code)
			return
		}
		seen[code] = struct{}{}
		regions = append(regions, code)
	}

	for _, code := range providerRegions {
		add(code)
	}
	for _, code := range alwaysCheck {
		add(code)
	}

	if len(regions) == 0 {
		return nil, ErrNoRegions
	}

	sort.Strings(regions)
	ordered := make([]string, 0, len(regions))
	for _, p := range priorityOrder {
		if _, ok := seen[p]; ok {
			ordered = append(ordered, p)
		}
	}
	for _, code := range regions {
		if !isPriority(code) {
			ordered = append(ordered, code)
		}
	}

	e.logger.Debug("enumerated regions", "count", len(ordered))
	return ordered, nil
}

func isPriority(code string) bool {
	for _, p := range priorityOrder {
		if code == p {
			return true
		}
	}
	return false
}
