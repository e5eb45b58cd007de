package acquire

import (
	"fmt"
	"log/slog"

	"subdl/internal/subtitle"
)

// Pipeline carries every fetched subtitle through conversion, language
// normalization, the correction pass, and dedup clustering. Single-threaded:
// clustering needs the full candidate set, so there is nothing to overlap.
type Pipeline struct {
	logger    *slog.Logger
	threshold float64
	fixer     subtitle.Fixer
}

// NewPipeline builds a Pipeline. A zero threshold selects the default; a nil
// fixer selects the default correction pass.
func NewPipeline(logger *slog.Logger, threshold float64, fixer subtitle.Fixer) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if threshold <= 0 {
		threshold = subtitle.DefaultSimilarityThreshold
	}
	if fixer == nil {
		fixer = subtitle.DefaultFixer()
	}
	return &Pipeline{
		logger:    logger.With("component", "pipeline"),
		threshold: threshold,
		fixer:     fixer,
	}
}

// Process converts and normalizes the raw set, then clusters it. Items with
// unparsable cue syntax are dropped and reported as skips; forced tracks
// outside English are filtered out before dedup.
func (p *Pipeline) Process(raws []RawSubtitle) ([]subtitle.Cluster, []SkippedItem) {
	candidates := make([]subtitle.Candidate, 0, len(raws))
	var skipped []SkippedItem

	for _, raw := range raws {
		language := subtitle.NormalizeLanguage(raw.Language)
		srt, err := subtitle.ConvertVTT(raw.Body)
		if err != nil {
			p.logger.Warn("dropping unconvertible subtitle",
				"region", raw.Region, "language", language, "error", err)
			skipped = append(skipped, SkippedItem{
				Region:   raw.Region,
				Language: language,
				Reason:   fmt.Errorf("convert: %w", err),
			})
			continue
		}
		if raw.Forced && language != "en" {
			p.logger.Debug("filtering non-English forced track",
				"region", raw.Region, "language", language)
			continue
		}

		body := p.fixer(srt)
		candidates = append(candidates, subtitle.Candidate{
			Region:   raw.Region,
			Language: language,
			Body:     body,
			Compare:  subtitle.ComparisonText(body),
			Hash:     subtitle.HashBody(body),
			Forced:   raw.Forced,
			SDH:      raw.SDH,
		})
	}

	clusters := subtitle.ClusterCandidates(candidates, p.threshold)

	// Dialect refinement runs after dedup so near-identical en-US/en-GB
	// tracks still merge on the neutral tag; only survivors are retagged.
	for i := range clusters {
		canonical := &clusters[i].Canonical
		if tag := subtitle.DetectDialect(canonical.Language, canonical.Body); tag != canonical.Language {
			p.logger.Debug("dialect detected",
				"region", canonical.Region, "language", canonical.Language, "dialect", tag)
			canonical.Language = tag
		}
	}

	p.logger.Info("deduplication complete",
		"candidates", len(candidates),
		"clusters", len(clusters),
		"skipped", len(skipped))
	return clusters, skipped
}
