package subtitle

import (
	"regexp"
	"sort"
	"strings"

	"github.com/agext/levenshtein"
)

// DefaultSimilarityThreshold is the percentage at or above which two
// same-language tracks are considered the same content. Chosen high enough
// that distinct cuts (extended editions, commentary text) stay separate while
// re-encodes with minor punctuation drift still collapse.
const DefaultSimilarityThreshold = 96.0

var (
	srtTagRe      = regexp.MustCompile(`(?i)</?[ibu]>|\{\s*\\an[1-9]\s*\}|<font[^>]*>|</font>`)
	nonWordRe     = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	srtTimingLine = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}[,.]\d{1,3}\s*-->`)
	indexLineRe   = regexp.MustCompile(`^\d+$`)
)

// ComparisonText flattens SRT text into the string the fuzzy stage compares:
// cue text only, markup stripped, Unicode ellipsis and one-dot leader folded
// to ASCII, whitespace collapsed to single spaces.
func ComparisonText(srt string) string {
	var parts []string
	for _, line := range strings.Split(srt, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || indexLineRe.MatchString(trimmed) || srtTimingLine.MatchString(trimmed) {
			continue
		}
		trimmed = srtTagRe.ReplaceAllString(trimmed, "")
		trimmed = strings.ReplaceAll(trimmed, "…", "...")
		trimmed = strings.ReplaceAll(trimmed, "․", ".")
		if trimmed = strings.TrimSpace(trimmed); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, " ")
}

// TokenSortRatio scores two comparison texts in [0,100]. Tokens are lowercased,
// stripped of punctuation, and sorted before the edit-distance ratio, so cue
// re-ordering and timing drift do not depress the score.
func TokenSortRatio(a, b string) float64 {
	na := tokenSort(a)
	nb := tokenSort(b)
	if na == "" && nb == "" {
		return 100
	}
	return levenshtein.Similarity(na, nb, nil) * 100
}

func tokenSort(s string) string {
	s = strings.ToLower(s)
	s = nonWordRe.ReplaceAllString(s, " ")
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
