package subtitle

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrConversion marks a structurally invalid sidecar payload. Callers drop the
// offending item and keep the run going.
var ErrConversion = errors.New("conversion error")

// Cue is a single timed subtitle event. Text keeps embedded line breaks.
type Cue struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

var (
	vttTimingRe = regexp.MustCompile(`^((?:\d{1,2}:)?\d{2}:\d{2}[.,]\d{3})\s+-->\s+((?:\d{1,2}:)?\d{2}:\d{2}[.,]\d{3})`)

	// Inline markup the SRT output cannot carry. Voice spans, cue classes, and
	// karaoke timestamps are dropped; i/b/u survive as-is.
	vttDropTagRe = regexp.MustCompile(`(?i)</?(v|c|lang|ruby|rt)(?:[.\s][^>]*)?>|<\d{2}:\d{2}:\d{2}[.,]\d{3}>`)
)

// ParseVTT decodes a WebVTT document into cues. Header lines, NOTE/STYLE/REGION
// blocks, and X-TIMESTAMP-MAP metadata are skipped. A cue with an unparsable
// timing line fails the whole document with ErrConversion; the platform never
// serves half-valid sidecars, so partial salvage is not worth the ambiguity.
func ParseVTT(data []byte) ([]Cue, error) {
	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	content = strings.TrimPrefix(content, "\ufeff")
	lines := strings.Split(content, "\n")

	if len(lines) == 0 || !strings.HasPrefix(strings.TrimSpace(lines[0]), "WEBVTT") {
		return nil, fmt.Errorf("%w: missing WEBVTT header", ErrConversion)
	}

	var cues []Cue
	i := 1
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if line == "" || strings.HasPrefix(line, "X-TIMESTAMP-MAP") {
			i++
			continue
		}
		if strings.HasPrefix(line, "NOTE") || strings.HasPrefix(line, "STYLE") || strings.HasPrefix(line, "REGION") {
			for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
				i++
			}
			continue
		}

		// Optional cue identifier line precedes the timing line.
		timing := line
		if !strings.Contains(timing, "-->") {
			i++
			if i >= len(lines) {
				break
			}
			timing = strings.TrimSpace(lines[i])
		}
		if !strings.Contains(timing, "-->") {
			return nil, fmt.Errorf("%w: expected timing line, got %q", ErrConversion, timing)
		}
		m := vttTimingRe.FindStringSubmatch(timing)
		if m == nil {
			return nil, fmt.Errorf("%w: invalid timing line %q", ErrConversion, timing)
		}
		start, err := parseVTTTimestamp(m[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConversion, err)
		}
		end, err := parseVTTTimestamp(m[2])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConversion, err)
		}

		i++
		var text []string
		for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
			text = append(text, stripVTTMarkup(lines[i]))
			i++
		}
		body := strings.TrimSpace(strings.Join(text, "\n"))
		if body != "" {
			cues = append(cues, Cue{Start: start, End: end, Text: body})
		}
	}
	return cues, nil
}

// parseVTTTimestamp accepts HH:MM:SS.mmm and the short MM:SS.mmm form.
func parseVTTTimestamp(value string) (time.Duration, error) {
	value = strings.ReplaceAll(value, ",", ".")
	main, frac, ok := strings.Cut(value, ".")
	if !ok || len(frac) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	parts := strings.Split(main, ":")
	var hours, minutes, seconds int
	var err error
	switch len(parts) {
	case 3:
		if hours, err = strconv.Atoi(parts[0]); err != nil {
			return 0, fmt.Errorf("invalid timestamp %q", value)
		}
		parts = parts[1:]
	case 2:
	default:
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	if minutes, err = strconv.Atoi(parts[0]); err != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	if seconds, err = strconv.Atoi(parts[1]); err != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	millis, err := strconv.Atoi(frac)
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	total := time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond
	return total, nil
}

func stripVTTMarkup(line string) string {
	cleaned := vttDropTagRe.ReplaceAllString(line, "")
	cleaned = strings.ReplaceAll(cleaned, "&amp;", "&")
	cleaned = strings.ReplaceAll(cleaned, "&nbsp;", " ")
	return strings.TrimRight(cleaned, " \t")
}
