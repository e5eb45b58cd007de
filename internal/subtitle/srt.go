package subtitle

import (
	"fmt"
	"strings"
	"time"
)

// RenderSRT writes cues in SubRip form: 1-based indices, comma-millisecond
// timestamps, cue order preserved.
func RenderSRT(cues []Cue) string {
	var b strings.Builder
	for i, cue := range cues {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d\n", i+1)
		b.WriteString(formatSRTTimestamp(cue.Start))
		b.WriteString(" --> ")
		b.WriteString(formatSRTTimestamp(cue.End))
		b.WriteString("\n")
		b.WriteString(cue.Text)
		b.WriteString("\n")
	}
	return b.String()
}

// ConvertVTT transcodes a WebVTT payload straight to SRT text. The only error
// is ErrConversion from the parse step.
func ConvertVTT(data []byte) (string, error) {
	cues, err := ParseVTT(data)
	if err != nil {
		return "", err
	}
	return RenderSRT(cues), nil
}

func formatSRTTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second
	millis := (d - seconds*time.Second) / time.Millisecond
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}
