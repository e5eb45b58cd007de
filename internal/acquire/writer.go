package acquire

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"subdl/internal/subtitle"
)

// TitleMeta names the output folder for one acquisition run.
type TitleMeta struct {
	Title string
	Year  int
	ID    string
}

// Writer materializes one file per surviving cluster under the run's title
// folder. A single file's failure never aborts the remaining writes.
type Writer struct {
	logger *slog.Logger
}

// NewWriter builds a Writer.
func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{logger: logger.With("component", "writer")}
}

var (
	unsafePathRe  = regexp.MustCompile(`[\\/:*?"<>|]+`)
	multipleDotRe = regexp.MustCompile(`\.{2,}`)
)

// Write persists every canonical candidate into
// <outputDir>/<Title> (<Year>) [<id>]/iTunes/. Filenames derive from the
// canonical member's language and region; colliding names take a numeric
// suffix in cluster order.
func (w *Writer) Write(outputDir string, meta TitleMeta, clusters []subtitle.Cluster) ([]string, []WriteFailure, error) {
	if len(clusters) == 0 {
		w.logger.Info("no surviving subtitles; nothing to write")
		return nil, nil, nil
	}

	dir := filepath.Join(outputDir, titleFolder(meta), "iTunes")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create output directory: %w", err)
	}

	var (
		written  []string
		failures []WriteFailure
	)
	used := make(map[string]struct{})
	for _, cluster := range clusters {
		name := w.uniqueName(meta, cluster.Canonical, used)
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(cluster.Canonical.Body), 0o644); err != nil {
			w.logger.Warn("failed to write subtitle file", "path", path, "error", err)
			failures = append(failures, WriteFailure{Path: path, Err: err})
			continue
		}
		written = append(written, path)
	}
	w.logger.Info("output written", "files", len(written), "failed", len(failures), "dir", dir)
	return written, failures, nil
}

func (w *Writer) uniqueName(meta TitleMeta, canonical subtitle.Candidate, used map[string]struct{}) string {
	// A detected dialect tag (en-GB, es-419) already localizes the track;
	// bare two-letter codes take the source region as the subtag instead.
	tag := canonical.Language
	if !strings.Contains(tag, "-") {
		tag = fmt.Sprintf("%s-%s", tag, strings.ToUpper(canonical.Region))
	}
	base := fmt.Sprintf("%s.iT.WEB.%s", releaseName(meta), tag)
	switch {
	case canonical.SDH:
		base += "[sdh]"
	case canonical.Forced:
		base += "[forced]"
	}

	name := base + ".srt"
	for n := 2; ; n++ {
		if _, taken := used[name]; !taken {
			break
		}
		name = fmt.Sprintf("%s.%d.srt", base, n)
	}
	used[name] = struct{}{}
	return name
}

// titleFolder renders "<Title> (<Year>) [<id>]" with filesystem-hostile
// characters removed.
func titleFolder(meta TitleMeta) string {
	title := strings.TrimSpace(unsafePathRe.ReplaceAllString(meta.Title, ""))
	if title == "" {
		title = "Unknown"
	}
	folder := title
	if meta.Year > 0 {
		folder = fmt.Sprintf("%s (%d)", folder, meta.Year)
	}
	if meta.ID != "" {
		folder = fmt.Sprintf("%s [%s]", folder, meta.ID)
	}
	return folder
}

// releaseName renders the dotted "<Title>.<Year>" filename stem.
func releaseName(meta TitleMeta) string {
	name := strings.TrimSpace(unsafePathRe.ReplaceAllString(meta.Title, ""))
	if name == "" {
		name = "Unknown"
	}
	name = strings.ReplaceAll(name, " ", ".")
	name = multipleDotRe.ReplaceAllString(name, ".")
	name = strings.Trim(name, ".")
	if meta.Year > 0 {
		name = fmt.Sprintf("%s.%d", name, meta.Year)
	}
	return name
}
