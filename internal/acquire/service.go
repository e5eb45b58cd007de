package acquire

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"subdl/internal/appletv"
	"subdl/internal/history"
	"subdl/internal/storefront"
	"subdl/internal/subtitle"
	"subdl/internal/tmdb"
)

// ErrRunInProgress means another acquisition run holds the output lock.
var ErrRunInProgress = errors.New("another acquisition run is in progress")

// ServiceOptions carries the run-level settings a Service needs.
type ServiceOptions struct {
	OutputDir      string
	Resolver       tmdb.Resolver // optional; enriches metadata and regions
	History        *history.Store
	Workers        int
	RetryAttempts  int
	RetryDelay     time.Duration
	AttemptTimeout time.Duration
	Threshold      float64
	Fixer          subtitle.Fixer
}

// Service executes complete acquisition runs: resolve, enumerate, fetch,
// dedupe, write, record.
type Service struct {
	logger      *slog.Logger
	opts        ServiceOptions
	client      *appletv.Client
	fetcher     *PlatformFetcher
	coordinator *Coordinator
	pipeline    *Pipeline
	writer      *Writer
	enumerator  *storefront.Enumerator
}

// NewService wires the production pipeline.
func NewService(logger *slog.Logger, opts ServiceOptions) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	client := appletv.NewClient()
	downloader := appletv.NewDownloader(client)
	fetcher := NewPlatformFetcher(client, downloader, logger)
	return &Service{
		logger:  logger.With("component", "acquire"),
		opts:    opts,
		client:  client,
		fetcher: fetcher,
		coordinator: NewCoordinator(fetcher, logger,
			WithWorkers(opts.Workers),
			WithRetryPolicy(opts.RetryAttempts, opts.RetryDelay),
			WithAttemptTimeout(opts.AttemptTimeout),
		),
		pipeline:   NewPipeline(logger, opts.Threshold, opts.Fixer),
		writer:     NewWriter(logger),
		enumerator: storefront.NewEnumerator(logger),
	}
}

// Run acquires every subtitle the platform serves for the title URL and
// writes the deduplicated set to disk. The returned report is populated even
// when the run fails past the fetch barrier, so callers can surface the
// per-region summary alongside the error.
func (s *Service) Run(ctx context.Context, rawURL string) (*Report, error) {
	start := time.Now()

	ref, err := appletv.ParseReference(rawURL)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	lock := flock.New(filepath.Join(s.opts.OutputDir, ".subdl.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return nil, ErrRunInProgress
	}
	defer func() {
		_ = lock.Unlock()
	}()

	report := &Report{
		RunID:   uuid.NewString(),
		MediaID: ref.MediaID,
	}
	s.logger.Info("starting acquisition run", "run_id", report.RunID, "media_id", ref.MediaID)

	meta, providerRegions := s.resolveTitle(ctx, ref)

	regions, err := s.enumerator.Enumerate(providerRegions)
	if err != nil {
		return nil, err
	}
	report.Regions = len(regions)

	raws, failures, fetchErr := s.coordinator.Fetch(ctx, ref, regions)
	report.Failures = failures
	report.Fetched = len(raws)
	if fetchErr != nil {
		report.Duration = time.Since(start)
		if errors.Is(fetchErr, ErrAcquisition) {
			s.finishRun(report, meta)
			return report, fetchErr
		}
		return nil, fetchErr
	}

	// The probe storefront can miss a title another region carries; backfill
	// naming metadata from whatever region answered first.
	if meta.Title == "" {
		meta.Title, meta.Year = s.fetcher.TitleMetadata()
	}

	clusters, skipped := s.pipeline.Process(raws)
	report.Skipped = skipped
	report.Clusters = len(clusters)
	report.Title = meta.Title
	report.Year = meta.Year

	files, writeFailures, err := s.writer.Write(s.opts.OutputDir, meta, clusters)
	if err != nil {
		return nil, err
	}
	report.Files = files
	report.WriteFailures = writeFailures
	report.Duration = time.Since(start)

	s.finishRun(report, meta)
	return report, nil
}

// resolveTitle probes the URL's own storefront for the title name, then asks
// TMDB for canonical metadata and the watch-provider region listing. Every
// step degrades gracefully: a failed probe just means the always-check
// regions carry the run.
func (s *Service) resolveTitle(ctx context.Context, ref appletv.Reference) (TitleMeta, []string) {
	meta := TitleMeta{}

	probe := ref.Country
	if !storefront.Known(probe) {
		probe = "us"
	}
	if storefrontID, ok := storefront.StorefrontID(probe); ok {
		playables, err := s.client.MoviePlayables(ctx, storefrontID, ref.MediaID)
		if err == nil && len(playables) > 0 {
			meta.Title = playables[0].Title
			meta.Year = playables[0].Year
		} else if err != nil {
			s.logger.Debug("metadata probe failed", "region", probe, "error", err)
		}
	}

	if s.opts.Resolver == nil || meta.Title == "" {
		return meta, nil
	}

	resp, err := s.opts.Resolver.SearchMovie(ctx, meta.Title, meta.Year)
	if err != nil || len(resp.Results) == 0 {
		s.logger.Debug("tmdb search found no match", "title", meta.Title, "error", err)
		return meta, nil
	}
	match := resp.Results[0]
	meta.Title = match.DisplayTitle()
	if year := match.Year(); year > 0 {
		meta.Year = year
	}
	meta.ID = strconv.FormatInt(match.ID, 10)

	regions, err := s.opts.Resolver.WatchProviderRegions(ctx, "movie", match.ID)
	if err != nil {
		s.logger.Debug("watch provider listing unavailable", "error", err)
		return meta, nil
	}
	s.logger.Info("resolved title",
		"title", meta.Title, "year", meta.Year, "tmdb_id", meta.ID,
		"provider_regions", len(regions))
	return meta, regions
}

func (s *Service) finishRun(report *Report, meta TitleMeta) {
	if report.Title == "" {
		report.Title = meta.Title
		report.Year = meta.Year
	}
	if s.opts.History == nil {
		return
	}
	notFound, transient, fatal := report.FailureCount()
	record := history.RunRecord{
		RunID:     report.RunID,
		MediaID:   report.MediaID,
		Title:     report.Title,
		Year:      report.Year,
		Regions:   report.Regions,
		Fetched:   report.Fetched,
		NotFound:  notFound,
		Transient: transient,
		Fatal:     fatal,
		Files:     len(report.Files),
		Duration:  report.Duration,
	}
	if err := s.opts.History.RecordRun(record); err != nil {
		s.logger.Warn("failed to record run history", "error", err)
	}
}
