package acquire

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"subdl/internal/appletv"
)

const (
	defaultWorkers        = 8
	defaultRetryAttempts  = 2
	defaultRetryDelay     = time.Second
	defaultAttemptTimeout = 45 * time.Second
)

// Coordinator fans one fetch task per region out over a bounded worker pool
// and collects every terminal outcome. No region's failure aborts siblings;
// the run only fails when nothing at all was obtained.
type Coordinator struct {
	fetcher        Fetcher
	logger         *slog.Logger
	workers        int
	retryAttempts  int
	retryDelay     time.Duration
	attemptTimeout time.Duration
	sleeper        func(time.Duration)
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithWorkers bounds fetch parallelism (defaults to 8).
func WithWorkers(workers int) CoordinatorOption {
	return func(c *Coordinator) {
		if workers > 0 {
			c.workers = workers
		}
	}
}

// WithRetryPolicy sets how many extra attempts a Transient failure earns and
// the base backoff delay between them.
func WithRetryPolicy(attempts int, delay time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		if attempts >= 0 {
			c.retryAttempts = attempts
		}
		if delay >= 0 {
			c.retryDelay = delay
		}
	}
}

// WithAttemptTimeout bounds each individual fetch attempt. Exceeding it is a
// Transient failure, not a run-level one.
func WithAttemptTimeout(timeout time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		if timeout > 0 {
			c.attemptTimeout = timeout
		}
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) CoordinatorOption {
	return func(c *Coordinator) {
		c.sleeper = sleeper
	}
}

// NewCoordinator builds a Coordinator over the supplied fetcher.
func NewCoordinator(fetcher Fetcher, logger *slog.Logger, opts ...CoordinatorOption) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Coordinator{
		fetcher:        fetcher,
		logger:         logger.With("component", "coordinator"),
		workers:        defaultWorkers,
		retryAttempts:  defaultRetryAttempts,
		retryDelay:     defaultRetryDelay,
		attemptTimeout: defaultAttemptTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch dispatches one task per region and waits for every task to reach a
// terminal outcome. Returns ErrAcquisition only when zero subtitles were
// obtained and no region produced a Fatal outcome: a Fatal answer proves the
// title exists somewhere, so such a run completes as a valid empty result.
func (c *Coordinator) Fetch(ctx context.Context, ref appletv.Reference, regions []string) ([]RawSubtitle, []FetchFailure, error) {
	var (
		mu        sync.Mutex
		subtitles []RawSubtitle
		failures  []FetchFailure
	)

	group := new(errgroup.Group)
	group.SetLimit(c.workers)
	for _, region := range regions {
		region := region
		group.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			subs, failure := c.fetchWithRetry(ctx, ref, region)
			mu.Lock()
			defer mu.Unlock()
			if failure != nil {
				failures = append(failures, *failure)
				return nil
			}
			subtitles = append(subtitles, subs...)
			return nil
		})
	}
	_ = group.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	c.logger.Info("fetch barrier crossed",
		"regions", len(regions),
		"subtitles", len(subtitles),
		"failures", len(failures))

	if len(subtitles) == 0 && !anyFatal(failures) {
		return nil, failures, ErrAcquisition
	}
	return subtitles, failures, nil
}

func anyFatal(failures []FetchFailure) bool {
	for _, failure := range failures {
		if failure.Kind == FailureFatal {
			return true
		}
	}
	return false
}

func (c *Coordinator) fetchWithRetry(ctx context.Context, ref appletv.Reference, region string) ([]RawSubtitle, *FetchFailure) {
	var lastErr error
	for attempt := 0; attempt <= c.retryAttempts; attempt++ {
		attemptCtx := ctx
		cancel := context.CancelFunc(func() {})
		if c.attemptTimeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, c.attemptTimeout)
		}
		subs, err := c.fetcher.FetchRegion(attemptCtx, region, ref)
		cancel()

		if err == nil {
			if len(subs) == 0 {
				return nil, &FetchFailure{Region: region, Kind: FailureNotFound, Err: ErrNoSubtitles}
			}
			c.logger.Debug("region fetched", "region", region, "subtitles", len(subs))
			return subs, nil
		}
		if ctx.Err() != nil {
			return nil, &FetchFailure{Region: region, Kind: FailureTransient, Err: ctx.Err()}
		}

		kind := classifyFetchError(err)
		switch kind {
		case FailureNotFound:
			c.logger.Debug("region has nothing for this title", "region", region)
			return nil, &FetchFailure{Region: region, Kind: kind, Err: err}
		case FailureFatal:
			c.logger.Warn("region answered with unusable payload", "region", region, "error", err)
			return nil, &FetchFailure{Region: region, Kind: kind, Err: err}
		}

		lastErr = err
		if attempt < c.retryAttempts {
			c.logger.Debug("transient fetch failure, retrying",
				"region", region, "attempt", attempt+1, "error", err)
			if err := c.sleep(ctx, c.retryDelay*(1<<attempt)); err != nil {
				return nil, &FetchFailure{Region: region, Kind: FailureTransient, Err: err}
			}
		}
	}
	c.logger.Warn("region exhausted retries", "region", region, "error", lastErr)
	return nil, &FetchFailure{Region: region, Kind: FailureTransient, Err: lastErr}
}

func (c *Coordinator) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	if c.sleeper != nil {
		c.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
