package acquire

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"subdl/internal/appletv"
)

type fakeFetcher struct {
	mu       sync.Mutex
	attempts map[string]int
	handler  func(region string, attempt int) ([]RawSubtitle, error)
}

func newFakeFetcher(handler func(region string, attempt int) ([]RawSubtitle, error)) *fakeFetcher {
	return &fakeFetcher{attempts: make(map[string]int), handler: handler}
}

func (f *fakeFetcher) FetchRegion(ctx context.Context, region string, ref appletv.Reference) ([]RawSubtitle, error) {
	f.mu.Lock()
	f.attempts[region]++
	attempt := f.attempts[region]
	f.mu.Unlock()
	return f.handler(region, attempt)
}

func (f *fakeFetcher) attemptCount(region string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts[region]
}

func rawFor(region string) RawSubtitle {
	return RawSubtitle{
		Region:   region,
		Language: "en",
		Body:     []byte("WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nHello from " + region + ".\n"),
	}
}

func testCoordinator(fetcher Fetcher, opts ...CoordinatorOption) *Coordinator {
	base := []CoordinatorOption{
		WithRetryPolicy(2, time.Millisecond),
		WithSleeper(func(time.Duration) {}),
	}
	return NewCoordinator(fetcher, nil, append(base, opts...)...)
}

func TestFetchCollectsAllRegions(t *testing.T) {
	fetcher := newFakeFetcher(func(region string, attempt int) ([]RawSubtitle, error) {
		if region == "jp" {
			return nil, fmt.Errorf("%w: nothing here", ErrNoSubtitles)
		}
		return []RawSubtitle{rawFor(region)}, nil
	})

	coordinator := testCoordinator(fetcher)
	subs, failures, err := coordinator.Fetch(context.Background(), appletv.Reference{}, []string{"us", "gb", "jp"})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("expected 2 subtitles, got %d", len(subs))
	}
	if len(failures) != 1 || failures[0].Region != "jp" || failures[0].Kind != FailureNotFound {
		t.Fatalf("unexpected failures: %v", failures)
	}
}

func TestFetchRetriesTransient(t *testing.T) {
	transientErr := &appletv.StatusError{StatusCode: 502, URL: "https://example.com"}
	fetcher := newFakeFetcher(func(region string, attempt int) ([]RawSubtitle, error) {
		if attempt < 3 {
			return nil, transientErr
		}
		return []RawSubtitle{rawFor(region)}, nil
	})

	coordinator := testCoordinator(fetcher)
	subs, failures, err := coordinator.Fetch(context.Background(), appletv.Reference{}, []string{"us"})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(subs) != 1 || len(failures) != 0 {
		t.Fatalf("expected recovery on third attempt, got subs=%d failures=%v", len(subs), failures)
	}
	if got := fetcher.attemptCount("us"); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestFetchDoesNotRetryFatal(t *testing.T) {
	fetcher := newFakeFetcher(func(region string, attempt int) ([]RawSubtitle, error) {
		return nil, errors.New("unexpected response shape")
	})

	coordinator := testCoordinator(fetcher)
	_, failures, err := coordinator.Fetch(context.Background(), appletv.Reference{}, []string{"us"})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(failures) != 1 || failures[0].Kind != FailureFatal {
		t.Fatalf("expected one fatal failure, got %v", failures)
	}
	if got := fetcher.attemptCount("us"); got != 1 {
		t.Fatalf("fatal failure must not retry, got %d attempts", got)
	}
}

func TestFetchTotalFailureEscalates(t *testing.T) {
	transientErr := &appletv.StatusError{StatusCode: 500, URL: "https://example.com"}
	fetcher := newFakeFetcher(func(region string, attempt int) ([]RawSubtitle, error) {
		if region == "us" {
			return nil, transientErr
		}
		return nil, fmt.Errorf("%w: nothing", ErrNoSubtitles)
	})

	coordinator := testCoordinator(fetcher)
	subs, failures, err := coordinator.Fetch(context.Background(), appletv.Reference{}, []string{"us", "gb", "jp"})
	if !errors.Is(err, ErrAcquisition) {
		t.Fatalf("expected ErrAcquisition, got %v", err)
	}
	if len(subs) != 0 {
		t.Fatalf("expected zero subtitles, got %d", len(subs))
	}
	if len(failures) != 3 {
		t.Fatalf("expected a failure per region, got %v", failures)
	}
}

func TestFetchFatalPreventsEscalation(t *testing.T) {
	// A fatal answer proves the title exists somewhere, so the run completes
	// as an empty valid result instead of raising ErrAcquisition.
	fetcher := newFakeFetcher(func(region string, attempt int) ([]RawSubtitle, error) {
		if region == "jp" {
			return nil, errors.New("malformed playables payload")
		}
		return nil, fmt.Errorf("%w: nothing", ErrNoSubtitles)
	})

	coordinator := testCoordinator(fetcher)
	subs, failures, err := coordinator.Fetch(context.Background(), appletv.Reference{}, []string{"us", "gb", "jp"})
	if err != nil {
		t.Fatalf("expected empty valid result, got error: %v", err)
	}
	if len(subs) != 0 {
		t.Fatalf("expected zero subtitles, got %d", len(subs))
	}
	notFatal := 0
	for _, failure := range failures {
		if failure.Kind != FailureFatal {
			notFatal++
		}
	}
	if notFatal != 2 || len(failures) != 3 {
		t.Fatalf("unexpected failure mix: %v", failures)
	}
}

func TestFetchBoundsParallelism(t *testing.T) {
	var active, peak atomic.Int32
	fetcher := newFakeFetcher(func(region string, attempt int) ([]RawSubtitle, error) {
		current := active.Add(1)
		for {
			observed := peak.Load()
			if current <= observed || peak.CompareAndSwap(observed, current) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		active.Add(-1)
		return []RawSubtitle{rawFor(region)}, nil
	})

	coordinator := testCoordinator(fetcher, WithWorkers(2))
	regions := []string{"us", "gb", "ca", "au", "de", "fr"}
	if _, _, err := coordinator.Fetch(context.Background(), appletv.Reference{}, regions); err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if peak.Load() > 2 {
		t.Fatalf("worker pool exceeded limit: peak %d", peak.Load())
	}
}

func TestFetchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fetcher := newFakeFetcher(func(region string, attempt int) ([]RawSubtitle, error) {
		return []RawSubtitle{rawFor(region)}, nil
	})

	coordinator := testCoordinator(fetcher)
	if _, _, err := coordinator.Fetch(ctx, appletv.Reference{}, []string{"us"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
