package acquire

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sync"

	"subdl/internal/appletv"
	"subdl/internal/storefront"
)

// Fetcher retrieves every subtitle document one region serves for a title.
// A region can legitimately yield several documents (multiple languages,
// forced and SDH variants); an empty result classifies as NotFound.
type Fetcher interface {
	FetchRegion(ctx context.Context, region string, ref appletv.Reference) ([]RawSubtitle, error)
}

// PlatformFetcher fetches subtitles through the platform catalog API and CDN.
type PlatformFetcher struct {
	client     *appletv.Client
	downloader *appletv.Downloader
	logger     *slog.Logger

	mu    sync.Mutex
	title string
	year  int
}

var _ Fetcher = (*PlatformFetcher)(nil)

// NewPlatformFetcher builds the production fetcher.
func NewPlatformFetcher(client *appletv.Client, downloader *appletv.Downloader, logger *slog.Logger) *PlatformFetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlatformFetcher{
		client:     client,
		downloader: downloader,
		logger:     logger.With("component", "fetcher"),
	}
}

// TitleMetadata returns the title name and year observed from the first
// playable any region reported, for callers that have no catalog metadata of
// their own.
func (f *PlatformFetcher) TitleMetadata() (string, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.title, f.year
}

// FetchRegion resolves the storefront, lists the title's playables, walks
// their master playlists for subtitle tracks, and downloads each one.
func (f *PlatformFetcher) FetchRegion(ctx context.Context, region string, ref appletv.Reference) ([]RawSubtitle, error) {
	storefrontID, ok := storefront.StorefrontID(region)
	if !ok {
		return nil, fmt.Errorf("%w: unknown region %s", ErrNoSubtitles, region)
	}

	playables, err := f.client.MoviePlayables(ctx, storefrontID, ref.MediaID)
	if err != nil {
		return nil, err
	}
	if len(playables) == 0 {
		return nil, fmt.Errorf("%w: no playables in %s", ErrNoSubtitles, region)
	}
	f.recordMetadata(playables[0])

	seen := make(map[string]struct{})
	var tracks []appletv.SubtitleTrack
	for _, playable := range playables {
		for _, playlistURL := range playable.Playlists {
			found, err := f.client.SubtitleTracks(ctx, playlistURL)
			if err != nil {
				f.logger.Debug("master playlist unavailable",
					"region", region, "error", err)
				continue
			}
			for _, track := range found {
				// Track lists repeat per CDN host; the downloader fails over
				// to the alternates itself.
				if !appletv.PrimaryCDN(track.URL) {
					continue
				}
				if _, dup := seen[track.URL]; dup {
					continue
				}
				seen[track.URL] = struct{}{}
				tracks = append(tracks, track)
			}
		}
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: no subtitle tracks in %s", ErrNoSubtitles, region)
	}

	subtitles := make([]RawSubtitle, 0, len(tracks))
	for _, track := range tracks {
		body, err := f.downloader.Download(ctx, track.URL)
		if err != nil {
			return nil, fmt.Errorf("download %s track in %s: %w", track.Language, region, err)
		}
		subtitles = append(subtitles, RawSubtitle{
			Region:   region,
			Language: track.Language,
			Name:     track.Name,
			Forced:   track.Forced,
			SDH:      track.SDH,
			Body:     body,
		})
	}
	return subtitles, nil
}

func (f *PlatformFetcher) recordMetadata(playable appletv.Playable) {
	if playable.Title == "" {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.title == "" {
		f.title = playable.Title
		f.year = playable.Year
	}
}

// classifyFetchError maps a fetch error onto the failure taxonomy. Anything
// that proves the region answered with an unusable payload is Fatal; network
// trouble and server errors are Transient and worth retrying.
func classifyFetchError(err error) FailureKind {
	if errors.Is(err, ErrNoSubtitles) {
		return FailureNotFound
	}
	var statusErr *appletv.StatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusNotFound:
			return FailureNotFound
		case statusErr.StatusCode == http.StatusRequestTimeout,
			statusErr.StatusCode == http.StatusTooManyRequests,
			statusErr.StatusCode >= http.StatusInternalServerError:
			return FailureTransient
		default:
			return FailureFatal
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTransient
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return FailureTransient
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return FailureTransient
	}
	return FailureFatal
}
