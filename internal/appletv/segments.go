package appletv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// cdnHosts are the delivery hostnames serving identical segment content.
// Retries rotate through them so a single unhealthy CDN does not sink a
// subtitle that the others still serve.
var cdnHosts = []string{"vod-ak-amt", "vod-ap-amt", "vod-fa-amt"}

// PrimaryCDN reports whether the URL points at the first CDN host. Track
// lists repeat every rendition once per CDN; keeping the primary entry is
// enough because downloads fail over to the alternates.
func PrimaryCDN(rawURL string) bool {
	return strings.Contains(rawURL, cdnHosts[0])
}

// Downloader fetches segmented WebVTT subtitle documents.
type Downloader struct {
	client     *Client
	maxRetries int
	retryDelay time.Duration
	sleeper    func(time.Duration)
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithMaxRetries overrides the per-segment retry count (defaults to 2).
func WithMaxRetries(retries int) DownloaderOption {
	return func(d *Downloader) {
		if retries >= 0 {
			d.maxRetries = retries
		}
	}
}

// WithRetryDelay overrides the base backoff delay between segment retries.
func WithRetryDelay(delay time.Duration) DownloaderOption {
	return func(d *Downloader) {
		if delay >= 0 {
			d.retryDelay = delay
		}
	}
}

// WithDownloadSleeper overrides how retry sleeps are performed (useful for tests).
func WithDownloadSleeper(sleeper func(time.Duration)) DownloaderOption {
	return func(d *Downloader) {
		d.sleeper = sleeper
	}
}

// NewDownloader constructs a Downloader sharing the client's HTTP transport.
func NewDownloader(client *Client, opts ...DownloaderOption) *Downloader {
	d := &Downloader{
		client:     client,
		maxRetries: 2,
		retryDelay: time.Second,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Download fetches a subtitle playlist, downloads all of its segments in
// order, and returns the merged WebVTT document.
func (d *Downloader) Download(ctx context.Context, playlistURL string) ([]byte, error) {
	data, err := d.client.getBody(ctx, playlistURL)
	if err != nil {
		return nil, fmt.Errorf("subtitle playlist: %w", err)
	}
	base, err := url.Parse(playlistURL)
	if err != nil {
		return nil, fmt.Errorf("subtitle playlist url: %w", err)
	}
	segmentURLs := ParseSegmentPlaylist(data, base)
	if len(segmentURLs) == 0 {
		return nil, errors.New("subtitle playlist has no segments")
	}

	segments := make([][]byte, len(segmentURLs))
	for i, segmentURL := range segmentURLs {
		segment, err := d.fetchSegment(ctx, segmentURL)
		if err != nil {
			return nil, fmt.Errorf("segment %d/%d: %w", i+1, len(segmentURLs), err)
		}
		segments[i] = segment
	}
	return MergeWebVTT(segments), nil
}

// fetchSegment downloads one segment, cycling through alternate CDN hosts on
// retry with exponential backoff.
func (d *Downloader) fetchSegment(ctx context.Context, segmentURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= d.maxRetries; attempt++ {
		target := segmentURL
		if attempt > 0 {
			target = strings.Replace(segmentURL, cdnHosts[0], cdnHosts[attempt%len(cdnHosts)], 1)
		}
		body, err := d.client.getBody(ctx, target)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt < d.maxRetries {
			if err := d.sleep(ctx, d.retryDelay*(1<<attempt)); err != nil {
				return nil, err
			}
		}
	}
	return nil, lastErr
}

func (d *Downloader) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if d.sleeper != nil {
		d.sleeper(delay)
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

// MergeWebVTT concatenates segmented WebVTT documents into one. The first
// segment is kept whole; later segments drop their WEBVTT header and
// X-TIMESTAMP-MAP lines. Runs of blank lines collapse to one.
func MergeWebVTT(segments [][]byte) []byte {
	if len(segments) == 0 {
		return nil
	}

	var merged []string
	for i, segment := range segments {
		lines := strings.Split(string(segment), "\n")
		if i == 0 {
			merged = append(merged, lines...)
			continue
		}
		contentStarted := false
		for _, line := range lines {
			stripped := strings.TrimSpace(line)
			if !contentStarted {
				if strings.HasPrefix(stripped, "WEBVTT") ||
					strings.HasPrefix(stripped, "X-TIMESTAMP-MAP") ||
					stripped == "" {
					continue
				}
				contentStarted = true
			}
			merged = append(merged, line)
		}
	}

	var out bytes.Buffer
	previousBlank := false
	for _, line := range merged {
		if strings.TrimSpace(line) == "" {
			if previousBlank {
				continue
			}
			previousBlank = true
		} else {
			previousBlank = false
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	return out.Bytes()
}
