package appletv

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestMergeWebVTT(t *testing.T) {
	first := []byte("WEBVTT\nX-TIMESTAMP-MAP=MPEGTS:900000,LOCAL:00:00:00.000\n\n00:00:01.000 --> 00:00:02.000\nHello.\n")
	second := []byte("WEBVTT\nX-TIMESTAMP-MAP=MPEGTS:900000,LOCAL:00:01:00.000\n\n00:01:01.000 --> 00:01:02.000\nWorld.\n")

	merged := string(MergeWebVTT([][]byte{first, second}))
	if strings.Count(merged, "WEBVTT") != 1 {
		t.Fatalf("expected a single WEBVTT header, got:\n%s", merged)
	}
	if strings.Count(merged, "X-TIMESTAMP-MAP") != 1 {
		t.Fatalf("expected a single timestamp map, got:\n%s", merged)
	}
	if !strings.Contains(merged, "Hello.") || !strings.Contains(merged, "World.") {
		t.Fatalf("cue text missing from merge:\n%s", merged)
	}
	if strings.Contains(merged, "\n\n\n") {
		t.Fatalf("blank runs not collapsed:\n%s", merged)
	}
}

func TestMergeWebVTTEmpty(t *testing.T) {
	if got := MergeWebVTT(nil); got != nil {
		t.Fatalf("expected nil for no segments, got %q", got)
	}
}

func TestDownloadMergesSegments(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	mux.HandleFunc("/sub/prog_index.m3u8", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "#EXTM3U\n#EXTINF:60.0,\nseg_0.webvtt\n#EXTINF:60.0,\nseg_1.webvtt\n#EXT-X-ENDLIST\n")
	})
	mux.HandleFunc("/sub/seg_0.webvtt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nFirst.\n")
	})
	mux.HandleFunc("/sub/seg_1.webvtt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "WEBVTT\n\n00:01:01.000 --> 00:01:02.000\nSecond.\n")
	})

	downloader := NewDownloader(NewClient(), WithRetryDelay(0))
	merged, err := downloader.Download(context.Background(), server.URL+"/sub/prog_index.m3u8")
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}
	text := string(merged)
	if strings.Count(text, "WEBVTT") != 1 || !strings.Contains(text, "First.") || !strings.Contains(text, "Second.") {
		t.Fatalf("unexpected merge output:\n%s", text)
	}
}

func TestDownloadRetriesSegments(t *testing.T) {
	var attempts atomic.Int32
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	mux.HandleFunc("/sub/prog_index.m3u8", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "#EXTM3U\n#EXTINF:60.0,\nseg_0.webvtt\n#EXT-X-ENDLIST\n")
	})
	mux.HandleFunc("/sub/seg_0.webvtt", func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nRecovered.\n")
	})

	var slept []time.Duration
	downloader := NewDownloader(NewClient(),
		WithMaxRetries(2),
		WithRetryDelay(time.Millisecond),
		WithDownloadSleeper(func(d time.Duration) { slept = append(slept, d) }),
	)
	merged, err := downloader.Download(context.Background(), server.URL+"/sub/prog_index.m3u8")
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}
	if !strings.Contains(string(merged), "Recovered.") {
		t.Fatalf("unexpected merge output:\n%s", merged)
	}
	if len(slept) != 1 {
		t.Fatalf("expected one backoff sleep, got %v", slept)
	}
}

func TestDownloadFailsAfterRetries(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	mux.HandleFunc("/sub/prog_index.m3u8", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "#EXTM3U\n#EXTINF:60.0,\nseg_0.webvtt\n#EXT-X-ENDLIST\n")
	})
	mux.HandleFunc("/sub/seg_0.webvtt", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	downloader := NewDownloader(NewClient(),
		WithMaxRetries(1),
		WithRetryDelay(0),
		WithDownloadSleeper(func(time.Duration) {}),
	)
	if _, err := downloader.Download(context.Background(), server.URL+"/sub/prog_index.m3u8"); err == nil {
		t.Fatal("expected error when all attempts fail")
	}
}

func TestPrimaryCDN(t *testing.T) {
	if !PrimaryCDN("https://vod-ak-amt.example.com/sub.m3u8") {
		t.Fatal("expected primary CDN match")
	}
	if PrimaryCDN("https://vod-ap-amt.example.com/sub.m3u8") {
		t.Fatal("alternate CDN should not match")
	}
}
