package appletv

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/configurations", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("sf") != "143441" {
			t.Errorf("expected sf=143441, got %q", r.URL.Query().Get("sf"))
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"data": {
				"applicationProps": {
					"requiredParamsMap": {"Default": {"utscf": "OjAAAAAAAAA~", "caller": "web", "v": "84"}},
					"storefront": {"defaultLocale": "fr_FR", "localesSupported": ["fr_FR", "en_GB"]}
				}
			}
		}`)
	})
	mux.HandleFunc("/movies/umc.cmc.abcdefghij1234567890", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("locale") != "en-GB" {
			t.Errorf("expected preferred locale en-GB, got %q", r.URL.Query().Get("locale"))
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"data": {
				"playables": {
					"a": {
						"channelId": "tvs.sbd.9001",
						"canonicalMetadata": {"movieTitle": "Example", "releaseDate": 946684800000},
						"itunesMediaApiData": {"offers": [
							{"hlsUrl": "https://vod-ak-amt.example.com/a.m3u8"},
							{"hlsUrl": "https://vod-ak-amt.example.com/a.m3u8"},
							{"hlsUrl": "https://vod-ak-amt.example.com/b.m3u8"}
						]}
					},
					"b": {
						"channelId": "tvs.vds.1234",
						"itunesMediaApiData": {"offers": [{"hlsUrl": "https://vod-ak-amt.example.com/c.m3u8"}]}
					}
				}
			}
		}`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestMoviePlayablesFiltersChannel(t *testing.T) {
	server := newCatalogServer(t)
	client := NewClient(WithBaseURL(server.URL))

	playables, err := client.MoviePlayables(context.Background(), 143441, "umc.cmc.abcdefghij1234567890")
	if err != nil {
		t.Fatalf("MoviePlayables returned error: %v", err)
	}
	if len(playables) != 1 {
		t.Fatalf("expected 1 playable, got %d: %#v", len(playables), playables)
	}
	got := playables[0]
	if got.Title != "Example" || got.Year != 2000 {
		t.Fatalf("unexpected metadata: %#v", got)
	}
	if len(got.Playlists) != 2 {
		t.Fatalf("expected duplicate offers collapsed to 2 playlists, got %v", got.Playlists)
	}
}

func TestMoviePlayablesNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/configurations", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": {"applicationProps": {"requiredParamsMap": {"Default": {}}, "storefront": {"defaultLocale": "en_US", "localesSupported": ["en_US"]}}}}`)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := NewClient(WithBaseURL(server.URL))
	_, err := client.MoviePlayables(context.Background(), 143441, "umc.cmc.nosuchmovie0000000000")
	if err == nil {
		t.Fatal("expected error for missing title")
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 StatusError, got %v", err)
	}
}

func TestSubtitleTracksCollectsVariants(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	mux.HandleFunc("/master.m3u8", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "#EXTM3U\n"+
			"#EXT-X-MEDIA:TYPE=SUBTITLES,GROUP-ID=\"subs\",NAME=\"English\",LANGUAGE=\"en\",URI=\"subs/en.m3u8\"\n"+
			"#EXT-X-STREAM-INF:BANDWIDTH=2000000\n"+
			"variant.m3u8\n")
	})
	mux.HandleFunc("/variant.m3u8", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "#EXTM3U\n"+
			"#EXT-X-MEDIA:TYPE=SUBTITLES,GROUP-ID=\"subs\",NAME=\"English\",LANGUAGE=\"en\",URI=\"subs/en.m3u8\"\n"+
			"#EXT-X-MEDIA:TYPE=SUBTITLES,GROUP-ID=\"subs\",NAME=\"French\",LANGUAGE=\"fr\",URI=\"subs/fr.m3u8\"\n")
	})

	client := NewClient()
	tracks, err := client.SubtitleTracks(context.Background(), server.URL+"/master.m3u8")
	if err != nil {
		t.Fatalf("SubtitleTracks returned error: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("expected 2 unique tracks, got %d: %#v", len(tracks), tracks)
	}
}
