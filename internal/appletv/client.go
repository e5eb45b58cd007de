package appletv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAPIBaseURL  = "https://tv.apple.com/api/uts/v3"
	itunesChannelID    = "tvs.sbd.9001"
	defaultHTTPTimeout = 15 * time.Second
)

// apiBaseParams are required on every catalog API call.
var apiBaseParams = url.Values{
	"utscf":  {"OjAAAAAAAAA~"},
	"caller": {"web"},
	"v":      {"84"},
	"pfm":    {"web"},
}

var defaultHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/100.0.4896.127 Safari/537.36",
	"Accept":          "*/*",
	"Accept-Language": "en-US,en;q=0.9",
}

// StatusError reports a non-success HTTP response from the catalog API or a
// CDN host. Callers classify fetch outcomes by inspecting StatusCode.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d from %s", e.StatusCode, e.URL)
}

// Playable is a purchasable or streamable edition of a title carrying one or
// more HLS master playlist URLs.
type Playable struct {
	Title     string
	Year      int
	Playlists []string
}

// Client accesses the catalog API and the subtitle delivery CDNs.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the catalog API base URL, used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient constructs a catalog client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultAPIBaseURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type configurationResponse struct {
	Data struct {
		ApplicationProps struct {
			RequiredParamsMap map[string]map[string]string `json:"requiredParamsMap"`
			Storefront        struct {
				DefaultLocale    string   `json:"defaultLocale"`
				LocalesSupported []string `json:"localesSupported"`
			} `json:"storefront"`
		} `json:"applicationProps"`
	} `json:"data"`
}

type movieResponse struct {
	Data struct {
		Playables map[string]struct {
			ChannelID         string `json:"channelId"`
			CanonicalMetadata struct {
				MovieTitle  string `json:"movieTitle"`
				ReleaseDate int64  `json:"releaseDate"`
			} `json:"canonicalMetadata"`
			ItunesMediaAPIData struct {
				Offers []struct {
					HLSURL string `json:"hlsUrl"`
				} `json:"offers"`
			} `json:"itunesMediaApiData"`
		} `json:"playables"`
	} `json:"data"`
}

// requestParams fetches the storefront configuration and assembles the query
// parameters every subsequent catalog call must carry. English locales are
// preferred when the storefront supports them so titles come back romanized.
func (c *Client) requestParams(ctx context.Context, storefrontID int) (url.Values, error) {
	params := url.Values{}
	for key, values := range apiBaseParams {
		params[key] = values
	}
	params.Set("sf", strconv.Itoa(storefrontID))

	var config configurationResponse
	if err := c.getJSON(ctx, c.baseURL+"/configurations", params, &config); err != nil {
		return nil, fmt.Errorf("storefront configuration: %w", err)
	}

	props := config.Data.ApplicationProps
	required := props.RequiredParamsMap["Default"]
	out := url.Values{}
	for key, value := range required {
		out.Set(key, value)
	}

	locale := props.Storefront.DefaultLocale
	for _, pref := range []string{"en_US", "en_GB"} {
		for _, supported := range props.Storefront.LocalesSupported {
			if supported == pref {
				locale = pref
				break
			}
		}
		if locale == pref {
			break
		}
	}
	out.Set("sf", strconv.Itoa(storefrontID))
	out.Set("locale", strings.ReplaceAll(locale, "_", "-"))
	return out, nil
}

// MoviePlayables fetches a movie's playable editions in one storefront and
// returns those sold through the iTunes channel, each with its deduplicated
// HLS master playlist URLs. An empty slice means the storefront does not
// carry the title.
func (c *Client) MoviePlayables(ctx context.Context, storefrontID int, mediaID string) ([]Playable, error) {
	if mediaID == "" {
		return nil, errors.New("media id required")
	}
	params, err := c.requestParams(ctx, storefrontID)
	if err != nil {
		return nil, err
	}

	var movie movieResponse
	if err := c.getJSON(ctx, c.baseURL+"/movies/"+mediaID, params, &movie); err != nil {
		return nil, err
	}

	var playables []Playable
	for _, entry := range movie.Data.Playables {
		if entry.ChannelID != itunesChannelID {
			continue
		}
		var playlists []string
		seen := make(map[string]struct{})
		for _, offer := range entry.ItunesMediaAPIData.Offers {
			if offer.HLSURL == "" {
				continue
			}
			if _, dup := seen[offer.HLSURL]; dup {
				continue
			}
			seen[offer.HLSURL] = struct{}{}
			playlists = append(playlists, offer.HLSURL)
		}
		if len(playlists) == 0 {
			continue
		}
		playables = append(playables, Playable{
			Title:     entry.CanonicalMetadata.MovieTitle,
			Year:      yearFromMillis(entry.CanonicalMetadata.ReleaseDate),
			Playlists: playlists,
		})
	}
	return playables, nil
}

// SubtitleTracks fetches the master playlist and every variant it references,
// returning the unique subtitle tracks found across all of them.
func (c *Client) SubtitleTracks(ctx context.Context, masterURL string) ([]SubtitleTrack, error) {
	data, err := c.getBody(ctx, masterURL)
	if err != nil {
		return nil, fmt.Errorf("master playlist: %w", err)
	}
	base, err := url.Parse(masterURL)
	if err != nil {
		return nil, fmt.Errorf("master playlist url: %w", err)
	}

	tracks, variants := ParseMasterPlaylist(data, base)
	for _, variantURL := range variants {
		variantData, err := c.getBody(ctx, variantURL)
		if err != nil {
			// A missing variant does not invalidate tracks found elsewhere.
			continue
		}
		variantBase, err := url.Parse(variantURL)
		if err != nil {
			continue
		}
		variantTracks, _ := ParseMasterPlaylist(variantData, variantBase)
		tracks = append(tracks, variantTracks...)
	}

	seen := make(map[string]struct{})
	unique := tracks[:0]
	for _, track := range tracks {
		if _, dup := seen[track.URL]; dup {
			continue
		}
		seen[track.URL] = struct{}{}
		unique = append(unique, track)
	}
	return unique, nil
}

func yearFromMillis(millis int64) int {
	if millis == 0 {
		return 0
	}
	return time.UnixMilli(millis).UTC().Year()
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	target := endpoint
	if len(params) > 0 {
		target = endpoint + "?" + params.Encode()
	}
	body, err := c.getBody(ctx, target)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

func (c *Client) getBody(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for key, value := range defaultHeaders {
		req.Header.Set(key, value)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: target}
	}
	return io.ReadAll(resp.Body)
}
