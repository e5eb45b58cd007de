package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Result represents a single TMDB title match.
type Result struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	MediaType    string  `json:"media_type"`
	Popularity   float64 `json:"popularity"`
	VoteCount    int64   `json:"vote_count"`
}

// DisplayTitle returns the movie or TV title, whichever is populated.
func (r Result) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

// Year extracts the release year, or zero when the date is absent.
func (r Result) Year() int {
	date := r.ReleaseDate
	if date == "" {
		date = r.FirstAirDate
	}
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

// Response models the TMDB paginated search response.
type Response struct {
	Page         int      `json:"page"`
	Results      []Result `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

// provider is one streaming offer inside a watch-provider region entry.
type provider struct {
	ProviderName string `json:"provider_name"`
}

// regionProviders groups the offer lists TMDB reports per region.
type regionProviders struct {
	Flatrate []provider `json:"flatrate"`
	Rent     []provider `json:"rent"`
	Buy      []provider `json:"buy"`
	Free     []provider `json:"free"`
	Ads      []provider `json:"ads"`
}

type watchProvidersResponse struct {
	ID      int64                      `json:"id"`
	Results map[string]regionProviders `json:"results"`
}

// Resolver defines the TMDB operations the acquisition service depends on.
type Resolver interface {
	SearchMovie(ctx context.Context, query string, year int) (*Response, error)
	SearchTV(ctx context.Context, query string, year int) (*Response, error)
	MovieDetails(ctx context.Context, movieID int64) (*Result, error)
	TVDetails(ctx context.Context, showID int64) (*Result, error)
	WatchProviderRegions(ctx context.Context, mediaType string, id int64) ([]string, error)
}

// Client provides access to the TMDB API.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
}

var _ Resolver = (*Client)(nil)

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

// New creates a TMDB client.
func New(apiKey, baseURL, language string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("tmdb base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   strings.TrimSpace(language),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SearchMovie searches TMDB movies for the supplied title, optionally scoped
// to a release year.
func (c *Client) SearchMovie(ctx context.Context, query string, year int) (*Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	params := url.Values{}
	params.Set("query", query)
	if year > 0 {
		params.Set("primary_release_year", strconv.Itoa(year))
	}
	var payload Response
	if err := c.get(ctx, "/search/movie", params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// SearchTV searches TMDB TV shows for the supplied title.
func (c *Client) SearchTV(ctx context.Context, query string, year int) (*Response, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	params := url.Values{}
	params.Set("query", query)
	if year > 0 {
		params.Set("first_air_date_year", strconv.Itoa(year))
	}
	var payload Response
	if err := c.get(ctx, "/search/tv", params, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// MovieDetails fetches movie metadata by TMDB ID.
func (c *Client) MovieDetails(ctx context.Context, movieID int64) (*Result, error) {
	if movieID <= 0 {
		return nil, errors.New("movie id must be positive")
	}
	var payload Result
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", movieID), nil, &payload); err != nil {
		return nil, err
	}
	payload.MediaType = "movie"
	return &payload, nil
}

// TVDetails fetches TV show metadata by TMDB ID.
func (c *Client) TVDetails(ctx context.Context, showID int64) (*Result, error) {
	if showID <= 0 {
		return nil, errors.New("show id must be positive")
	}
	var payload Result
	if err := c.get(ctx, fmt.Sprintf("/tv/%d", showID), nil, &payload); err != nil {
		return nil, err
	}
	payload.MediaType = "tv"
	return &payload, nil
}

// WatchProviderRegions returns the lowercase region codes where TMDB reports
// the title streaming, renting, or selling through the platform's storefront.
// An empty slice is a valid answer; the always-check list covers the gaps.
func (c *Client) WatchProviderRegions(ctx context.Context, mediaType string, id int64) ([]string, error) {
	if id <= 0 {
		return nil, errors.New("title id must be positive")
	}
	switch mediaType {
	case "movie", "tv":
	default:
		return nil, fmt.Errorf("unsupported media type %q", mediaType)
	}
	var payload watchProvidersResponse
	if err := c.get(ctx, fmt.Sprintf("/%s/%d/watch/providers", mediaType, id), nil, &payload); err != nil {
		return nil, err
	}

	var regions []string
	for code, offers := range payload.Results {
		if hasPlatformOffer(offers) {
			regions = append(regions, strings.ToLower(code))
		}
	}
	sort.Strings(regions)
	return regions, nil
}

func hasPlatformOffer(offers regionProviders) bool {
	groups := [][]provider{offers.Flatrate, offers.Rent, offers.Buy, offers.Free, offers.Ads}
	for _, group := range groups {
		for _, p := range group {
			if strings.Contains(strings.ToLower(p.ProviderName), "apple tv") {
				return true
			}
		}
	}
	return false
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse tmdb url: %w", err)
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tmdb %s returned %d (latency=%v)", path, resp.StatusCode, latency)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode tmdb response: %w", err)
	}
	return nil
}
