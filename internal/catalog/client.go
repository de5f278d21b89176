// Package catalog fetches playable items from the YouTube Data API.
package catalog

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

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/tubewaves/internal/media"
)

const (
	defaultBaseURL    = "https://www.googleapis.com/youtube/v3"
	defaultMaxResults = 50
	defaultRegion     = "US"
	musicCategoryID   = "10"

	// Retry configuration
	maxRetries   = 2
	initialDelay = time.Second
	maxDelay     = 8 * time.Second
)

// ErrMissingAPIKey is returned when no API key is configured.
var ErrMissingAPIKey = errors.New("youtube api key not configured")

var logger = logrus.WithField("component", "catalog")

var categories = []string{
	"Podcast", "Rock", "Hip Hop", "R&B", "Bollywood", "Upbeat",
	"Devayat Khawad", "Romance", "Feel Good", "Sad", "Energize",
	"Party", "Chill", "Workout", "Focus",
}

// Categories returns the category bar labels. Selecting one searches for
// its label.
func Categories() []string {
	return append([]string(nil), categories...)
}

// Page is one page of trending results.
type Page struct {
	Items         []media.Item
	NextPageToken string
}

// Client provides access to the YouTube Data API.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	region     string
	maxResults int
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRegion sets the region of the trending chart.
func WithRegion(region string) Option {
	return func(c *Client) {
		if region != "" {
			c.region = region
		}
	}
}

// WithMaxResults sets the page size, 1 to 50.
func WithMaxResults(n int) Option {
	return func(c *Client) {
		if n > 0 && n <= 50 {
			c.maxResults = n
		}
	}
}

// NewClient creates a new YouTube API client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		region:     defaultRegion,
		maxResults: defaultMaxResults,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search returns videos matching query in relevance order.
func (c *Client) Search(ctx context.Context, query string) ([]media.Item, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(c.maxResults))

	var found searchResponse
	if err := c.get(ctx, "search", params, &found); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	ids := make([]string, 0, len(found.Items))
	for _, it := range found.Items {
		if it.ID.VideoID != "" {
			ids = append(ids, it.ID.VideoID)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}

	params = url.Values{}
	params.Set("part", "snippet,contentDetails,statistics")
	params.Set("id", strings.Join(ids, ","))

	var details videosResponse
	if err := c.get(ctx, "videos", params, &details); err != nil {
		return nil, fmt.Errorf("video details: %w", err)
	}

	logger.WithFields(logrus.Fields{"query": query, "results": len(details.Items)}).Debug("search done")
	return convertVideos(details.Items), nil
}

// Trending returns a page of the most popular music videos. An empty
// pageToken requests the first page.
func (c *Client) Trending(ctx context.Context, pageToken string) (Page, error) {
	params := url.Values{}
	params.Set("part", "snippet,contentDetails,statistics")
	params.Set("chart", "mostPopular")
	params.Set("videoCategoryId", musicCategoryID)
	params.Set("regionCode", c.region)
	params.Set("maxResults", strconv.Itoa(c.maxResults))
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}

	var resp videosResponse
	if err := c.get(ctx, "videos", params, &resp); err != nil {
		return Page{}, fmt.Errorf("trending: %w", err)
	}
	return Page{Items: convertVideos(resp.Items), NextPageToken: resp.NextPageToken}, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}
	params.Set("key", c.apiKey)
	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.doRequestWithRetry(ctx, req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var apiErr errorResponse
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("API status %d: %s", resp.StatusCode, apiErr.Error.Message)
	}
	return fmt.Errorf("API status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}

// doRequestWithRetry executes an HTTP request with exponential backoff retry.
// Retries on 5xx errors and network errors.
func (c *Client) doRequestWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	var lastErr error
	delay := initialDelay

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay = min(delay*2, maxDelay)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}

		// Success or client error (4xx) - don't retry
		if resp.StatusCode < 500 {
			return resp, nil
		}

		// Server error (5xx) - retry
		resp.Body.Close()
		lastErr = fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	return nil, fmt.Errorf("request failed after %d retries: %w", maxRetries+1, lastErr)
}

func convertVideos(videos []video) []media.Item {
	items := make([]media.Item, 0, len(videos))
	for i := range videos {
		v := &videos[i]
		length := ParseDuration(v.ContentDetails.Duration)
		item, err := media.New(media.Item{
			ID:          v.ID,
			Title:       v.Snippet.Title,
			Attribution: v.Snippet.ChannelTitle,
			Thumbnails:  preferredThumbnails(v.Snippet.Thumbnails),
			Duration:    media.FormatClock(length),
			Popularity:  FormatViews(v.Statistics.ViewCount),
			End:         length,
		})
		if err != nil {
			logger.WithError(err).WithField("id", v.ID).Debug("skipping video")
			continue
		}
		items = append(items, item)
	}
	return items
}

// preferredThumbnails orders thumbnails high, medium, default.
func preferredThumbnails(t thumbnails) []string {
	var urls []string
	for _, th := range []thumbnail{t.High, t.Medium, t.Default} {
		if th.URL != "" {
			urls = append(urls, th.URL)
		}
	}
	return urls
}
