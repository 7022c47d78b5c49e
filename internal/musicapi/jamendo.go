package musicapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const defaultSearchLimit = 20

// JamendoClient implements CatalogClient against the Jamendo v3.0 API.
type JamendoClient struct {
	clientID   string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewJamendoClient creates a Jamendo API client. The free tier throttles
// aggressively, so outgoing calls are rate-limited client-side.
func NewJamendoClient(clientID string) *JamendoClient {
	return &JamendoClient{
		clientID: clientID,
		baseURL:  "https://api.jamendo.com/v3.0",
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(5), 1),
	}
}

type jamendoTrack struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Duration   int    `json:"duration"`
	ArtistName string `json:"artist_name"`
	AlbumName  string `json:"album_name"`
	Image      string `json:"image"`
	Audio      string `json:"audio"`
}

type jamendoSearchResponse struct {
	Headers struct {
		Status       string `json:"status"`
		ErrorMessage string `json:"error_message"`
	} `json:"headers"`
	Results []jamendoTrack `json:"results"`
}

// SearchTracks searches Jamendo for tracks matching the query.
func (c *JamendoClient) SearchTracks(ctx context.Context, query string, limit int) ([]Track, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("client_id", c.clientID)
	params.Set("format", "json")
	params.Set("limit", fmt.Sprintf("%d", limit))
	params.Set("search", query)
	params.Set("imagesize", "300")
	params.Set("audioformat", "mp32")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/tracks/?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("jamendo api error: %s - %s", resp.Status, string(body))
	}

	var result jamendoSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if result.Headers.Status != "success" {
		return nil, fmt.Errorf("jamendo api status %q: %s", result.Headers.Status, result.Headers.ErrorMessage)
	}

	tracks := make([]Track, 0, len(result.Results))
	for _, jt := range result.Results {
		tracks = append(tracks, convertJamendoTrack(jt))
	}
	return tracks, nil
}

func convertJamendoTrack(jt jamendoTrack) Track {
	return Track{
		ID:              jt.ID,
		Title:           jt.Name,
		Artist:          jt.ArtistName,
		Album:           jt.AlbumName,
		Duration:        FormatDuration(jt.Duration),
		DurationSeconds: jt.Duration,
		ImageURL:        jt.Image,
		AudioURL:        jt.Audio,
	}
}

// FormatDuration renders a second count as "m:ss".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
