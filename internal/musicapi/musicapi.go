package musicapi

import "context"

// Track represents a playable track from the external catalog. Duration is
// pre-formatted as "m:ss" for display alongside the raw second count. Genre
// and mood are pointers because the catalog's plain search never returns
// them and API consumers expect an explicit null.
type Track struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Artist          string  `json:"artist"`
	Album           string  `json:"album,omitempty"`
	Duration        string  `json:"duration,omitempty"`
	DurationSeconds int     `json:"durationSeconds,omitempty"`
	ImageURL        string  `json:"imageUrl,omitempty"`
	AudioURL        string  `json:"audioUrl,omitempty"`
	Genre           *string `json:"genre"`
	Mood            *string `json:"mood"`
}

// CatalogClient defines the interface for external music catalog clients.
type CatalogClient interface {
	// SearchTracks searches the catalog by free text and returns at most
	// limit tracks. A track without an audio URL is not playable; callers
	// must tolerate that.
	SearchTracks(ctx context.Context, query string, limit int) ([]Track, error)
}
