// Package recommendations turns a user's recent listening history into a
// short list of newly suggested, playable tracks, each with a generated
// justification.
package recommendations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"soundhaven/internal/musicapi"
	"soundhaven/internal/store"
)

// ErrGenerationFailed signals the text generation call itself failed. It is
// the only error the pipeline treats as fatal; parse and resolution failures
// degrade the result set instead.
var ErrGenerationFailed = errors.New("text generation failed")

const (
	defaultHistoryLimit        = 15
	defaultRecommendationLimit = 5

	generateTimeout = 30 * time.Second
	resolveTimeout  = 8 * time.Second
)

// Store captures the persistence needs of the pipeline.
type Store interface {
	ListHistory(ctx context.Context, userID int64, limit int) ([]store.HistoryEntry, error)
}

// Recommendation is a resolved track plus the model's justification for
// suggesting it.
type Recommendation struct {
	musicapi.Track
	Justification string `json:"justification"`
}

// Service orchestrates history lookup, prompt construction, generation,
// parsing and catalog re-resolution.
type Service struct {
	store   Store
	catalog musicapi.CatalogClient
	gen     Generator
	log     zerolog.Logger

	historyLimit        int
	recommendationLimit int
}

// Generator produces free-form text from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// New constructs the pipeline with default limits.
func New(st Store, catalog musicapi.CatalogClient, gen Generator, log zerolog.Logger) *Service {
	return &Service{
		store:               st,
		catalog:             catalog,
		gen:                 gen,
		log:                 log,
		historyLimit:        defaultHistoryLimit,
		recommendationLimit: defaultRecommendationLimit,
	}
}

// Generate runs the pipeline for one user. The result is ordered the way
// the model produced it, holds at most the configured limit, and may be
// empty; an empty history or an unparseable response is not an error.
func (s *Service) Generate(ctx context.Context, userID int64) ([]Recommendation, error) {
	entries, err := s.store.ListHistory(ctx, userID, s.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	if len(entries) == 0 {
		// No context to prompt with; do not waste a generation call.
		return []Recommendation{}, nil
	}

	prompt := buildPrompt(entries, s.recommendationLimit)

	genCtx, cancel := context.WithTimeout(ctx, generateTimeout)
	raw, err := s.gen.Generate(genCtx, prompt)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	candidates := parseGenerationOutput(raw)
	if len(candidates) == 0 {
		s.log.Warn().Int64("user_id", userID).Msg("no recommendations parsed from generated text")
		return []Recommendation{}, nil
	}

	out := make([]Recommendation, 0, s.recommendationLimit)
	for _, c := range candidates {
		if len(out) >= s.recommendationLimit {
			break
		}

		resolveCtx, cancel := context.WithTimeout(ctx, resolveTimeout)
		tracks, err := s.catalog.SearchTracks(resolveCtx, c.Title+" "+c.Artist, 1)
		cancel()
		if err != nil {
			s.log.Warn().Err(err).Str("title", c.Title).Str("artist", c.Artist).
				Msg("catalog lookup failed, skipping candidate")
			continue
		}
		if len(tracks) == 0 {
			s.log.Debug().Str("title", c.Title).Str("artist", c.Artist).
				Msg("candidate not found in catalog")
			continue
		}

		track := tracks[0]
		track.Genre = nil
		track.Mood = nil
		out = append(out, Recommendation{Track: track, Justification: c.Justification})
	}

	return out, nil
}
