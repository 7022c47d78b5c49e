package recommendations

import (
	"fmt"
	"strings"

	"soundhaven/internal/store"
)

const missingTag = "N/A"

// buildPrompt renders the listening history into the fixed curator prompt.
// The closing format line is the entire contract with the text model; the
// parser depends on it verbatim.
func buildPrompt(entries []store.HistoryEntry, limit int) string {
	var history strings.Builder
	for _, e := range entries {
		genre, mood := missingTag, missingTag
		if e.Genre != nil && *e.Genre != "" {
			genre = *e.Genre
		}
		if e.Mood != nil && *e.Mood != "" {
			mood = *e.Mood
		}
		fmt.Fprintf(&history, "- %q by %s (Genre: %s, Mood: %s)\n", e.Title, e.Artist, genre, mood)
	}

	return fmt.Sprintf(`You are an experienced music curator. A user recently listened to the following songs:
%s
Recommend %d new songs (different from the ones in the history) you think the user would enjoy.
For each recommendation provide:
1. The exact song title.
2. The exact artist name.
3. A short, engaging justification explaining why you recommend it, connecting it to the user's history.

Format each recommendation strictly as:
Song Title - Artist Name :: Short justification here`, history.String(), limit)
}
