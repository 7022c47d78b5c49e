package recommendations

import "strings"

const (
	titleArtistSep   = " - "
	justificationSep = " :: "

	defaultJustification = "Recommended by the AI."
)

// candidate is a parsed-but-unresolved recommendation line.
type candidate struct {
	Title         string
	Artist        string
	Justification string
}

// parseGenerationOutput extracts candidates from the model's free-form
// response. A line qualifies only if it contains both " - " and " :: "
// exactly as mandated by the prompt; everything else (preambles, blank
// lines, commentary) is discarded. The title is the text before the FIRST
// " - ", so an artist name that itself contains " - " survives intact.
func parseGenerationOutput(text string) []candidate {
	var out []candidate
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(line, titleArtistSep) || !strings.Contains(line, justificationSep) {
			continue
		}

		head, justification, _ := strings.Cut(line, justificationSep)
		title, artist, _ := strings.Cut(head, titleArtistSep)

		title = strings.TrimSpace(title)
		artist = strings.TrimSpace(artist)
		justification = strings.TrimSpace(justification)

		if title == "" || artist == "" {
			continue
		}
		if justification == "" {
			justification = defaultJustification
		}

		out = append(out, candidate{Title: title, Artist: artist, Justification: justification})
	}
	return out
}
