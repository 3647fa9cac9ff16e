package location

import "strings"

const (
	// AutoSelectConfidence is the score the top candidate must exceed to be
	// picked without asking the user.
	AutoSelectConfidence = 0.9

	// MaxSuggestions caps the candidates offered for explicit choice.
	MaxSuggestions = 5
)

// Selection is the outcome of the disambiguation policy.
type Selection struct {
	AutoSelect  bool       `json:"autoSelect"`
	Location    *Location  `json:"location,omitempty"`
	Suggestions []Location `json:"suggestions"`
}

// Disambiguate decides whether the top candidate can be used directly.
// A purely numeric query (a postal code, usually) is never auto-selected.
func Disambiguate(query string, candidates []Location) Selection {
	if len(candidates) == 0 {
		return Selection{Suggestions: []Location{}}
	}

	top := candidates[0]
	if !isNumeric(query) {
		if len(candidates) == 1 || (top.Confidence != nil && *top.Confidence > AutoSelectConfidence) {
			return Selection{AutoSelect: true, Location: &top, Suggestions: []Location{}}
		}
	}

	n := len(candidates)
	if n > MaxSuggestions {
		n = MaxSuggestions
	}
	suggestions := make([]Location, n)
	copy(suggestions, candidates[:n])
	return Selection{Suggestions: suggestions}
}

func isNumeric(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
