package categorizer

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/cleared-dev/finadvisor/internal/model"
)

// snap maps a free-text model answer onto one of categories: exact match,
// then case-insensitive containment either way, then the closest name
// within maxDistance edits. Anything else is Other.
func snap(answer string, categories []string, maxDistance int) string {
	a := strings.TrimSpace(answer)
	if a == "" {
		return model.CategoryOther
	}
	for _, c := range categories {
		if a == c {
			return c
		}
	}

	lower := strings.ToLower(a)
	for _, c := range categories {
		lc := strings.ToLower(c)
		if strings.Contains(lower, lc) || strings.Contains(lc, lower) {
			return c
		}
	}

	best, bestDist := "", maxDistance+1
	for _, c := range categories {
		if d := fuzzy.LevenshteinDistance(lower, strings.ToLower(c)); d < bestDist {
			best, bestDist = c, d
		}
	}
	if best != "" {
		return best
	}
	return model.CategoryOther
}
