package categorizer

import (
	"strings"

	"github.com/cloudflare/ahocorasick"

	"github.com/cleared-dev/finadvisor/internal/config"
)

// ruleMatcher finds keyword rules in a description in one pass. When
// several rules match, the one listed first in the config wins.
type ruleMatcher struct {
	matcher *ahocorasick.Matcher
	owner   []int // pattern index -> rule index
	rules   []config.KeywordRule
}

func newRuleMatcher(rules []config.KeywordRule) *ruleMatcher {
	seen := make(map[string]bool)
	var patterns []string
	var owner []int
	for i, r := range rules {
		for _, kw := range r.Keywords {
			p := strings.ToUpper(strings.TrimSpace(kw))
			if p == "" || seen[p] {
				continue
			}
			seen[p] = true
			patterns = append(patterns, p)
			owner = append(owner, i)
		}
	}
	if len(patterns) == 0 {
		return &ruleMatcher{}
	}
	return &ruleMatcher{
		matcher: ahocorasick.NewStringMatcher(patterns),
		owner:   owner,
		rules:   rules,
	}
}

// match returns the category of the best matching rule.
func (m *ruleMatcher) match(description string) (string, bool) {
	if m.matcher == nil {
		return "", false
	}
	hits := m.matcher.MatchThreadSafe([]byte(strings.ToUpper(description)))
	best := -1
	for _, h := range hits {
		if h < 0 || h >= len(m.owner) {
			continue
		}
		if r := m.owner[h]; best < 0 || r < best {
			best = r
		}
	}
	if best < 0 {
		return "", false
	}
	return m.rules[best].Category, true
}
