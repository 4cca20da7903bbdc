package retrieval

import (
	"sort"
	"strings"

	"github.com/shoplite/storeassist/internal/domain/language"
)

// DefaultMaxCandidates bounds expansion fan-out.
const DefaultMaxCandidates = 12

// SynonymGroups maps a language to named synonym groups. A group is triggered
// when any of its terms appears as a substring of the lowercased query; all
// terms of a triggered group become expansion candidates.
type SynonymGroups map[language.Tag]map[string][]string

// Phrasings maps a language to its canonical domain phrasings, always added
// as expansion candidates for queries detected in that language.
type Phrasings map[language.Tag][]string

// Expander generates alternate query strings for the fallback retrieval pass.
type Expander struct {
	synonyms      SynonymGroups
	phrasings     Phrasings
	maxCandidates int
}

// NewExpander creates an expander. Zero maxCandidates uses the default cap.
func NewExpander(synonyms SynonymGroups, phrasings Phrasings, maxCandidates int) *Expander {
	if maxCandidates <= 0 {
		maxCandidates = DefaultMaxCandidates
	}
	return &Expander{synonyms: synonyms, phrasings: phrasings, maxCandidates: maxCandidates}
}

// DefaultSynonyms returns the built-in store-domain synonym groups.
func DefaultSynonyms() SynonymGroups {
	return SynonymGroups{
		language.English: {
			"return":   {"return", "refund", "exchange"},
			"shipping": {"shipping", "delivery"},
			"track":    {"track", "status"},
		},
		language.Arabic: {
			"return":   {"إرجاع", "استرجاع", "استبدال"},
			"shipping": {"شحن", "توصيل"},
			"track":    {"تتبّع", "حالة"},
		},
	}
}

// DefaultPhrasings returns the built-in canonical domain phrasings.
func DefaultPhrasings() Phrasings {
	return Phrasings{
		language.English: {"return policy", "shipping options", "order tracking"},
		language.Arabic:  {"سياسة الإرجاع", "خيارات الشحن", "تتبّع الطلب"},
	}
}

// Expand builds the candidate list for a query: the original query first,
// then the terms of every triggered synonym group (groups in sorted name
// order), then the canonical phrasings for the language. Duplicates are
// removed and the list is capped, so the result is deterministic.
func (x *Expander) Expand(query string, lang language.Tag) []string {
	lowered := strings.ToLower(strings.TrimSpace(query))

	candidates := make([]string, 0, x.maxCandidates)
	seen := make(map[string]struct{})
	add := func(s string) {
		if s == "" || len(candidates) >= x.maxCandidates {
			return
		}
		if _, dup := seen[s]; dup {
			return
		}
		seen[s] = struct{}{}
		candidates = append(candidates, s)
	}

	add(query)

	groups := x.synonyms[lang]
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		terms := groups[name]
		if !triggered(lowered, terms) {
			continue
		}
		for _, term := range terms {
			add(term)
		}
	}

	for _, p := range x.phrasings[lang] {
		add(p)
	}

	return candidates
}

func triggered(loweredQuery string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(loweredQuery, strings.ToLower(t)) {
			return true
		}
	}
	return false
}
