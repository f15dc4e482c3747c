package filtering

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/spigell/vagas/internal/matching"
)

type SortKey string

const (
	SortMatch   SortKey = "match"
	SortRecent  SortKey = "recent"
	SortCompany SortKey = "company"
)

var sortAliases = map[string]SortKey{
	"match":    SortMatch,
	"recent":   SortRecent,
	"recentes": SortRecent,
	"company":  SortCompany,
	"empresa":  SortCompany,
}

// SortKeys lists the recognised keys in the order the sort menu shows them.
var SortKeys = []SortKey{SortMatch, SortRecent, SortCompany}

// ParseSortKey resolves a key or one of its Portuguese aliases.
func ParseSortKey(s string) (SortKey, bool) {
	key, ok := sortAliases[strings.ToLower(strings.TrimSpace(s))]
	return key, ok
}

// Sort returns a stably sorted copy of items. Unknown keys keep the input order.
func Sort(items []matching.ScoredListing, key SortKey) []matching.ScoredListing {
	out := slices.Clone(items)
	if out == nil {
		out = []matching.ScoredListing{}
	}

	switch key {
	case SortMatch:
		slices.SortStableFunc(out, func(a, b matching.ScoredListing) int {
			return b.Percentage - a.Percentage
		})
	case SortRecent:
		slices.SortStableFunc(out, func(a, b matching.ScoredListing) int {
			return b.PublishedAt.Compare(a.PublishedAt)
		})
	case SortCompany:
		c := collate.New(language.BrazilianPortuguese)
		slices.SortStableFunc(out, func(a, b matching.ScoredListing) int {
			return c.CompareString(a.Company, b.Company)
		})
	}

	return out
}
