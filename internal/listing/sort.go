package listing

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortKey string

const (
	SortByMatch   SortKey = "match"
	SortByDate    SortKey = "date"
	SortByCompany SortKey = "company"
)

var companyCollator = collate.New(language.English, collate.IgnoreCase)

// Sort returns a new slice ordered by the given key: match (descending
// relevance score), date (most recent first, unparseable recency last) or
// company (locale-aware ascending). All sorts are stable so ties keep
// their fetched order and re-sorting identical input is deterministic.
// An unrecognized key leaves the input order as is.
func Sort(postings []Posting, key SortKey) []Posting {
	out := make([]Posting, len(postings))
	copy(out, postings)
	switch key {
	case SortByMatch:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].RelevanceScore() > out[j].RelevanceScore()
		})
	case SortByDate:
		sort.SliceStable(out, func(i, j int) bool {
			return AgeInDays(out[i].PostedRecency) < AgeInDays(out[j].PostedRecency)
		})
	case SortByCompany:
		sort.SliceStable(out, func(i, j int) bool {
			return companyCollator.CompareString(out[i].Company, out[j].Company) < 0
		})
	}
	return out
}

// ValidSortKey reports whether key is one of the three user-selectable
// sort keys.
func ValidSortKey(key SortKey) bool {
	return key == SortByMatch || key == SortByDate || key == SortByCompany
}
