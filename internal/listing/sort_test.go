package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func score(f float64) *float64 { return &f }

func TestSortByMatchDescendingWithFallback(t *testing.T) {
	postings := []Posting{
		{ID: "a", MatchScore: score(80)},
		{ID: "b", CombinedScore: score(90)},
		{ID: "c"}, // no scores at all ranks as zero
		{ID: "d", MatchScore: score(85), CombinedScore: score(10)},
	}
	got := Sort(postings, SortByMatch)
	require.Len(t, got, 4)
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids(got))
}

func TestSortByMatchFallbackRanksEquivalently(t *testing.T) {
	postings := []Posting{
		{ID: "combined", CombinedScore: score(40)},
		{ID: "match", MatchScore: score(40)},
	}
	// equal effective scores tie, so input order is preserved
	got := Sort(postings, SortByMatch)
	assert.Equal(t, []string{"combined", "match"}, ids(got))
}

func TestSortByDateMostRecentFirst(t *testing.T) {
	postings := []Posting{
		{ID: "old", PostedRecency: "2 weeks ago"},
		{ID: "unparseable", PostedRecency: "posted yesterday in Q3"},
		{ID: "new", PostedRecency: "Just now"},
		{ID: "mid", PostedRecency: "3 days ago"},
	}
	got := Sort(postings, SortByDate)
	assert.Equal(t, []string{"new", "mid", "old", "unparseable"}, ids(got))
}

func TestSortByCompanyAscending(t *testing.T) {
	postings := []Posting{
		{ID: "3", Company: "initech"},
		{ID: "1", Company: "Acme"},
		{ID: "2", Company: "Globex"},
	}
	got := Sort(postings, SortByCompany)
	assert.Equal(t, []string{"1", "2", "3"}, ids(got))
}

func TestSortIsStableAndDeterministic(t *testing.T) {
	postings := []Posting{
		{ID: "a", Company: "Acme", MatchScore: score(50), PostedRecency: "1 day ago"},
		{ID: "b", Company: "Acme", MatchScore: score(50), PostedRecency: "1 day ago"},
		{ID: "c", Company: "Acme", MatchScore: score(50), PostedRecency: "1 day ago"},
	}
	for _, key := range []SortKey{SortByMatch, SortByDate, SortByCompany} {
		first := Sort(postings, key)
		second := Sort(postings, key)
		assert.Equal(t, []string{"a", "b", "c"}, ids(first), "key %s", key)
		assert.Equal(t, first, second, "key %s", key)
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	postings := []Posting{
		{ID: "z", Company: "Zeta"},
		{ID: "a", Company: "Acme"},
	}
	Sort(postings, SortByCompany)
	assert.Equal(t, "z", postings[0].ID)
}

func TestValidSortKey(t *testing.T) {
	assert.True(t, ValidSortKey(SortByMatch))
	assert.True(t, ValidSortKey(SortByDate))
	assert.True(t, ValidSortKey(SortByCompany))
	assert.False(t, ValidSortKey("salary"))
}

func ids(postings []Posting) []string {
	out := make([]string, 0, len(postings))
	for _, p := range postings {
		out = append(out, p.ID)
	}
	return out
}
