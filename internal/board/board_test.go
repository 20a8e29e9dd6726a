package board

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/careerdeck/careerdeck/internal/listing"
	"github.com/careerdeck/careerdeck/internal/searchapi"

	"github.com/allegro/bigcache/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	postings []listing.Posting
	err      error
	calls    int
}

func (f *fakeFetcher) SearchJobs(_ context.Context, _ searchapi.Preferences, _, _ int) (searchapi.JobSearchResult, error) {
	f.calls++
	if f.err != nil {
		return searchapi.JobSearchResult{}, f.err
	}
	return searchapi.JobSearchResult{Postings: f.postings, TotalCount: len(f.postings)}, nil
}

func score(f float64) *float64 { return &f }

func fixturePostings() []listing.Posting {
	return []listing.Posting{
		{ID: "1", Title: "Backend Engineer", Company: "Acme", Location: "Berlin", JobType: listing.JobTypeFullTime, PostedRecency: "3 days ago", MatchScore: score(70)},
		{ID: "2", Title: "Data Intern", Company: "Globex", Location: "Remote", JobType: listing.JobTypeInternship, PostedRecency: "Just now", MatchScore: score(90)},
		{ID: "3", Title: "SRE", Company: "Initech", Location: "Austin", JobType: listing.JobTypeContract, PostedRecency: "2 weeks ago", CombinedScore: score(80)},
	}
}

func TestLoadAndView(t *testing.T) {
	fetcher := &fakeFetcher{postings: fixturePostings()}
	b := New(fetcher, nil, searchapi.Preferences{JobTypes: []string{listing.JobTypeFullTime}})
	require.NoError(t, b.Load(context.Background()))

	view := b.View()
	assert.Equal(t, 3, view.TotalMatches)
	assert.Equal(t, 1, view.TotalPages)
	assert.Equal(t, 1, view.CurrentPage)
	// default sort is by match, descending, with combinedScore fallback
	require.Len(t, view.Postings, 3)
	assert.Equal(t, "2", view.Postings[0].ID)
	assert.Equal(t, "3", view.Postings[1].ID)
	assert.Equal(t, "1", view.Postings[2].ID)
}

func TestRefreshFailureKeepsPriorList(t *testing.T) {
	fetcher := &fakeFetcher{postings: fixturePostings()}
	b := New(fetcher, nil, searchapi.Preferences{})
	require.NoError(t, b.Load(context.Background()))

	fetcher.err = errors.New("upstream down")
	err := b.Refresh(context.Background())
	require.Error(t, err)
	assert.Equal(t, 3, b.View().TotalMatches)
}

func TestFilterChangeResetsPage(t *testing.T) {
	fetcher := &fakeFetcher{postings: fixturePostings()}
	b := New(fetcher, nil, searchapi.Preferences{})
	require.NoError(t, b.Load(context.Background()))

	b.SetPage(3)
	b.SetSearchText("acme")
	assert.Equal(t, 1, b.View().CurrentPage)

	b.SetPage(2)
	b.SetJobType(listing.JobTypeContract)
	assert.Equal(t, 1, b.View().CurrentPage)

	b.SetPage(2)
	b.SetSortKey(listing.SortByCompany)
	assert.Equal(t, 1, b.View().CurrentPage)

	// setting the same value again is not a change and keeps the page
	b.SetPage(2)
	b.SetSortKey(listing.SortByCompany)
	assert.Equal(t, 2, b.View().CurrentPage)
}

func TestInvalidSortKeyIgnored(t *testing.T) {
	fetcher := &fakeFetcher{postings: fixturePostings()}
	b := New(fetcher, nil, searchapi.Preferences{})
	require.NoError(t, b.Load(context.Background()))

	b.SetSortKey("salary")
	assert.Equal(t, listing.SortByMatch, b.View().SortKey)
}

func TestUnknownJobTypeFallsBackToAll(t *testing.T) {
	fetcher := &fakeFetcher{postings: fixturePostings()}
	b := New(fetcher, nil, searchapi.Preferences{})
	require.NoError(t, b.Load(context.Background()))

	b.SetJobType("Freelance")
	view := b.View()
	assert.Equal(t, listing.JobTypeAll, view.JobType)
	assert.Equal(t, 3, view.TotalMatches)

	b.SetJobType(listing.JobTypeInternship)
	view = b.View()
	assert.Equal(t, listing.JobTypeInternship, view.JobType)
	assert.Equal(t, 1, view.TotalMatches)
}

func TestViewFiltersAndPaginates(t *testing.T) {
	postings := make([]listing.Posting, 0, 25)
	for i := 0; i < 25; i++ {
		postings = append(postings, listing.Posting{
			ID:      string(rune('a' + i)),
			Title:   "Engineer",
			Company: "Acme",
			JobType: listing.JobTypeFullTime,
		})
	}
	fetcher := &fakeFetcher{postings: postings}
	b := New(fetcher, nil, searchapi.Preferences{})
	require.NoError(t, b.Load(context.Background()))

	b.SetPage(3)
	view := b.View()
	assert.Equal(t, 3, view.TotalPages)
	assert.Len(t, view.Postings, 1)

	b.SetPage(4)
	assert.Empty(t, b.View().Postings)
}

func TestLoadServesCachedFetch(t *testing.T) {
	cache, err := bigcache.NewBigCache(bigcache.DefaultConfig(10 * time.Minute))
	require.NoError(t, err)

	fetcher := &fakeFetcher{postings: fixturePostings()}
	prefs := searchapi.Preferences{Locations: []string{"Berlin"}}

	first := New(fetcher, cache, prefs)
	require.NoError(t, first.Load(context.Background()))
	assert.Equal(t, 1, fetcher.calls)

	second := New(fetcher, cache, prefs)
	require.NoError(t, second.Load(context.Background()))
	assert.Equal(t, 1, fetcher.calls, "second load should hit the cache")
	assert.Equal(t, 3, second.View().TotalMatches)

	// explicit refresh bypasses the cache
	require.NoError(t, second.Refresh(context.Background()))
	assert.Equal(t, 2, fetcher.calls)
}
