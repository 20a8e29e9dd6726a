package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePostings() []Posting {
	return []Posting{
		{ID: "1", Title: "Backend Engineer", Company: "Acme", Location: "Berlin", JobType: JobTypeFullTime, PostedRecency: "3 days ago"},
		{ID: "2", Title: "Data Intern", Company: "Globex", Location: "Remote", JobType: JobTypeInternship, PostedRecency: "Just now"},
		{ID: "3", Title: "SRE", Company: "Initech", Location: "Austin", JobType: JobTypeContract, PostedRecency: "2 weeks ago"},
		{ID: "4", Title: "Frontend Engineer", Company: "Acme", Location: "Berlin", JobType: JobTypePartTime, PostedRecency: "1 month ago"},
	}
}

func TestFilterBySearchTerm(t *testing.T) {
	got := Filter(samplePostings(), "acme", JobTypeAll)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "4", got[1].ID)
}

func TestFilterSearchMatchesAnyOfTitleCompanyLocation(t *testing.T) {
	postings := samplePostings()

	assert.Len(t, Filter(postings, "engineer", JobTypeAll), 2) // title
	assert.Len(t, Filter(postings, "globex", JobTypeAll), 1)   // company
	assert.Len(t, Filter(postings, "berlin", JobTypeAll), 2)   // location
	assert.Len(t, Filter(postings, "BERLIN", JobTypeAll), 2)   // case-insensitive
}

func TestFilterEmptySearchMatchesAll(t *testing.T) {
	assert.Len(t, Filter(samplePostings(), "", JobTypeAll), 4)
	assert.Len(t, Filter(samplePostings(), "   ", JobTypeAll), 4)
}

func TestFilterByJobType(t *testing.T) {
	got := Filter(samplePostings(), "", JobTypeInternship)
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)
}

func TestFilterCombinesPredicatesWithAnd(t *testing.T) {
	got := Filter(samplePostings(), "acme", JobTypePartTime)
	require.Len(t, got, 1)
	assert.Equal(t, "4", got[0].ID)

	assert.Empty(t, Filter(samplePostings(), "globex", JobTypeContract))
}

func TestFilterUnknownJobTypeNeverMatchesSelection(t *testing.T) {
	postings := append(samplePostings(), Posting{ID: "5", Title: "Gig", Company: "Oddball", JobType: "Freelance"})

	// an unrecognized value never matches a specific selector but still
	// passes the "all" selector
	assert.Empty(t, Filter(postings, "oddball", JobTypeFullTime))
	assert.Len(t, Filter(postings, "oddball", JobTypeAll), 1)
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	postings := samplePostings()
	Filter(postings, "acme", JobTypeAll)
	assert.Equal(t, samplePostings(), postings)
}

func TestFilterIdempotent(t *testing.T) {
	postings := samplePostings()
	first := Filter(postings, "engineer", JobTypeAll)
	second := Filter(postings, "engineer", JobTypeAll)
	assert.Equal(t, first, second)
}

func TestFilterEmptyListYieldsEmptyList(t *testing.T) {
	got := Filter(nil, "anything", JobTypeFullTime)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
