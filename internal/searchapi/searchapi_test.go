package searchapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchJobs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/jobs/search", r.URL.Path)
		require.Equal(t, "test-key", r.Header.Get("x-api-key"))

		var req jobSearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"Full-Time"}, req.JobTypes)
		assert.Equal(t, 1, req.Page)
		assert.Equal(t, 50, req.PerPage)

		w.Header().Set("content-type", "application/json")
		w.Write([]byte(`{
			"jobs": [
				{"id": "j1", "title": "Backend Engineer", "company": "Acme", "location": "Berlin", "jobType": "Full-Time", "postedRecency": "3 days ago", "matchScore": 82},
				{"id": "j2", "title": "SRE", "company": "Globex", "location": "Remote", "jobType": "Contract", "postedRecency": "Just now", "combinedScore": 40}
			],
			"page": 1, "perPage": 50, "totalPages": 1, "totalCount": 2
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")
	res, err := client.SearchJobs(context.Background(), Preferences{JobTypes: []string{"Full-Time"}}, 1, 50)
	require.NoError(t, err)
	require.Len(t, res.Postings, 2)
	assert.Equal(t, "j1", res.Postings[0].ID)
	require.NotNil(t, res.Postings[0].MatchScore)
	assert.Equal(t, float64(82), *res.Postings[0].MatchScore)
	assert.Nil(t, res.Postings[1].MatchScore)
	require.NotNil(t, res.Postings[1].CombinedScore)
	assert.Equal(t, float64(40), *res.Postings[1].CombinedScore)
	assert.Equal(t, 2, res.TotalCount)
}

func TestSearchJobsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`search index unavailable`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")
	_, err := client.SearchJobs(context.Background(), Preferences{}, 1, 50)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestDraftOutreach(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/outreach/draft", r.URL.Path)
		w.Header().Set("content-type", "application/json")
		w.Write([]byte(`{"subject": "Re: Backend role at Acme", "bodyMarkdown": "Hi **Dana**,"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")
	draft, err := client.DraftOutreach(context.Background(), OutreachDraftRequest{RecruiterName: "Dana", RecruiterCompany: "Acme", Role: "Backend Engineer"})
	require.NoError(t, err)
	assert.Equal(t, "Re: Backend role at Acme", draft.Subject)
	assert.Contains(t, draft.BodyMarkdown, "Dana")
}

func TestSearchRecruiters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/recruiters/search", r.URL.Path)
		w.Header().Set("content-type", "application/json")
		w.Write([]byte(`{"recruiters": [{"id": "r1", "name": "Dana Finch", "company": "Acme", "title": "Technical Recruiter"}], "totalCount": 1}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")
	recruiters, total, err := client.SearchRecruiters(context.Background(), RecruiterQuery{Query: "acme", Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, recruiters, 1)
	assert.Equal(t, "Dana Finch", recruiters[0].Name)
}
