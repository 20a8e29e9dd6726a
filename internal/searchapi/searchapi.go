package searchapi

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"

	"github.com/careerdeck/careerdeck/internal/listing"

	"github.com/pkg/errors"
)

// Client talks to the AI search backend. The backend is an opaque
// collaborator: it computes parsing, scoring, tailoring and search, this
// client only shapes requests and responses.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewClient(baseURL, apiKey string) Client {
	return Client{
		httpClient: http.DefaultClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// Preferences are the user's stated job preferences, sent verbatim as
// search parameters.
type Preferences struct {
	JobTypes   []string `json:"jobTypes"`
	Industries []string `json:"industries"`
	Locations  []string `json:"locations"`
}

type jobSearchRequest struct {
	Preferences
	Page    int `json:"page"`
	PerPage int `json:"perPage"`
}

type JobSearchResult struct {
	Postings   []listing.Posting `json:"jobs"`
	Page       int               `json:"page"`
	PerPage    int               `json:"perPage"`
	TotalPages int               `json:"totalPages"`
	TotalCount int               `json:"totalCount"`
}

// SearchJobs fetches one bounded page of postings for the given
// preferences. One request per call, no retry: a failed fetch is reported
// to the caller which keeps whatever list it already holds.
func (c Client) SearchJobs(ctx context.Context, prefs Preferences, page, perPage int) (JobSearchResult, error) {
	var res JobSearchResult
	err := c.post(ctx, "/v1/jobs/search", jobSearchRequest{Preferences: prefs, Page: page, PerPage: perPage}, &res)
	if err != nil {
		return JobSearchResult{}, errors.Wrap(err, "unable to search jobs")
	}
	return res, nil
}

type RecruiterQuery struct {
	Query      string   `json:"query,omitempty"`
	Industries []string `json:"industries,omitempty"`
	Locations  []string `json:"locations,omitempty"`
	Page       int      `json:"page"`
	PerPage    int      `json:"perPage"`
}

type Recruiter struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	CompanyURL  string `json:"companyUrl"`
	Location    string `json:"location"`
	LinkedinURL string `json:"linkedinUrl"`
	Email       string `json:"email,omitempty"`
}

type recruiterSearchResult struct {
	Recruiters []Recruiter `json:"recruiters"`
	TotalCount int         `json:"totalCount"`
}

// SearchRecruiters finds recruiters matching the query via the backend's
// recruiter index.
func (c Client) SearchRecruiters(ctx context.Context, q RecruiterQuery) ([]Recruiter, int, error) {
	var res recruiterSearchResult
	if err := c.post(ctx, "/v1/recruiters/search", q, &res); err != nil {
		return nil, 0, errors.Wrap(err, "unable to search recruiters")
	}
	return res.Recruiters, res.TotalCount, nil
}

type resumePayload struct {
	Content   string `json:"content"` // base64 of the raw file
	MediaType string `json:"mediaType"`
}

type ResumeProfile struct {
	FullName        string   `json:"fullName"`
	Email           string   `json:"email"`
	Skills          []string `json:"skills"`
	Summary         string   `json:"summary"`
	YearsExperience int      `json:"yearsExperience"`
}

// ParseResume extracts a structured profile from an uploaded resume file.
func (c Client) ParseResume(ctx context.Context, content []byte, mediaType string) (ResumeProfile, error) {
	var res ResumeProfile
	err := c.post(ctx, "/v1/resume/parse", resumePayload{
		Content:   base64.StdEncoding.EncodeToString(content),
		MediaType: mediaType,
	}, &res)
	if err != nil {
		return ResumeProfile{}, errors.Wrap(err, "unable to parse resume")
	}
	return res, nil
}

type resumeScoreRequest struct {
	Resume  resumePayload   `json:"resume"`
	Posting listing.Posting `json:"posting"`
}

type ResumeScore struct {
	MatchScore    float64  `json:"matchScore"`
	CombinedScore float64  `json:"combinedScore"`
	Suggestions   []string `json:"suggestions"`
}

// ScoreResume rates a resume against one posting (ATS-style score).
func (c Client) ScoreResume(ctx context.Context, content []byte, mediaType string, posting listing.Posting) (ResumeScore, error) {
	var res ResumeScore
	err := c.post(ctx, "/v1/resume/score", resumeScoreRequest{
		Resume:  resumePayload{Content: base64.StdEncoding.EncodeToString(content), MediaType: mediaType},
		Posting: posting,
	}, &res)
	if err != nil {
		return ResumeScore{}, errors.Wrap(err, "unable to score resume")
	}
	return res, nil
}

type TailoredResume struct {
	Content    string   `json:"content"` // markdown
	Highlights []string `json:"highlights"`
}

// TailorResume rewrites a resume for one posting.
func (c Client) TailorResume(ctx context.Context, content []byte, mediaType string, posting listing.Posting) (TailoredResume, error) {
	var res TailoredResume
	err := c.post(ctx, "/v1/resume/tailor", resumeScoreRequest{
		Resume:  resumePayload{Content: base64.StdEncoding.EncodeToString(content), MediaType: mediaType},
		Posting: posting,
	}, &res)
	if err != nil {
		return TailoredResume{}, errors.Wrap(err, "unable to tailor resume")
	}
	return res, nil
}

type OutreachDraftRequest struct {
	RecruiterName    string `json:"recruiterName"`
	RecruiterCompany string `json:"recruiterCompany"`
	Role             string `json:"role"`
	Tone             string `json:"tone,omitempty"`
	ResumeSummary    string `json:"resumeSummary,omitempty"`
}

type OutreachDraft struct {
	Subject      string `json:"subject"`
	BodyMarkdown string `json:"bodyMarkdown"`
}

// DraftOutreach asks the backend to draft a recruiter outreach email.
func (c Client) DraftOutreach(ctx context.Context, req OutreachDraftRequest) (OutreachDraft, error) {
	var res OutreachDraft
	if err := c.post(ctx, "/v1/outreach/draft", req, &res); err != nil {
		return OutreachDraft{}, errors.Wrap(err, "unable to draft outreach")
	}
	return res, nil
}

func (c Client) post(ctx context.Context, path string, in, out interface{}) error {
	reqData, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(reqData))
	if err != nil {
		return err
	}
	req.Header.Add("x-api-key", c.apiKey)
	req.Header.Add("content-type", "application/json")
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= http.StatusBadRequest {
		errBody, err := ioutil.ReadAll(res.Body)
		if err != nil {
			errBody = []byte(`unable to read body`)
		}
		return fmt.Errorf("got status code %d from %s: %s", res.StatusCode, path, string(errBody))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
