package listing

const (
	JobTypeInternship = "Internship"
	JobTypeFullTime   = "Full-Time"
	JobTypePartTime   = "Part-Time"
	JobTypeContract   = "Contract"

	// JobTypeAll is the filter selector matching every posting.
	JobTypeAll = "all"
)

// Posting is one job listing as returned by the upstream search backend.
// Postings are read-only: every pipeline stage returns a fresh slice and
// leaves the fetched set untouched.
type Posting struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Company       string   `json:"company"`
	Location      string   `json:"location"`
	JobType       string   `json:"jobType"`
	PostedRecency string   `json:"postedRecency"`
	MatchScore    *float64 `json:"matchScore,omitempty"`
	CombinedScore *float64 `json:"combinedScore,omitempty"`
}

// RelevanceScore is the ranking signal for a posting: matchScore when the
// backend computed one, combinedScore as fallback, zero when both are
// absent. Absence is never an error.
func (p Posting) RelevanceScore() float64 {
	if p.MatchScore != nil {
		return *p.MatchScore
	}
	if p.CombinedScore != nil {
		return *p.CombinedScore
	}
	return 0
}

// KnownJobTypes lists the closed job type enumeration as sent by the
// backend. Postings with a type outside this set are kept in the list but
// never match a specific type filter.
func KnownJobTypes() []string {
	return []string{JobTypeInternship, JobTypeFullTime, JobTypePartTime, JobTypeContract}
}
