package listing

import "strings"

// Filter reduces postings to the ones matching both the free-text search
// and the job type selector. The search term matches case-insensitively
// against title, company or location; an empty term matches everything.
// The selector is either JobTypeAll or one exact job type value. Filtering
// only changes membership, never order, and returns a new slice.
func Filter(postings []Posting, search, jobType string) []Posting {
	out := make([]Posting, 0, len(postings))
	term := strings.ToLower(strings.TrimSpace(search))
	for _, p := range postings {
		if !matchesSearch(p, term) {
			continue
		}
		if jobType != JobTypeAll && jobType != "" && p.JobType != jobType {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matchesSearch(p Posting, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), term) ||
		strings.Contains(strings.ToLower(p.Company), term) ||
		strings.Contains(strings.ToLower(p.Location), term)
}
