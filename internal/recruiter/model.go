package recruiter

import (
	"time"
)

// Lead is a recruiter surfaced by the upstream search that the user
// decided to keep track of.
type Lead struct {
	ID           string     `json:"id"`
	UserID       string     `json:"-"`
	ExternalID   string     `json:"externalId"`
	Name         string     `json:"name"`
	Email        string     `json:"email,omitempty"`
	Title        string     `json:"title,omitempty"`
	Company      string     `json:"company"`
	CompanyURL   string     `json:"companyUrl,omitempty"`
	LinkedInURL  string     `json:"linkedinUrl,omitempty"`
	Slug         string     `json:"slug"`
	CreatedAt    time.Time  `json:"createdAt"`
	ContactedAt  *time.Time `json:"contactedAt,omitempty"`
	CreatedAtHum string     `json:"createdAtHumanized,omitempty"`
}
