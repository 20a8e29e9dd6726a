package bookmark

import (
	"time"
)

// Bookmark pins an upstream job posting for a user. Posting details
// are denormalised at save time since the upstream feed is transient.
type Bookmark struct {
	UserID         string     `json:"-"`
	PostingID      string     `json:"postingId"`
	Title          string     `json:"title"`
	Company        string     `json:"company"`
	Location       string     `json:"location"`
	JobType        string     `json:"jobType"`
	CreatedAt      time.Time  `json:"createdAt"`
	CreatedAtHum   string     `json:"createdAtHumanized,omitempty"`
	AppliedAt      *time.Time `json:"appliedAt,omitempty"`
	HasApplyRecord bool       `json:"hasApplyRecord"`
}
