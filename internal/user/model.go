package user

import "time"

const (
	PlanTierFree      = "free"
	PlanTierMonthly   = "monthly"
	PlanTierQuarterly = "quarterly"
	PlanTierAnnual    = "annual"
)

type User struct {
	ID                 string
	Email              string
	CreatedAtHumanised string
	CreatedAt          time.Time
	IsAdmin            bool
	PlanTier           string
	PlanExpiredAt      time.Time
}

// Preferences drive the upstream job search for a given user.
// Stored as comma separated lists to keep the schema flat.
type Preferences struct {
	JobTypes   []string `json:"jobTypes"`
	Industries []string `json:"industries"`
	Locations  []string `json:"locations"`
}
