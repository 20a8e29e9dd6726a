package user

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/segmentio/ksuid"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

func (r *Repository) SaveTokenSignOn(email, token string) error {
	if _, err := r.db.Exec(`INSERT INTO user_sign_on_token (token, email, created_at) VALUES ($1, $2, $3)`, token, email, time.Now().UTC()); err != nil {
		return err
	}
	return nil
}

// GetOrCreateUserFromToken creates or get existing user given a token
// returns the user struct, whether the user existed already and an error
func (r *Repository) GetOrCreateUserFromToken(token string) (User, bool, error) {
	u := User{}
	row := r.db.QueryRow(`SELECT t.token, t.email, u.id, u.email, u.created_at, u.plan_tier, u.plan_expired_at FROM user_sign_on_token t LEFT JOIN users u ON t.email = u.email WHERE t.token = $1`, token)
	var tokenRes, id, email, tokenEmail, planTier sql.NullString
	var createdAt, planExpiredAt sql.NullTime
	if err := row.Scan(&tokenRes, &tokenEmail, &id, &email, &createdAt, &planTier, &planExpiredAt); err != nil {
		return u, false, err
	}
	if !tokenRes.Valid {
		return u, false, errors.New("token not found")
	}
	if !email.Valid {
		// user not found create new one
		userID, err := ksuid.NewRandom()
		if err != nil {
			return u, false, err
		}
		u.ID = userID.String()
		u.Email = tokenEmail.String
		u.CreatedAt = time.Now()
		u.PlanTier = PlanTierFree
		u.CreatedAtHumanised = humanize.Time(u.CreatedAt.UTC())
		if _, err := r.db.Exec(`INSERT INTO users (id, email, created_at, plan_tier) VALUES ($1, $2, $3, $4)`, u.ID, u.Email, u.CreatedAt, u.PlanTier); err != nil {
			return User{}, false, err
		}

		return u, false, nil
	}
	u.ID = id.String
	u.Email = email.String
	u.CreatedAt = createdAt.Time
	u.PlanTier = planTier.String
	u.PlanExpiredAt = planExpiredAt.Time
	u.CreatedAtHumanised = humanize.Time(u.CreatedAt.UTC())

	return u, true, nil
}

func (r *Repository) DeleteUserByEmail(email string) error {
	_, err := r.db.Exec(`DELETE FROM users WHERE email = $1`, email)
	return err
}

// DeleteExpiredUserSignOnTokens deletes user_sign_on_tokens older than 1 week
func (r *Repository) DeleteExpiredUserSignOnTokens() error {
	_, err := r.db.Exec(`DELETE FROM user_sign_on_token WHERE created_at < NOW() - INTERVAL '7 DAYS'`)
	return err
}

func (r *Repository) GetUser(email string) (User, error) {
	u := User{}
	row := r.db.QueryRow(`SELECT id, email, created_at, plan_tier, plan_expired_at FROM users WHERE email = $1`, email)
	var planTier sql.NullString
	var planExpiredAt sql.NullTime
	if err := row.Scan(&u.ID, &u.Email, &u.CreatedAt, &planTier, &planExpiredAt); err != nil {
		return u, err
	}
	u.PlanTier = planTier.String
	u.PlanExpiredAt = planExpiredAt.Time
	u.CreatedAtHumanised = humanize.Time(u.CreatedAt.UTC())
	return u, nil
}

// UpdatePlanTier activates a paid plan for the user until the given expiry.
func (r *Repository) UpdatePlanTier(userID, planTier string, planExpiredAt time.Time) error {
	_, err := r.db.Exec(`UPDATE users SET plan_tier = $1, plan_expired_at = $2 WHERE id = $3`, planTier, planExpiredAt, userID)
	return err
}

func (r *Repository) GetPreferences(userID string) (Preferences, error) {
	p := Preferences{}
	row := r.db.QueryRow(`SELECT job_types, industries, locations FROM user_preferences WHERE user_id = $1`, userID)
	var jobTypes, industries, locations sql.NullString
	if err := row.Scan(&jobTypes, &industries, &locations); err != nil {
		if err == sql.ErrNoRows {
			return p, nil
		}
		return p, err
	}
	p.JobTypes = splitCSV(jobTypes.String)
	p.Industries = splitCSV(industries.String)
	p.Locations = splitCSV(locations.String)
	return p, nil
}

func (r *Repository) SavePreferences(userID string, p Preferences) error {
	_, err := r.db.Exec(
		`INSERT INTO user_preferences (user_id, job_types, industries, locations, updated_at) VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id) DO UPDATE SET job_types = $2, industries = $3, locations = $4, updated_at = NOW()`,
		userID,
		strings.Join(p.JobTypes, ","),
		strings.Join(p.Industries, ","),
		strings.Join(p.Locations, ","),
	)
	return err
}

func splitCSV(val string) []string {
	if strings.TrimSpace(val) == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
