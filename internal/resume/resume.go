package resume

import (
	"database/sql"
	"time"

	"github.com/segmentio/ksuid"
)

// Resume holds the uploaded file and the profile extracted from it.
type Resume struct {
	ID            string     `json:"id"`
	UserID        string     `json:"-"`
	FileName      string     `json:"fileName"`
	MediaType     string     `json:"-"`
	Data          []byte     `json:"-"`
	Summary       string     `json:"summary,omitempty"`
	Skills        []string   `json:"skills,omitempty"`
	YearsOfExp    int        `json:"yearsOfExperience,omitempty"`
	MatchScore    *float64   `json:"matchScore,omitempty"`
	CombinedScore *float64   `json:"combinedScore,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	ScoredAt      *time.Time `json:"scoredAt,omitempty"`
}

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

func (r *Repository) SaveResume(userID, fileName, mediaType string, data []byte) (Resume, error) {
	id, err := ksuid.NewRandom()
	if err != nil {
		return Resume{}, err
	}
	res := Resume{
		ID:        id.String(),
		UserID:    userID,
		FileName:  fileName,
		MediaType: mediaType,
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}
	_, err = r.db.Exec(
		`INSERT INTO resume (id, user_id, file_name, media_type, data, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		res.ID, res.UserID, res.FileName, res.MediaType, res.Data, res.CreatedAt,
	)
	if err != nil {
		return Resume{}, err
	}
	return res, nil
}

func (r *Repository) GetResumeByID(id string) (Resume, error) {
	res := Resume{}
	row := r.db.QueryRow(`SELECT id, user_id, file_name, media_type, data, match_score, combined_score, created_at, scored_at FROM resume WHERE id = $1`, id)
	var matchScore, combinedScore sql.NullFloat64
	var scoredAt sql.NullTime
	if err := row.Scan(&res.ID, &res.UserID, &res.FileName, &res.MediaType, &res.Data, &matchScore, &combinedScore, &res.CreatedAt, &scoredAt); err != nil {
		return res, err
	}
	if matchScore.Valid {
		res.MatchScore = &matchScore.Float64
	}
	if combinedScore.Valid {
		res.CombinedScore = &combinedScore.Float64
	}
	if scoredAt.Valid {
		res.ScoredAt = &scoredAt.Time
	}
	return res, nil
}

// LatestResumeForUser returns the most recently uploaded resume for the user.
func (r *Repository) LatestResumeForUser(userID string) (Resume, error) {
	res := Resume{}
	row := r.db.QueryRow(`SELECT id, user_id, file_name, media_type, data, match_score, combined_score, created_at, scored_at FROM resume WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`, userID)
	var matchScore, combinedScore sql.NullFloat64
	var scoredAt sql.NullTime
	if err := row.Scan(&res.ID, &res.UserID, &res.FileName, &res.MediaType, &res.Data, &matchScore, &combinedScore, &res.CreatedAt, &scoredAt); err != nil {
		return res, err
	}
	if matchScore.Valid {
		res.MatchScore = &matchScore.Float64
	}
	if combinedScore.Valid {
		res.CombinedScore = &combinedScore.Float64
	}
	if scoredAt.Valid {
		res.ScoredAt = &scoredAt.Time
	}
	return res, nil
}

func (r *Repository) UpdateScores(id string, matchScore, combinedScore float64) error {
	_, err := r.db.Exec(`UPDATE resume SET match_score = $1, combined_score = $2, scored_at = NOW() WHERE id = $3`, matchScore, combinedScore, id)
	return err
}

func (r *Repository) DeleteResumesForUser(userID string) error {
	_, err := r.db.Exec(`DELETE FROM resume WHERE user_id = $1`, userID)
	return err
}
