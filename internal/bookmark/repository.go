package bookmark

import (
	"database/sql"

	"github.com/dustin/go-humanize"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

func (r *Repository) GetBookmarksForUser(userID string) ([]*Bookmark, error) {
	bookmarks := []*Bookmark{}
	rows, err := r.db.Query(
		`SELECT user_id, posting_id, title, company, location, job_type, created_at, applied_at
		FROM posting_bookmark
		WHERE user_id = $1
		ORDER BY created_at ASC`, userID)
	if err != nil {
		return bookmarks, err
	}

	defer rows.Close()
	for rows.Next() {
		bookmark := &Bookmark{}
		var appliedAt sql.NullTime
		err := rows.Scan(
			&bookmark.UserID,
			&bookmark.PostingID,
			&bookmark.Title,
			&bookmark.Company,
			&bookmark.Location,
			&bookmark.JobType,
			&bookmark.CreatedAt,
			&appliedAt,
		)
		if err != nil {
			return bookmarks, err
		}
		if appliedAt.Valid {
			bookmark.AppliedAt = &appliedAt.Time
			bookmark.HasApplyRecord = true
		}
		bookmark.CreatedAtHum = humanize.Time(bookmark.CreatedAt)

		bookmarks = append(bookmarks, bookmark)
	}
	err = rows.Err()
	if err != nil {
		return bookmarks, err
	}
	return bookmarks, nil
}

// BookmarkPosting saves a posting for the user. A later call with
// setApplied set records the apply date without clearing an earlier one.
func (r *Repository) BookmarkPosting(b Bookmark, setApplied bool) error {
	appliedAtExpr := "NULL"
	if setApplied {
		appliedAtExpr = "NOW()"
	}

	stmt := `
		INSERT INTO posting_bookmark (user_id, posting_id, title, company, location, job_type, created_at, applied_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), ` + appliedAtExpr + `)
		ON CONFLICT (user_id, posting_id) DO UPDATE
			SET applied_at = EXCLUDED.applied_at
			WHERE posting_bookmark.applied_at IS NULL`
	_, err := r.db.Exec(stmt, b.UserID, b.PostingID, b.Title, b.Company, b.Location, b.JobType)
	return err
}

func (r *Repository) DeleteBookmark(userID, postingID string) error {
	_, err := r.db.Exec(`DELETE FROM posting_bookmark WHERE user_id = $1 AND posting_id = $2`, userID, postingID)
	return err
}
