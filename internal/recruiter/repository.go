package recruiter

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gosimple/slug"
	"github.com/segmentio/ksuid"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db}
}

// SaveLead stores a recruiter lead for the user. Saving the same
// external recruiter twice keeps the original row.
func (r *Repository) SaveLead(lead Lead) (Lead, error) {
	id, err := ksuid.NewRandom()
	if err != nil {
		return Lead{}, err
	}
	lead.ID = id.String()
	lead.Slug = slug.Make(fmt.Sprintf("%s %s", lead.Name, lead.Company))
	lead.CreatedAt = time.Now().UTC()
	_, err = r.db.Exec(
		`INSERT INTO recruiter_lead (id, user_id, external_id, name, email, title, company, company_url, linkedin_url, slug, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id, external_id) DO NOTHING`,
		lead.ID,
		lead.UserID,
		lead.ExternalID,
		lead.Name,
		lead.Email,
		lead.Title,
		lead.Company,
		lead.CompanyURL,
		lead.LinkedInURL,
		lead.Slug,
		lead.CreatedAt,
	)
	if err != nil {
		return Lead{}, err
	}
	return lead, nil
}

func (r *Repository) LeadsForUser(userID string) ([]Lead, error) {
	leads := []Lead{}
	rows, err := r.db.Query(
		`SELECT id, user_id, external_id, name, email, title, company, company_url, linkedin_url, slug, created_at, contacted_at
		FROM recruiter_lead WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return leads, err
	}
	defer rows.Close()
	for rows.Next() {
		lead := Lead{}
		var email, title, companyURL, linkedInURL sql.NullString
		var contactedAt sql.NullTime
		err := rows.Scan(
			&lead.ID,
			&lead.UserID,
			&lead.ExternalID,
			&lead.Name,
			&email,
			&title,
			&lead.Company,
			&companyURL,
			&linkedInURL,
			&lead.Slug,
			&lead.CreatedAt,
			&contactedAt,
		)
		if err != nil {
			return leads, err
		}
		lead.Email = email.String
		lead.Title = title.String
		lead.CompanyURL = companyURL.String
		lead.LinkedInURL = linkedInURL.String
		if contactedAt.Valid {
			lead.ContactedAt = &contactedAt.Time
		}
		lead.CreatedAtHum = humanize.Time(lead.CreatedAt)
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return leads, err
	}
	return leads, nil
}

func (r *Repository) LeadByID(userID, leadID string) (Lead, error) {
	lead := Lead{}
	row := r.db.QueryRow(
		`SELECT id, user_id, external_id, name, email, title, company, company_url, linkedin_url, slug, created_at, contacted_at
		FROM recruiter_lead WHERE user_id = $1 AND id = $2`, userID, leadID)
	var email, title, companyURL, linkedInURL sql.NullString
	var contactedAt sql.NullTime
	err := row.Scan(
		&lead.ID,
		&lead.UserID,
		&lead.ExternalID,
		&lead.Name,
		&email,
		&title,
		&lead.Company,
		&companyURL,
		&linkedInURL,
		&lead.Slug,
		&lead.CreatedAt,
		&contactedAt,
	)
	if err != nil {
		return lead, err
	}
	lead.Email = email.String
	lead.Title = title.String
	lead.CompanyURL = companyURL.String
	lead.LinkedInURL = linkedInURL.String
	if contactedAt.Valid {
		lead.ContactedAt = &contactedAt.Time
	}
	return lead, nil
}

func (r *Repository) MarkContacted(userID, leadID string) error {
	_, err := r.db.Exec(`UPDATE recruiter_lead SET contacted_at = NOW() WHERE user_id = $1 AND id = $2`, userID, leadID)
	return err
}

// LeadsMissingLinkedIn lists leads that have a company site on record
// but no LinkedIn profile yet. Used by the enrichment job.
func (r *Repository) LeadsMissingLinkedIn() ([]Lead, error) {
	leads := []Lead{}
	rows, err := r.db.Query(`SELECT id, name, company, company_url FROM recruiter_lead WHERE company_url != '' AND linkedin_url = ''`)
	if err != nil {
		return leads, err
	}
	defer rows.Close()
	for rows.Next() {
		lead := Lead{}
		if err := rows.Scan(&lead.ID, &lead.Name, &lead.Company, &lead.CompanyURL); err != nil {
			return leads, err
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return leads, err
	}
	return leads, nil
}

func (r *Repository) UpdateLeadLinkedIn(leadID, linkedInURL string) error {
	_, err := r.db.Exec(`UPDATE recruiter_lead SET linkedin_url = $1 WHERE id = $2`, linkedInURL, leadID)
	return err
}
