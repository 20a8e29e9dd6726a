package database

import (
	"database/sql"
	"fmt"
	"time"
)

// Table Structure:
//
// CREATE TABLE IF NOT EXISTS users (
// 	id CHAR(27) NOT NULL UNIQUE,
// 	email VARCHAR(255) NOT NULL UNIQUE,
// 	created_at TIMESTAMP NOT NULL,
// 	plan_tier VARCHAR(20) NOT NULL DEFAULT 'free',
// 	plan_expired_at TIMESTAMP DEFAULT NULL,
// 	PRIMARY KEY(id)
// );

// CREATE TABLE IF NOT EXISTS user_sign_on_token (
// 	token CHAR(27) NOT NULL,
// 	email VARCHAR(255) NOT NULL,
// 	created_at TIMESTAMP NOT NULL
// );

// CREATE TABLE IF NOT EXISTS user_preferences (
// 	user_id CHAR(27) NOT NULL UNIQUE REFERENCES users (id),
// 	job_types VARCHAR(255) NOT NULL DEFAULT '',
// 	industries VARCHAR(511) NOT NULL DEFAULT '',
// 	locations VARCHAR(511) NOT NULL DEFAULT '',
// 	updated_at TIMESTAMP NOT NULL,
// 	PRIMARY KEY(user_id)
// );

// CREATE TABLE IF NOT EXISTS resume (
// 	id CHAR(27) NOT NULL UNIQUE,
// 	user_id CHAR(27) NOT NULL REFERENCES users (id),
// 	file_name VARCHAR(255) NOT NULL,
// 	media_type VARCHAR(100) NOT NULL,
// 	data BYTEA NOT NULL,
// 	match_score REAL DEFAULT NULL,
// 	combined_score REAL DEFAULT NULL,
// 	created_at TIMESTAMP NOT NULL,
// 	scored_at TIMESTAMP DEFAULT NULL,
// 	PRIMARY KEY(id)
// );
// CREATE INDEX resume_user_id_idx ON resume (user_id);

// CREATE TABLE IF NOT EXISTS posting_bookmark (
// 	user_id CHAR(27) NOT NULL REFERENCES users (id),
// 	posting_id VARCHAR(100) NOT NULL,
// 	title VARCHAR(255) NOT NULL,
// 	company VARCHAR(255) NOT NULL,
// 	location VARCHAR(255) NOT NULL,
// 	job_type VARCHAR(50) NOT NULL DEFAULT '',
// 	created_at TIMESTAMP NOT NULL,
// 	applied_at TIMESTAMP DEFAULT NULL,
// 	PRIMARY KEY(user_id, posting_id)
// );

// CREATE TABLE IF NOT EXISTS recruiter_lead (
// 	id CHAR(27) NOT NULL UNIQUE,
// 	user_id CHAR(27) NOT NULL REFERENCES users (id),
// 	external_id VARCHAR(100) NOT NULL,
// 	name VARCHAR(255) NOT NULL,
// 	email VARCHAR(255) DEFAULT NULL,
// 	title VARCHAR(255) NOT NULL,
// 	company VARCHAR(255) NOT NULL,
// 	company_url VARCHAR(255) NOT NULL DEFAULT '',
// 	linkedin_url VARCHAR(255) NOT NULL DEFAULT '',
// 	slug VARCHAR(255) NOT NULL,
// 	created_at TIMESTAMP NOT NULL,
// 	contacted_at TIMESTAMP DEFAULT NULL,
// 	PRIMARY KEY(id)
// );
// CREATE UNIQUE INDEX recruiter_lead_user_external_idx ON recruiter_lead (user_id, external_id);

// CREATE TABLE IF NOT EXISTS purchase_event (
// 	stripe_session_id VARCHAR(255) NOT NULL,
// 	amount INTEGER NOT NULL,
// 	currency CHAR(3) NOT NULL,
// 	created_at TIMESTAMP NOT NULL,
// 	completed_at TIMESTAMP DEFAULT NULL,
// 	description VARCHAR(255) NOT NULL,
// 	plan_tier VARCHAR(20) NOT NULL,
// 	email VARCHAR(255) NOT NULL,
// 	user_id CHAR(27) NOT NULL REFERENCES users (id)
// );
// CREATE UNIQUE INDEX purchase_event_stripe_session_id_idx ON purchase_event (stripe_session_id);

// CREATE TABLE IF NOT EXISTS search_event (
// 	session_id VARCHAR(255) NOT NULL,
// 	user_agent VARCHAR(1023) NOT NULL DEFAULT '',
// 	search_type VARCHAR(20) NOT NULL,
// 	query VARCHAR(255) NOT NULL,
// 	results INTEGER NOT NULL,
// 	created_at TIMESTAMP NOT NULL
// );

// GetDbConn tries to establish a connection to postgres and return the connection handler
func GetDbConn(databaseUser string, databasePassword string, databaseHost string, databasePort string, databaseName string, sslMode string) (*sql.DB, error) {
	databaseURL := fmt.Sprintf("postgres://%v:%v@%v:%v/%v?sslmode=%s",
		databaseUser,
		databasePassword,
		databaseHost,
		databasePort,
		databaseName,
		sslMode,
	)
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	err = db.Ping()
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(20)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

// CloseDbConn closes db conn
func CloseDbConn(conn *sql.DB) {
	conn.Close()
}

// TrackSearchEvent saves a fire-and-forget record of a search: the hashed
// requester IP, what was searched and how many results came back.
func TrackSearchEvent(conn *sql.DB, userAgent, hashedSessionID, query, searchType string, results int) error {
	stmt := `INSERT INTO search_event (session_id, user_agent, search_type, query, results, created_at) VALUES ($1, $2, $3, $4, $5, NOW())`
	_, err := conn.Exec(stmt, hashedSessionID, userAgent, searchType, query, results)
	return err
}

type PurchaseEvent struct {
	StripeSessionID string
	CreatedAt       time.Time
	CompletedAt     time.Time
	Amount          int
	Currency        string
	Description     string
	Email           string
	UserID          string
	PlanTier        string
}

func InitiatePaymentEvent(conn *sql.DB, sessionID string, amount int64, currency, description, email, userID, planTier string) error {
	stmt := `INSERT INTO purchase_event (stripe_session_id, amount, currency, description, email, user_id, plan_tier, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`
	_, err := conn.Exec(stmt, sessionID, amount, currency, description, email, userID, planTier)
	return err
}

func SaveSuccessfulPayment(conn *sql.DB, sessionID string) (int, error) {
	res := conn.QueryRow(`WITH rows AS (UPDATE purchase_event SET completed_at = NOW() WHERE stripe_session_id = $1 AND completed_at IS NULL RETURNING 1) SELECT count(*) as c FROM rows;`, sessionID)
	var affected int
	err := res.Scan(&affected)
	if err != nil {
		return 0, err
	}
	return affected, nil
}

func GetPurchaseEventBySessionID(conn *sql.DB, sessionID string) (PurchaseEvent, error) {
	res := conn.QueryRow(`SELECT stripe_session_id, created_at, completed_at, email, user_id, amount, currency, description, plan_tier FROM purchase_event WHERE stripe_session_id = $1`, sessionID)
	var p PurchaseEvent
	var completedAt sql.NullTime
	err := res.Scan(&p.StripeSessionID, &p.CreatedAt, &completedAt, &p.Email, &p.UserID, &p.Amount, &p.Currency, &p.Description, &p.PlanTier)
	if err != nil {
		return p, err
	}
	p.CompletedAt = completedAt.Time

	return p, nil
}
