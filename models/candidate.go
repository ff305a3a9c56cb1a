package models

import "database/sql"

// AdminUser is one row of the admin user listing.
type AdminUser struct {
	Email       string `json:"email"`
	CandidateID string `json:"candidate_id"`
}

type CandidateModel struct {
	DB *sql.DB
}

func NewCandidateModel(db *sql.DB) *CandidateModel {
	return &CandidateModel{DB: db}
}

// Lookup returns the candidate ID already assigned to an email, or "" when
// none exists yet.
func (m *CandidateModel) Lookup(email string) (string, error) {
	var candidateID string
	err := m.DB.QueryRow(
		"SELECT candidate_id FROM candidate_ids WHERE email = $1",
		email).Scan(&candidateID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return candidateID, nil
}

// Assign stores a freshly generated candidate ID for an email.
func (m *CandidateModel) Assign(email, candidateID string) error {
	_, err := m.DB.Exec(
		"INSERT INTO candidate_ids (email, candidate_id) VALUES ($1, $2)",
		email, candidateID)
	return err
}

// Exists reports whether a candidate ID has been issued.
func (m *CandidateModel) Exists(candidateID string) (bool, error) {
	var one int
	err := m.DB.QueryRow(
		"SELECT 1 FROM candidate_ids WHERE candidate_id = $1",
		candidateID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListUsers returns every registered email with its candidate ID, ordered by
// email.
func (m *CandidateModel) ListUsers() ([]AdminUser, error) {
	rows, err := m.DB.Query(
		"SELECT email, candidate_id FROM candidate_ids ORDER BY email ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []AdminUser{}
	for rows.Next() {
		var u AdminUser
		if err := rows.Scan(&u.Email, &u.CandidateID); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
