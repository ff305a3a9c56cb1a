package models

import (
	"database/sql"
	"time"
)

// ResumeRequest is a paid resume-creation order submitted after the UPI
// payment step.
type ResumeRequest struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	SenderNumber string `json:"senderNumber"`
	Role         string `json:"role"`
	Skills       string `json:"skills"`
	Projects     string `json:"projects"`
	Achievements string `json:"achievements"`
	ProofName    string `json:"proof_name,omitempty"`
	DraftPath    string `json:"-"`
}

type ResumeRequestModel struct {
	DB *sql.DB
}

func NewResumeRequestModel(db *sql.DB) *ResumeRequestModel {
	return &ResumeRequestModel{DB: db}
}

func (m *ResumeRequestModel) Create(r *ResumeRequest) (int, error) {
	var id int
	err := m.DB.QueryRow(`
		INSERT INTO resume_requests (name, email, phone, sender_number, role, skills, projects, achievements, proof_name, draft_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		r.Name, r.Email, r.Phone, r.SenderNumber, r.Role, r.Skills, r.Projects, r.Achievements,
		r.ProofName, r.DraftPath, time.Now().UTC()).Scan(&id)
	if err != nil {
		return 0, err
	}
	r.ID = id
	return id, nil
}
