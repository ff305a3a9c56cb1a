package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Job is the listing shape returned by GET /jobs.
type Job struct {
	JobID     string `json:"job_id"`
	Title     string `json:"title"`
	Company   string `json:"company"`
	Role      string `json:"role"`
	Location  string `json:"location"`
	CreatedAt string `json:"created_at"`
}

// JobDetail carries everything the scorer needs about a posting.
type JobDetail struct {
	JobID       string
	Company     string
	Role        string
	JDText      string
	MustHave    []string
	NiceToHave  []string
	MinExpYears float64
}

type JobModel struct {
	DB *sql.DB
}

func NewJobModel(db *sql.DB) *JobModel {
	return &JobModel{DB: db}
}

// List returns all postings, newest first.
func (m *JobModel) List() ([]Job, error) {
	rows, err := m.DB.Query(`
		SELECT j.id, j.title, COALESCE(jm.company, ''), COALESCE(jm.role, ''), COALESCE(j.location, ''), j.created_at
		FROM jobs j
		LEFT JOIN job_meta jm ON jm.job_id = j.id
		ORDER BY j.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []Job{}
	for rows.Next() {
		var j Job
		var createdAt time.Time
		if err := rows.Scan(&j.JobID, &j.Title, &j.Company, &j.Role, &j.Location, &createdAt); err != nil {
			return nil, err
		}
		j.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// Get loads the detail used for scoring. Returns sql.ErrNoRows when the
// posting does not exist.
func (m *JobModel) Get(jobID string) (*JobDetail, error) {
	d := &JobDetail{JobID: jobID}
	var mustJSON, niceJSON sql.NullString
	var minExp sql.NullFloat64

	err := m.DB.QueryRow(
		"SELECT jd_text, must_have, nice_to_have, min_exp_years FROM jobs WHERE id = $1",
		jobID).Scan(&d.JDText, &mustJSON, &niceJSON, &minExp)
	if err != nil {
		return nil, err
	}
	if mustJSON.Valid {
		_ = json.Unmarshal([]byte(mustJSON.String), &d.MustHave)
	}
	if niceJSON.Valid {
		_ = json.Unmarshal([]byte(niceJSON.String), &d.NiceToHave)
	}
	if minExp.Valid {
		d.MinExpYears = minExp.Float64
	}

	// job_meta is best-effort; a posting without meta scores with empty
	// company/role boost terms.
	_ = m.DB.QueryRow(
		"SELECT company, role FROM job_meta WHERE job_id = $1",
		jobID).Scan(&d.Company, &d.Role)

	return d, nil
}

// Create inserts a posting plus its meta row and returns the new job id.
func (m *JobModel) Create(title, company, role, jdText string, mustHave, niceToHave []string, minExpYears float64, location string) (string, error) {
	jobID := uuid.New().String()
	must, _ := json.Marshal(mustHave)
	nice, _ := json.Marshal(niceToHave)

	_, err := m.DB.Exec(
		"INSERT INTO jobs (id, title, jd_text, must_have, nice_to_have, min_exp_years, location, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
		jobID, title, jdText, string(must), string(nice), minExpYears, location, time.Now().UTC())
	if err != nil {
		return "", err
	}

	_, err = m.DB.Exec(
		"INSERT INTO job_meta (job_id, company, role) VALUES ($1, $2, $3)",
		jobID, company, role)
	if err != nil {
		return "", err
	}

	return jobID, nil
}
