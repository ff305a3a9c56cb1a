package models

import (
	"database/sql"
	"encoding/json"
	"time"
	"unicode/utf8"
)

// ScoreComponents are the per-signal sub-scores, each in [0,1].
type ScoreComponents struct {
	MustCov    float64 `json:"must_cov"`
	Similarity float64 `json:"similarity"`
	Fuzzy      float64 `json:"fuzzy"`
	Experience float64 `json:"experience"`
	Weighted   float64 `json:"weighted"`
}

// Analysis is the full scoring breakdown attached to a ranking.
type Analysis struct {
	Accuracy   float64         `json:"accuracy"`
	Components ScoreComponents `json:"components"`
	Bucket     string          `json:"bucket"`
	Skills     []string        `json:"skills,omitempty"`
}

// Ranking is one scored submission as served by the rankings endpoints.
type Ranking struct {
	JobID         string   `json:"job_id,omitempty"`
	Company       string   `json:"company,omitempty"`
	Role          string   `json:"role,omitempty"`
	CandidateID   string   `json:"candidate_id"`
	Score         float64  `json:"score"`
	Analysis      Analysis `json:"analysis"`
	CreatedAt     string   `json:"created_at"`
	ResumeExcerpt string   `json:"resume_excerpt,omitempty"`
}

type RankingModel struct {
	DB *sql.DB
}

func NewRankingModel(db *sql.DB) *RankingModel {
	return &RankingModel{DB: db}
}

// Insert records a scored submission.
func (m *RankingModel) Insert(jobID, candidateID string, score float64, analysis Analysis) error {
	reasons, _ := json.Marshal(analysis)
	_, err := m.DB.Exec(
		"INSERT INTO rankings (job_id, candidate_id, score, reasons, created_at) VALUES ($1, $2, $3, $4, $5)",
		jobID, candidateID, score, string(reasons), time.Now().UTC())
	return err
}

// ByJob returns rankings for one job. When candidateID is non-empty the
// result is scoped to that candidate only; other candidates' rows never
// appear in a scoped query.
func (m *RankingModel) ByJob(jobID, candidateID string) ([]Ranking, error) {
	var rows *sql.Rows
	var err error

	if candidateID != "" {
		rows, err = m.DB.Query(`
			SELECT r.candidate_id, r.score, r.reasons, r.created_at, COALESCE(res.raw_text, '')
			FROM rankings r
			LEFT JOIN resumes res ON res.candidate_id = r.candidate_id
			WHERE r.job_id = $1 AND r.candidate_id = $2
			ORDER BY r.score DESC, r.created_at DESC`, jobID, candidateID)
	} else {
		rows, err = m.DB.Query(`
			SELECT r.candidate_id, r.score, r.reasons, r.created_at, COALESCE(res.raw_text, '')
			FROM rankings r
			LEFT JOIN resumes res ON res.candidate_id = r.candidate_id
			WHERE r.job_id = $1
			ORDER BY r.score DESC`, jobID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Ranking{}
	for rows.Next() {
		var r Ranking
		var reasons string
		var createdAt time.Time
		var rawText string
		if err := rows.Scan(&r.CandidateID, &r.Score, &reasons, &createdAt, &rawText); err != nil {
			return nil, err
		}
		if reasons != "" {
			_ = json.Unmarshal([]byte(reasons), &r.Analysis)
		}
		r.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		r.ResumeExcerpt = excerpt(rawText, 300)
		out = append(out, r)
	}
	return out, rows.Err()
}

// excerpt trims s to at most max bytes without splitting a multi-byte
// rune at the cut point.
func excerpt(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// All returns the global ranking feed, newest first, with company/role
// joined in.
func (m *RankingModel) All() ([]Ranking, error) {
	rows, err := m.DB.Query(`
		SELECT r.job_id, COALESCE(jm.company, ''), COALESCE(jm.role, ''), r.candidate_id, r.score, r.reasons, r.created_at
		FROM rankings r
		LEFT JOIN job_meta jm ON jm.job_id = r.job_id
		ORDER BY r.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Ranking{}
	for rows.Next() {
		var r Ranking
		var reasons string
		var createdAt time.Time
		if err := rows.Scan(&r.JobID, &r.Company, &r.Role, &r.CandidateID, &r.Score, &reasons, &createdAt); err != nil {
			return nil, err
		}
		if reasons != "" {
			_ = json.Unmarshal([]byte(reasons), &r.Analysis)
		}
		r.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		out = append(out, r)
	}
	return out, rows.Err()
}
