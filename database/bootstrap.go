package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id SERIAL PRIMARY KEY,
	email VARCHAR(255) UNIQUE NOT NULL,
	password VARCHAR(255) NOT NULL,
	name VARCHAR(255),
	auth_provider VARCHAR(50) DEFAULT 'email',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS jobs (
	id VARCHAR(64) PRIMARY KEY,
	title VARCHAR(255) NOT NULL,
	jd_text TEXT NOT NULL,
	must_have TEXT,
	nice_to_have TEXT,
	min_exp_years REAL DEFAULT 0,
	location VARCHAR(255),
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS job_meta (
	job_id VARCHAR(64) PRIMARY KEY REFERENCES jobs(id) ON DELETE CASCADE,
	company VARCHAR(255),
	role VARCHAR(255)
);

CREATE TABLE IF NOT EXISTS candidate_ids (
	email VARCHAR(255) PRIMARY KEY,
	candidate_id VARCHAR(6) UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS resumes (
	candidate_id VARCHAR(6) PRIMARY KEY,
	source VARCHAR(16),
	raw_text TEXT,
	parsed_json TEXT,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS rankings (
	id SERIAL PRIMARY KEY,
	job_id VARCHAR(64) NOT NULL,
	candidate_id VARCHAR(6) NOT NULL,
	score REAL NOT NULL,
	reasons TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS resume_requests (
	id SERIAL PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	email VARCHAR(255) NOT NULL,
	phone VARCHAR(100),
	sender_number VARCHAR(20) NOT NULL,
	role VARCHAR(255),
	skills TEXT,
	projects TEXT,
	achievements TEXT,
	proof_name VARCHAR(255),
	draft_path VARCHAR(512),
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

type seedJob struct {
	Company  string
	Role     string
	Title    string
	JDText   string
	Must     []string
	Nice     []string
	MinExp   float64
	Location string
}

var seedJobs = []seedJob{
	{
		Company:  "Google",
		Role:     "UI/UX Designer",
		Title:    "Product Designer",
		JDText:   "Design user-centric experiences using Figma, wireframes, prototyping, usability testing, and design systems.",
		Must:     []string{"figma", "wireframes", "prototyping", "usability testing", "design systems"},
		Nice:     []string{"user research", "stakeholder interviews", "component libraries"},
		MinExp:   2,
		Location: "Bengaluru",
	},
	{
		Company:  "Microsoft",
		Role:     "Frontend Engineer",
		Title:    "Frontend Dev (React)",
		JDText:   "Build performant web apps using React, TypeScript, Next.js, Tailwind CSS and testing.",
		Must:     []string{"react", "typescript", "next.js", "html", "css"},
		Nice:     []string{"tailwind", "jest", "playwright"},
		MinExp:   2,
		Location: "Hyderabad",
	},
}

// Bootstrap creates the schema and seeds the default jobs when the jobs
// table is empty.
func Bootstrap(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("error creating schema: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM jobs").Scan(&count); err != nil {
		return fmt.Errorf("error counting jobs: %v", err)
	}
	if count > 0 {
		return nil
	}

	for _, s := range seedJobs {
		jobID := uuid.New().String()
		must, _ := json.Marshal(s.Must)
		nice, _ := json.Marshal(s.Nice)
		title := fmt.Sprintf("%s - %s (%s)", s.Company, s.Title, s.Role)

		_, err := db.Exec(
			"INSERT INTO jobs (id, title, jd_text, must_have, nice_to_have, min_exp_years, location, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
			jobID, title, s.JDText, string(must), string(nice), s.MinExp, s.Location, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("error seeding job: %v", err)
		}

		_, err = db.Exec(
			"INSERT INTO job_meta (job_id, company, role) VALUES ($1, $2, $3)",
			jobID, s.Company, s.Role)
		if err != nil {
			return fmt.Errorf("error seeding job meta: %v", err)
		}
	}

	return nil
}
