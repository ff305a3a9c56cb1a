package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"screenai/models"
	"screenai/services"
	"screenai/utils"
)

// UploadResume validates the candidate, extracts resume text, scores it
// against the selected job and records the ranking. The uploaded file is
// archived to S3 when an archive service is configured.
func UploadResume(db *sql.DB, archive *services.S3Service) gin.HandlerFunc {
	candidates := models.NewCandidateModel(db)
	jobs := models.NewJobModel(db)
	rankings := models.NewRankingModel(db)

	return func(c *gin.Context) {
		candidateID := c.PostForm("candidate_id")
		jobID := c.PostForm("job_id")

		known, err := candidates.Exists(candidateID)
		if err != nil {
			utils.LogError("Candidate lookup failed", err)
			utils.DetailError(c, http.StatusInternalServerError, "Failed to validate candidate ID.")
			return
		}
		if !known {
			utils.DetailError(c, http.StatusForbidden, "Add correct candidate ID before trying again.")
			return
		}

		fileHeader, err := c.FormFile("file")
		if err != nil || fileHeader.Filename == "" {
			utils.DetailError(c, http.StatusBadRequest, "No file provided.")
			return
		}
		if !services.SupportedResumeFile(fileHeader.Filename) {
			utils.DetailError(c, http.StatusUnsupportedMediaType, "Unsupported file type. Upload PDF or DOCX only.")
			return
		}

		f, err := fileHeader.Open()
		if err != nil {
			utils.DetailError(c, http.StatusBadRequest, "Failed to read uploaded file.")
			return
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			utils.DetailError(c, http.StatusBadRequest, "Failed to read uploaded file.")
			return
		}

		text, err := services.ExtractResumeText(fileHeader.Filename, content)
		if err != nil {
			utils.LogError("Resume text extraction failed", err, map[string]string{"file": fileHeader.Filename})
			utils.DetailError(c, http.StatusUnprocessableEntity, "Parsed text is empty or unreadable.")
			return
		}
		text = strings.TrimSpace(text)
		if text == "" {
			utils.DetailError(c, http.StatusUnprocessableEntity, "Parsed text is empty or unreadable.")
			return
		}

		job, err := jobs.Get(jobID)
		if err == sql.ErrNoRows {
			utils.DetailError(c, http.StatusNotFound, "Job not found in database.")
			return
		}
		if err != nil {
			utils.LogError("Job lookup failed", err)
			utils.DetailError(c, http.StatusInternalServerError, "Failed to load job.")
			return
		}

		parsed := services.ParseResumeText(text)
		analysis := services.ComputeScore(job.Company, job.Role, job.JDText,
			job.MustHave, job.NiceToHave, job.MinExpYears, parsed, text)

		if err := saveResume(db, candidateID, fileHeader.Filename, text, parsed); err != nil {
			utils.LogError("Failed to save resume", err)
			utils.DetailError(c, http.StatusInternalServerError, "Failed to save analysis.")
			return
		}
		if err := rankings.Insert(jobID, candidateID, analysis.Accuracy, analysis); err != nil {
			utils.LogError("Failed to save ranking", err)
			utils.DetailError(c, http.StatusInternalServerError, "Failed to save analysis.")
			return
		}

		if archive != nil {
			key := fmt.Sprintf("resumes/%s/%d-%s", candidateID, time.Now().Unix(), fileHeader.Filename)
			if _, err := archive.UploadBytes(key, content, fileHeader.Header.Get("Content-Type")); err != nil {
				utils.LogError("Resume archive failed", err, map[string]string{"key": key})
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"ok":           true,
			"candidate_id": candidateID,
			"job_id":       jobID,
			"analysis":     analysis,
			"message":      "Resume analyzed successfully.",
		})
	}
}

func saveResume(db *sql.DB, candidateID, filename, text string, parsed services.ResumeInfo) error {
	source := ""
	if dot := strings.LastIndex(filename, "."); dot >= 0 {
		source = filename[dot+1:]
	}
	parsedJSON, _ := json.Marshal(parsed)

	_, err := db.Exec(`
		INSERT INTO resumes (candidate_id, source, raw_text, parsed_json, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (candidate_id) DO UPDATE
		SET source = $2, raw_text = $3, parsed_json = $4, updated_at = $5`,
		candidateID, source, text, string(parsedJSON), time.Now().UTC())
	return err
}

// RankingsByJob serves rankings for a job, optionally scoped to one
// candidate. Always an array, never 404.
func RankingsByJob(db *sql.DB) gin.HandlerFunc {
	rankings := models.NewRankingModel(db)
	return func(c *gin.Context) {
		jobID := c.Param("job_id")
		candidateID := c.Query("candidate_id")

		list, err := rankings.ByJob(jobID, candidateID)
		if err != nil {
			utils.LogError("Failed to load rankings", err)
			utils.DetailError(c, http.StatusInternalServerError, "Failed to load rankings.")
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// AllRankings serves the global ranking feed, newest first.
func AllRankings(db *sql.DB) gin.HandlerFunc {
	rankings := models.NewRankingModel(db)
	return func(c *gin.Context) {
		list, err := rankings.All()
		if err != nil {
			utils.LogError("Failed to load rankings", err)
			utils.DetailError(c, http.StatusInternalServerError, "Failed to load rankings.")
			return
		}
		c.JSON(http.StatusOK, list)
	}
}
