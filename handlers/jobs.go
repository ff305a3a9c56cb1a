package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"screenai/models"
	"screenai/utils"
)

type CreateJobRequest struct {
	Title       string   `json:"title" binding:"required"`
	Company     string   `json:"company" binding:"required"`
	Role        string   `json:"role" binding:"required"`
	JDText      string   `json:"jd_text" binding:"required"`
	MustHave    []string `json:"must_have"`
	NiceToHave  []string `json:"nice_to_have"`
	MinExpYears float64  `json:"min_exp_years"`
	Location    string   `json:"location"`
}

// ListJobs returns all postings, newest first, as a bare array.
func ListJobs(db *sql.DB) gin.HandlerFunc {
	jobs := models.NewJobModel(db)
	return func(c *gin.Context) {
		list, err := jobs.List()
		if err != nil {
			utils.LogError("Failed to list jobs", err)
			utils.InternalServerError(c, "Failed to load jobs", err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// CreateJob creates a posting. The route is gated by the admin API key
// middleware; by the time this runs the caller is trusted.
func CreateJob(db *sql.DB) gin.HandlerFunc {
	jobs := models.NewJobModel(db)
	return func(c *gin.Context) {
		var req CreateJobRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.DetailError(c, http.StatusBadRequest, "Invalid job payload: "+err.Error())
			return
		}

		jobID, err := jobs.Create(req.Title, req.Company, req.Role, req.JDText,
			req.MustHave, req.NiceToHave, req.MinExpYears, req.Location)
		if err != nil {
			utils.LogError("Failed to create job", err)
			utils.DetailError(c, http.StatusInternalServerError, "Job creation failed.")
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true, "job_id": jobID})
	}
}
