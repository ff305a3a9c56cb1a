package handlers

import (
	"database/sql"
	"fmt"
	"math/rand"
	"net/http"

	"github.com/gin-gonic/gin"

	"screenai/models"
	"screenai/services"
	"screenai/utils"
)

// GenerateCandidateID issues (or re-reads) the 6-digit candidate ID for an
// email. The ID is mailed exactly once, when it is first created.
func GenerateCandidateID(db *sql.DB, email *services.EmailService) gin.HandlerFunc {
	candidates := models.NewCandidateModel(db)
	return func(c *gin.Context) {
		addr := c.PostForm("email")
		if addr == "" {
			utils.DetailError(c, http.StatusBadRequest, "email is required")
			return
		}

		existing, err := candidates.Lookup(addr)
		if err != nil {
			utils.LogError("Candidate ID lookup failed", err)
			utils.DetailError(c, http.StatusInternalServerError, "Failed to look up candidate ID.")
			return
		}
		if existing != "" {
			c.JSON(http.StatusOK, gin.H{"ok": true, "candidate_id": existing, "msg": "Already exists"})
			return
		}

		candidateID := fmt.Sprintf("%06d", 100000+rand.Intn(900000))
		if err := candidates.Assign(addr, candidateID); err != nil {
			utils.LogError("Candidate ID assignment failed", err)
			utils.DetailError(c, http.StatusInternalServerError, "Failed to generate candidate ID.")
			return
		}

		if err := email.SendCandidateID(addr, candidateID); err != nil {
			// Delivery failure never fails the request; the ID is
			// already assigned and returned in the response.
			utils.LogError("Candidate ID email failed", err, map[string]string{"email": addr})
		}

		c.JSON(http.StatusOK, gin.H{"ok": true, "candidate_id": candidateID, "msg": "Created new"})
	}
}
