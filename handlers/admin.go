package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"screenai/middleware"
	"screenai/models"
	"screenai/utils"
)

// ListUsers returns every registered email and candidate ID. Gated by the
// admin key passed as the admin_key query parameter (the legacy admin
// console sends it that way rather than as a header).
func ListUsers(db *sql.DB, adminKey string) gin.HandlerFunc {
	candidates := models.NewCandidateModel(db)
	return func(c *gin.Context) {
		if !middleware.KeyMatches(c.Query("admin_key"), adminKey) {
			utils.DetailError(c, http.StatusForbidden, "Unauthorized: Invalid Admin Key")
			return
		}

		users, err := candidates.ListUsers()
		if err != nil {
			utils.LogError("Failed to list users", err)
			utils.DetailError(c, http.StatusInternalServerError, "Failed to load users.")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"ok":          true,
			"total_users": len(users),
			"users":       users,
		})
	}
}
