package handlers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Healthz reports liveness and database reachability.
func Healthz(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbOK := db.Ping() == nil
		c.JSON(http.StatusOK, gin.H{"ok": true, "db": dbOK})
	}
}
