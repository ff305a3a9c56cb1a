package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func keyedRouter(expected string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/admin/action", RequireAPIKey(expected), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	return r
}

func TestRequireAPIKey_ValidKey(t *testing.T) {
	router := keyedRouter("sekrit")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/admin/action", nil)
	req.Header.Set("X-API-Key", "sekrit")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAPIKey_WrongKey(t *testing.T) {
	router := keyedRouter("sekrit")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/admin/action", nil)
	req.Header.Set("X-API-Key", "guess")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid Admin Key")
}

func TestRequireAPIKey_MissingHeader(t *testing.T) {
	router := keyedRouter("sekrit")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/admin/action", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestKeyMatches(t *testing.T) {
	tests := []struct {
		name     string
		provided string
		expected string
		match    bool
	}{
		{"exact match", "key", "key", true},
		{"mismatch", "nope", "key", false},
		{"empty provided", "", "key", false},
		{"empty configured never matches", "anything", "", false},
		{"both empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.match, KeyMatches(tt.provided, tt.expected))
		})
	}
}
