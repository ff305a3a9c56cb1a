package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"screenai/models"
	"screenai/services"
	"screenai/utils"
)

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type GoogleLoginRequest struct {
	Token string `json:"token" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	User    string `json:"user,omitempty"`
	Token   string `json:"token,omitempty"`
}

type UserProfile struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Accounts created through Google OAuth carry this marker instead of a
// bcrypt hash; credential login against them always fails with the same
// generic message as a wrong password.
const oauthPasswordMarker = "google_oauth_user"

const invalidCredentialsMsg = "Invalid email or password"

// AuthMiddleware validates the Bearer token and sets user context
func AuthMiddleware(jwtSvc *services.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, AuthResponse{
				Success: false,
				Message: "Authorization header required",
			})
			c.Abort()
			return
		}

		tokenString = strings.TrimPrefix(tokenString, "Bearer ")

		claims, err := jwtSvc.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, AuthResponse{
				Success: false,
				Message: "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Next()
	}
}

func RegisterUser(db *sql.DB, jwtSvc *services.JWTService) gin.HandlerFunc {
	users := models.NewUserModel(db)
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, AuthResponse{
				Success: false,
				Message: "Invalid request data: " + err.Error(),
			})
			return
		}

		if _, err := users.GetByEmail(req.Email); err == nil {
			c.JSON(http.StatusConflict, AuthResponse{
				Success: false,
				Message: "User with this email already exists",
			})
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, AuthResponse{
				Success: false,
				Message: "Failed to hash password",
			})
			return
		}

		user, err := users.Create(req.Email, req.Name, string(hashedPassword))
		if err != nil {
			utils.LogError("Database error during user creation", err)
			c.JSON(http.StatusInternalServerError, AuthResponse{
				Success: false,
				Message: "Failed to create user account",
			})
			return
		}

		token, err := jwtSvc.GenerateToken(user.ID, user.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, AuthResponse{
				Success: false,
				Message: "Failed to generate authentication token",
			})
			return
		}

		c.JSON(http.StatusOK, AuthResponse{
			Success: true,
			Message: "User registered successfully",
			User:    req.Email,
			Token:   token,
		})
	}
}

func LoginUser(db *sql.DB, jwtSvc *services.JWTService) gin.HandlerFunc {
	users := models.NewUserModel(db)
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, AuthResponse{
				Success: false,
				Message: "Invalid request data: " + err.Error(),
			})
			return
		}

		// Unknown email, wrong password, and OAuth-only accounts all
		// collapse to the same generic message.
		user, err := users.GetByEmail(req.Email)
		if err != nil {
			c.JSON(http.StatusUnauthorized, AuthResponse{
				Success: false,
				Message: invalidCredentialsMsg,
			})
			return
		}

		if user.Password == oauthPasswordMarker ||
			bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
			c.JSON(http.StatusUnauthorized, AuthResponse{
				Success: false,
				Message: invalidCredentialsMsg,
			})
			return
		}

		token, err := jwtSvc.GenerateToken(user.ID, user.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, AuthResponse{
				Success: false,
				Message: "Failed to generate authentication token",
			})
			return
		}

		c.JSON(http.StatusOK, AuthResponse{
			Success: true,
			Message: "Login successful",
			User:    req.Email,
			Token:   token,
		})
	}
}

// GoogleLogin handles Google OAuth login, creating the account on first use.
func GoogleLogin(db *sql.DB, jwtSvc *services.JWTService) gin.HandlerFunc {
	users := models.NewUserModel(db)
	return func(c *gin.Context) {
		var req GoogleLoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, AuthResponse{
				Success: false,
				Message: "Invalid request data: " + err.Error(),
			})
			return
		}

		user, err := users.GetByEmail(req.Email)
		if err != nil {
			user, err = users.CreateWithProvider(req.Email, req.Email, oauthPasswordMarker, "google")
			if err != nil {
				c.JSON(http.StatusInternalServerError, AuthResponse{
					Success: false,
					Message: "Failed to create user account",
				})
				return
			}
		}

		token, err := jwtSvc.GenerateToken(user.ID, user.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, AuthResponse{
				Success: false,
				Message: "Failed to generate authentication token",
			})
			return
		}

		c.JSON(http.StatusOK, AuthResponse{
			Success: true,
			Message: "Google login successful",
			User:    req.Email,
			Token:   token,
		})
	}
}

// GetUserProfile returns the current user's profile
func GetUserProfile(db *sql.DB) gin.HandlerFunc {
	users := models.NewUserModel(db)
	return func(c *gin.Context) {
		userID := c.GetInt("user_id")
		if userID == 0 {
			c.JSON(http.StatusUnauthorized, AuthResponse{
				Success: false,
				Message: "User not authenticated",
			})
			return
		}

		user, err := users.GetByID(userID)
		if err != nil {
			c.JSON(http.StatusNotFound, AuthResponse{
				Success: false,
				Message: "User not found",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"profile": UserProfile{ID: user.ID, Email: user.Email, Name: user.Name},
		})
	}
}

// LogoutUser handles user logout (client-side token removal)
func LogoutUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, AuthResponse{
			Success: true,
			Message: "Logged out successfully",
		})
	}
}
