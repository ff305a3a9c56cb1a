package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"screenai/config"
	"screenai/database"
	"screenai/handlers"
	"screenai/middleware"
	"screenai/services"
	"screenai/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.GetAppConfig()

	db, err := database.Connect(cfg.Database.Host, cfg.Database.Port, cfg.Database.User,
		cfg.Database.Password, cfg.Database.DBName, cfg.Database.SSLMode)
	if err != nil {
		log.Fatal("Database connection failed: ", err)
	}
	defer db.Close()

	if err := database.Bootstrap(db); err != nil {
		log.Fatal("Database bootstrap failed: ", err)
	}

	jwtSvc := services.NewJWTService(cfg.JWTSecret)
	emailSvc := services.NewEmailService(cfg.SMTP)

	archive, err := services.NewS3Service()
	if err != nil {
		utils.LogWarn("S3 archive disabled", map[string]string{"reason": err.Error()})
		archive = nil
	}

	limiters := middleware.CreateRateLimiters()

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.MaxRequestSize(20 << 20))

	r.Static("/static", "./static")

	r.GET("/healthz", handlers.Healthz(db))

	// Auth
	auth := r.Group("/api", limiters["auth"].Limit())
	auth.POST("/register", handlers.RegisterUser(db, jwtSvc))
	auth.POST("/login", handlers.LoginUser(db, jwtSvc))
	auth.POST("/login/google", handlers.GoogleLogin(db, jwtSvc))
	auth.POST("/logout", handlers.LogoutUser())
	auth.GET("/profile", handlers.AuthMiddleware(jwtSvc), handlers.GetUserProfile(db))

	// Screening
	r.GET("/jobs", limiters["general"].Limit(), handlers.ListJobs(db))
	r.POST("/generate_candidate_id", limiters["general"].Limit(), handlers.GenerateCandidateID(db, emailSvc))
	r.POST("/resume/upload_file", limiters["upload"].Limit(), handlers.UploadResume(db, archive))
	r.GET("/rankings/:job_id", limiters["general"].Limit(), handlers.RankingsByJob(db))
	r.GET("/rankings", limiters["general"].Limit(), handlers.AllRankings(db))

	// Admin
	r.POST("/admin/job/create", middleware.RequireAPIKey(cfg.AdminAPIKey), handlers.CreateJob(db))
	r.GET("/admin/users", handlers.ListUsers(db, cfg.AdminAPIKey))

	// Paid resume creation
	r.POST("/api/save", limiters["general"].Limit(), handlers.SaveResumeRequest(db, emailSvc, archive, cfg.UPI, cfg.DraftDir))

	// Assistant
	r.POST("/chat", limiters["chat"].Limit(), middleware.ValidateContentType("application/json"), handlers.Chat(cfg.Ollama))

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server failed: ", err)
	}
}
