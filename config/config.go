package config

import (
	"os"
	"strconv"
)

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	FromEmail  string
	AdminEmail string
}

type OllamaConfig struct {
	URL   string
	Model string
}

type UPIConfig struct {
	PayeeHandle string
	PayeeName   string
}

type AppConfig struct {
	Port        string
	Database    DatabaseConfig
	SMTP        SMTPConfig
	Ollama      OllamaConfig
	UPI         UPIConfig
	JWTSecret   string
	AdminAPIKey string
	DraftDir    string
	Environment string
}

func GetDatabaseConfig() DatabaseConfig {
	port, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))

	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     port,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		DBName:   getEnv("DB_NAME", "screening"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

func GetSMTPConfig() SMTPConfig {
	port, _ := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	user := getEnv("SMTP_USER", "")

	return SMTPConfig{
		Host:       getEnv("SMTP_HOST", "smtp.gmail.com"),
		Port:       port,
		Username:   user,
		Password:   getEnv("SMTP_PASS", ""),
		FromEmail:  getEnv("FROM_EMAIL", user),
		AdminEmail: getEnv("ADMIN_NOTIFY_EMAIL", user),
	}
}

func GetAppConfig() AppConfig {
	return AppConfig{
		Port:     getEnv("PORT", "8000"),
		Database: GetDatabaseConfig(),
		SMTP:     GetSMTPConfig(),
		Ollama: OllamaConfig{
			URL:   getEnv("OLLAMA_URL", "http://localhost:11434"),
			Model: getEnv("OLLAMA_MODEL", "llama3.2"),
		},
		UPI: UPIConfig{
			PayeeHandle: getEnv("UPI_PAYEE", "8010407897@yapl"),
			PayeeName:   getEnv("UPI_PAYEE_NAME", "AI Resume Builder"),
		},
		JWTSecret:   getEnv("JWT_SECRET", "your-secret-key"),
		AdminAPIKey: getEnv("ADMIN_API_KEY", "AIRecruiter@Google_2025"),
		DraftDir:    getEnv("DRAFT_DIR", "./static/drafts"),
		Environment: getEnv("ENVIRONMENT", "development"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
