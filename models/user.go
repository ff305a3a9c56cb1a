package models

import (
	"database/sql"
	"time"
)

type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Password     string    `json:"-"` // Don't include password in JSON
	AuthProvider string    `json:"auth_provider"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type UserModel struct {
	DB *sql.DB
}

func NewUserModel(db *sql.DB) *UserModel {
	return &UserModel{DB: db}
}

func (m *UserModel) Create(email, name, password string) (*User, error) {
	return m.CreateWithProvider(email, name, password, "email")
}

func (m *UserModel) CreateWithProvider(email, name, password, authProvider string) (*User, error) {
	user := &User{}
	query := `
		INSERT INTO users (email, name, password, auth_provider, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id, email, name, auth_provider, created_at, updated_at
	`
	err := m.DB.QueryRow(query, email, name, password, authProvider, time.Now()).Scan(
		&user.ID, &user.Email, &user.Name, &user.AuthProvider, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (m *UserModel) GetByID(id int) (*User, error) {
	user := &User{}
	err := m.DB.QueryRow(
		"SELECT id, email, name, password, auth_provider, created_at, updated_at FROM users WHERE id = $1",
		id).Scan(&user.ID, &user.Email, &user.Name, &user.Password, &user.AuthProvider, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (m *UserModel) GetByEmail(email string) (*User, error) {
	user := &User{}
	err := m.DB.QueryRow(
		"SELECT id, email, name, password, auth_provider, created_at, updated_at FROM users WHERE email = $1",
		email).Scan(&user.ID, &user.Email, &user.Name, &user.Password, &user.AuthProvider, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}
