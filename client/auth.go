package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// AuthResult mirrors the server's auth envelope.
type AuthResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	User    string `json:"user,omitempty"`
	Token   string `json:"token,omitempty"`
}

// Register creates an account and opens a session on success.
func (c *Client) Register(ctx context.Context, email, password, name string) (AuthResult, error) {
	return c.authenticate(ctx, "/api/register", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	})
}

// Login signs in with credentials. The tracker moves through Loading and
// lands on Authenticated or back on Unauthenticated.
func (c *Client) Login(ctx context.Context, email, password string) (AuthResult, error) {
	return c.authenticate(ctx, "/api/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

// LoginWithGoogle signs in with a Google ID token.
func (c *Client) LoginWithGoogle(ctx context.Context, token, email string) (AuthResult, error) {
	return c.authenticate(ctx, "/api/login/google", map[string]string{
		"token": token,
		"email": email,
	})
}

func (c *Client) authenticate(ctx context.Context, path string, body map[string]string) (AuthResult, error) {
	c.session.BeginLoading()

	var out AuthResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(path)
	if err != nil {
		c.session.Fail()
		return out, fmt.Errorf("auth request: %w", err)
	}

	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		c.session.Fail()
		return out, fmt.Errorf("decode auth response: %w", err)
	}
	if resp.IsError() || !out.Success {
		c.session.Fail()
		if out.Message != "" {
			return out, errors.New(out.Message)
		}
		return out, fmt.Errorf("auth failed with status %d", resp.StatusCode())
	}

	c.session.Establish(out.User, out.Token)
	return out, nil
}

// Logout tells the server and drops the local session either way; the
// token is stateless so a failed logout call cannot keep a session alive.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.http.R().SetContext(ctx).Post("/api/logout")
	c.session.Clear()
	if err != nil {
		return fmt.Errorf("logout request: %w", err)
	}
	return nil
}

// Restore resumes a previous session from a stored token, verifying it
// against the profile endpoint before trusting it.
func (c *Client) Restore(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("no token to restore")
	}
	c.session.BeginLoading()

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+token).
		Get("/api/profile")
	if err != nil {
		c.session.Fail()
		return fmt.Errorf("restore session: %w", err)
	}
	if resp.IsError() {
		c.session.Fail()
		return errors.New("stored session is no longer valid")
	}

	// The profile endpoint wraps the user under a "profile" key.
	var out struct {
		Profile struct {
			Email string `json:"email"`
		} `json:"profile"`
	}
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		c.session.Fail()
		return fmt.Errorf("decode profile: %w", err)
	}
	if out.Profile.Email == "" {
		c.session.Fail()
		return errors.New("profile response carried no user identity")
	}

	c.session.Establish(out.Profile.Email, token)
	return nil
}
