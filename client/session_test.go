package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTracker_Transitions(t *testing.T) {
	tr := NewSessionTracker()
	assert.Equal(t, StateUnauthenticated, tr.State())
	assert.False(t, tr.Authenticated())

	tr.BeginLoading()
	assert.Equal(t, StateLoading, tr.State())

	tr.Establish("user@example.com", "tok")
	assert.Equal(t, StateAuthenticated, tr.State())
	assert.True(t, tr.Authenticated())
	assert.Equal(t, "user@example.com", tr.User())
	assert.Equal(t, "tok", tr.Token())

	tr.Clear()
	assert.Equal(t, StateUnauthenticated, tr.State())
	assert.Empty(t, tr.Token())
}

func TestSessionTracker_FailDropsPartialState(t *testing.T) {
	tr := NewSessionTracker()
	tr.Establish("user@example.com", "tok")

	tr.BeginLoading()
	tr.Fail()

	assert.Equal(t, StateUnauthenticated, tr.State())
	assert.Empty(t, tr.User())
	assert.Empty(t, tr.Token())
}

func TestLogin_EstablishesSession(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"message":"Login successful","user":"u@example.com","token":"jwt-token"}`))
	}))
	defer srv.Close()

	out, err := c.Login(context.Background(), "u@example.com", "hunter22")

	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, StateAuthenticated, c.Session().State())
	assert.Equal(t, "jwt-token", c.Session().Token())
}

func TestLogin_FailureReturnsToUnauthenticated(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"Invalid email or password"}`))
	}))
	defer srv.Close()

	_, err := c.Login(context.Background(), "u@example.com", "wrong")

	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", err.Error())
	assert.Equal(t, StateUnauthenticated, c.Session().State())
	assert.Empty(t, c.Session().Token())
}

func TestLoginWithGoogle_EstablishesSession(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/login/google", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"message":"Google login successful","user":"g@example.com","token":"jwt-token"}`))
	}))
	defer srv.Close()

	_, err := c.LoginWithGoogle(context.Background(), "google-id-token", "g@example.com")

	require.NoError(t, err)
	assert.Equal(t, StateAuthenticated, c.Session().State())
}

func TestLogout_ClearsSessionEvenOnServerError(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c.Session().Establish("u@example.com", "tok")

	err := c.Logout(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, StateUnauthenticated, c.Session().State())
}

func TestRestore_ValidToken(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer stored-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"profile":{"id":3,"email":"u@example.com","name":"U"}}`))
	}))
	defer srv.Close()

	require.NoError(t, c.Restore(context.Background(), "stored-token"))
	assert.Equal(t, StateAuthenticated, c.Session().State())
	assert.Equal(t, "u@example.com", c.Session().User())
}

func TestRestore_RejectsEmptyIdentity(t *testing.T) {
	// A 200 whose body carries no profile must not establish a session
	// with an empty user.
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	err := c.Restore(context.Background(), "stored-token")

	assert.Error(t, err)
	assert.Equal(t, StateUnauthenticated, c.Session().State())
	assert.Empty(t, c.Session().User())
}

func TestRestore_ExpiredToken(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := c.Restore(context.Background(), "stale")

	assert.Error(t, err)
	assert.Equal(t, StateUnauthenticated, c.Session().State())
}
