package client

import "sync"

// SessionState is the single source of truth the views read. There is no
// implicit "token present" check scattered around: the state machine below
// is the only authority on whether the user is signed in.
type SessionState int

const (
	StateUnauthenticated SessionState = iota
	StateLoading
	StateAuthenticated
)

func (s SessionState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// SessionTracker holds the auth state and the in-memory token. Events from
// login, logout and restore drive the transitions; views only ever read.
type SessionTracker struct {
	mu    sync.RWMutex
	state SessionState
	user  string
	token string
}

func NewSessionTracker() *SessionTracker {
	return &SessionTracker{state: StateUnauthenticated}
}

// BeginLoading marks an auth attempt in flight.
func (t *SessionTracker) BeginLoading() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = StateLoading
}

// Establish records a successful sign-in.
func (t *SessionTracker) Establish(user, token string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = StateAuthenticated
	t.user = user
	t.token = token
}

// Fail returns to the signed-out state after an unsuccessful attempt.
func (t *SessionTracker) Fail() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = StateUnauthenticated
	t.user = ""
	t.token = ""
}

// Clear drops the session on logout.
func (t *SessionTracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = StateUnauthenticated
	t.user = ""
	t.token = ""
}

func (t *SessionTracker) State() SessionState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

func (t *SessionTracker) User() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.user
}

func (t *SessionTracker) Token() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.token
}

// Authenticated reports whether a session is established.
func (t *SessionTracker) Authenticated() bool {
	return t.State() == StateAuthenticated
}
