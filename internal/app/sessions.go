package app

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	SessionAdmin   = "admin"
	SessionStudent = "student"
)

// Session ties a cookie token to either the admin account or one
// student.
type Session struct {
	Token     string
	Kind      string
	UserID    int64
	Username  string
	ExpiresAt time.Time
}

// SessionManager keeps sessions in memory. The service is a single
// process and the embedded deployment must not require an external
// session store, so a mutex-guarded map is all there is to it.
type SessionManager struct {
	mu         sync.Mutex
	sessions   map[string]Session
	cookieName string
	ttl        time.Duration
}

func NewSessionManager(cookieName string, ttl time.Duration) *SessionManager {
	return &SessionManager{
		sessions:   make(map[string]Session),
		cookieName: cookieName,
		ttl:        ttl,
	}
}

// Create registers a new session and returns its token.
func (sm *SessionManager) Create(kind string, userID int64, username string) Session {
	session := Session{
		Token:     uuid.NewString(),
		Kind:      kind,
		UserID:    userID,
		Username:  username,
		ExpiresAt: time.Now().Add(sm.ttl),
	}

	sm.mu.Lock()
	sm.sessions[session.Token] = session
	sm.mu.Unlock()

	return session
}

// Get returns the live session for a token, expiring lazily.
func (sm *SessionManager) Get(token string) (Session, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session, ok := sm.sessions[token]
	if !ok {
		return Session{}, false
	}
	if time.Now().After(session.ExpiresAt) {
		delete(sm.sessions, token)
		return Session{}, false
	}
	return session, true
}

func (sm *SessionManager) Delete(token string) {
	sm.mu.Lock()
	delete(sm.sessions, token)
	sm.mu.Unlock()
}

// FromRequest resolves the session cookie on an incoming request.
func (sm *SessionManager) FromRequest(r *http.Request) (Session, bool) {
	cookie, err := r.Cookie(sm.cookieName)
	if err != nil {
		return Session{}, false
	}
	return sm.Get(cookie.Value)
}

// SetCookie attaches the session cookie to a response.
func (sm *SessionManager) SetCookie(w http.ResponseWriter, session Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sm.cookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie drops the session server-side and expires the cookie.
func (sm *SessionManager) ClearCookie(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sm.cookieName); err == nil {
		sm.Delete(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sm.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
