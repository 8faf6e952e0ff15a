package app

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	sm := NewSessionManager("test_session", time.Hour)

	session := sm.Create(SessionAdmin, 1, "admin")
	require.NotEmpty(t, session.Token)

	t.Run("get live session", func(t *testing.T) {
		got, ok := sm.Get(session.Token)
		require.True(t, ok)
		assert.Equal(t, SessionAdmin, got.Kind)
		assert.Equal(t, int64(1), got.UserID)
		assert.Equal(t, "admin", got.Username)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, ok := sm.Get("nope")
		assert.False(t, ok)
	})

	t.Run("delete", func(t *testing.T) {
		sm.Delete(session.Token)
		_, ok := sm.Get(session.Token)
		assert.False(t, ok)
	})
}

func TestSessionExpiry(t *testing.T) {
	sm := NewSessionManager("test_session", -time.Minute)

	session := sm.Create(SessionStudent, 7, "S001")
	_, ok := sm.Get(session.Token)
	assert.False(t, ok, "expired session must not resolve")
}

func TestSessionCookieRoundTrip(t *testing.T) {
	sm := NewSessionManager("test_session", time.Hour)
	session := sm.Create(SessionStudent, 7, "S001")

	rec := httptest.NewRecorder()
	sm.SetCookie(rec, session)

	res := rec.Result()
	cookies := res.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "test_session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])

	got, ok := sm.FromRequest(req)
	require.True(t, ok)
	assert.Equal(t, int64(7), got.UserID)

	t.Run("clear drops the session", func(t *testing.T) {
		rec := httptest.NewRecorder()
		sm.ClearCookie(rec, req)

		_, ok := sm.FromRequest(req)
		assert.False(t, ok)

		cleared := rec.Result().Cookies()
		require.Len(t, cleared, 1)
		assert.Negative(t, cleared[0].MaxAge)
	})
}

func TestSessionCookieMissing(t *testing.T) {
	sm := NewSessionManager("test_session", time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := sm.FromRequest(req)
	assert.False(t, ok)
}
