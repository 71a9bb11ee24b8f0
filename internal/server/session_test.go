package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melodyxpot/resumate-app/internal/config"
	"github.com/melodyxpot/resumate-app/internal/server/middleware"
)

func setupTestSessionService(t *testing.T, ttlHours int) *SessionService {
	t.Helper()
	return NewSessionService(&config.SessionConfig{
		Secret:       "test-secret-key-for-session-signing-32b",
		TTLHours:     ttlHours,
		CookieName:   "session",
		CookieSecure: true,
	})
}

func TestSessionService_IssueAndValidate(t *testing.T) {
	service := setupTestSessionService(t, 24)
	userID := uuid.New()

	token, expiresAt, err := service.IssueToken(userID)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, time.Minute)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}

func TestSessionService_Expired(t *testing.T) {
	service := setupTestSessionService(t, 1)
	start := time.Now()
	service.now = func() time.Time { return start }

	token, _, err := service.IssueToken(uuid.New())
	require.NoError(t, err)

	service.now = func() time.Time { return start.Add(2 * time.Hour) }
	_, err = service.ValidateToken(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestSessionService_WrongSecret(t *testing.T) {
	token, _, err := setupTestSessionService(t, 1).IssueToken(uuid.New())
	require.NoError(t, err)

	other := NewSessionService(&config.SessionConfig{
		Secret:     "another-secret-key-that-is-32-bytes-long",
		TTLHours:   1,
		CookieName: "session",
	})
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestSessionService_RejectsMalformedAndNone(t *testing.T) {
	service := setupTestSessionService(t, 1)

	_, err := service.ValidateToken("")
	assert.Error(t, err)

	_, err = service.ValidateToken("a.b.c")
	assert.Error(t, err)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: uuid.New()})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = service.ValidateToken(token)
	assert.Error(t, err)
}

func TestSessionService_Cookies(t *testing.T) {
	service := setupTestSessionService(t, 2)
	expiresAt := time.Now().Add(2 * time.Hour)

	rec := httptest.NewRecorder()
	service.SetCookie(rec, "token-value", expiresAt)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session", cookies[0].Name)
	assert.Equal(t, "token-value", cookies[0].Value)
	assert.Equal(t, "/", cookies[0].Path)
	assert.Equal(t, 7200, cookies[0].MaxAge)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	rec = httptest.NewRecorder()
	service.ClearCookie(rec)
	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestSessionAuthenticator(t *testing.T) {
	store := newMemStore()
	service := setupTestSessionService(t, 1)
	auth := service.Authenticator(store)

	user, err := store.CreateUser(t.Context(), "ada@example.com", "Ada")
	require.NoError(t, err)
	token, _, err := service.IssueToken(user.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: token})
	id, err := auth.Authenticate(req)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	store.deleteUser(user.ID)
	_, err = auth.Authenticate(req)
	var notFound *ErrUserNotFound
	assert.ErrorAs(t, err, &notFound)

	callsBefore := store.Calls()
	_, err = auth.Authenticate(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, middleware.ErrNoSession)
	assert.Equal(t, callsBefore, store.Calls())
}
