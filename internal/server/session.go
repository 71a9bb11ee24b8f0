package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/melodyxpot/resumate-app/internal/config"
	"github.com/melodyxpot/resumate-app/internal/server/middleware"
	"github.com/melodyxpot/resumate-app/internal/types"
)

// Claims represents session token claims with user ID.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	jwt.RegisteredClaims
}

// SessionService issues and validates signed session tokens and manages the
// cookie that carries them.
type SessionService struct {
	config *config.SessionConfig
	now    func() time.Time
}

// NewSessionService creates a new session service with the given configuration.
func NewSessionService(cfg *config.SessionConfig) *SessionService {
	return &SessionService{
		config: cfg,
		now:    time.Now,
	}
}

// CookieName returns the name of the session cookie.
func (s *SessionService) CookieName() string {
	return s.config.CookieName
}

// IssueToken generates a session token for the given user ID.
func (s *SessionService) IssueToken(userID uuid.UUID) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.config.TTL())

	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// ValidateToken validates a session token and returns the claims.
func (s *SessionService) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token string is empty")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, fmt.Errorf("invalid token signature: %w", err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("token expired: %w", err)
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("malformed token: %w", err)
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}
	if claims.UserID == uuid.Nil {
		return nil, fmt.Errorf("token carries no user")
	}

	return claims, nil
}

// SetCookie stores the token in the HTTP-only session cookie.
func (s *SessionService) SetCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(s.config.TTL().Seconds()),
		HttpOnly: true,
		Secure:   s.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func (s *SessionService) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// UserLookup resolves accounts by id.
type UserLookup interface {
	GetUser(ctx context.Context, id uuid.UUID) (*types.User, error)
}

// sessionAuthenticator resolves the principal from a session token and
// confirms the account still exists.
type sessionAuthenticator struct {
	sessions *SessionService
	users    UserLookup
}

// Authenticator returns a middleware.Authenticator backed by this service.
func (s *SessionService) Authenticator(users UserLookup) middleware.Authenticator {
	return &sessionAuthenticator{sessions: s, users: users}
}

func (a *sessionAuthenticator) Authenticate(r *http.Request) (uuid.UUID, error) {
	token, err := middleware.TokenFromRequest(r, a.sessions.CookieName())
	if err != nil {
		return uuid.Nil, err
	}

	claims, err := a.sessions.ValidateToken(token)
	if err != nil {
		return uuid.Nil, err
	}

	user, err := a.users.GetUser(r.Context(), claims.UserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to resolve session user: %w", err)
	}
	if user == nil {
		return uuid.Nil, &ErrUserNotFound{UserID: claims.UserID}
	}
	return user.ID, nil
}
