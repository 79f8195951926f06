package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie is the name of the cookie that carries the session token.
const SessionCookie = "session"

// sessionLifetime is how long an issued session stays valid. Logout clears
// the cookie; the token itself simply expires after this window.
const sessionLifetime = 24 * time.Hour

const issuer = "npc-chat"

// SessionService issues and validates the signed session tokens that stand
// in for server-side session state. A token is an HS256 JWT whose subject
// claim is the user's internal ID; the signing secret is an explicit
// configuration value so sessions survive process restarts.
type SessionService struct {
	secret []byte
}

// NewSessionService creates a SessionService with the given signing secret.
// The secret must be at least 16 characters; generate it once (for example
// with `openssl rand -hex 32`) and keep it stable across restarts.
func NewSessionService(secret string) (*SessionService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: session secret must be at least 16 characters")
	}
	return &SessionService{secret: []byte(secret)}, nil
}

type claims struct {
	jwt.RegisteredClaims
}

// Issue creates a signed session token for the given user ID.
func (s *SessionService) Issue(userID string) (string, error) {
	return s.IssueWithDuration(userID, sessionLifetime)
}

// IssueWithDuration creates a token with a custom lifetime. Used by tests to
// produce already-expired tokens.
func (s *SessionService) IssueWithDuration(userID string, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing session token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a session token and returns the user ID it
// carries. The signature, expiry, issuer, and signing algorithm are all
// checked; restricting the algorithm to HS256 closes the door on algorithm
// confusion.
func (s *SessionService) Validate(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: session expired")
		}
		return "", fmt.Errorf("auth: invalid session token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid session claims")
	}
	if c.Subject == "" {
		return "", fmt.Errorf("auth: session token has no subject")
	}

	return c.Subject, nil
}

// SetCookie writes the session token as an HttpOnly cookie on the response.
// HttpOnly keeps the token out of reach of page scripts; SameSite=Lax keeps
// it off cross-site POSTs.
func SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionLifetime.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie tells the browser to drop the session cookie immediately.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
