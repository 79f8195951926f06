package auth

import (
	"context"
	"net/http"

	"github.com/Rakabidaasta/npc-hackaton/internal/model"
)

// contextKey is an unexported type for context keys in this package, so no
// other package can read or shadow the values we store.
type contextKey string

const userKey contextKey = "user"

// UserLoader fetches the user referenced by a validated session. It is an
// explicit interface called directly by the middleware — the session layer
// asks for the user, nothing registers callbacks behind the scenes. A
// not-found error means the session points at a user that no longer exists
// and the request is treated as unauthenticated.
type UserLoader interface {
	LoadUser(ctx context.Context, id string) (*model.User, error)
}

// RequireAuth guards browser routes. It reads the session cookie, validates
// the token, loads the user record, and stores it in the request context.
// Any failure — missing cookie, bad token, unknown user — redirects to the
// login page rather than rendering the protected page.
func RequireAuth(sessions *SessionService, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := currentUser(r, sessions, users)
			if err != nil {
				http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated user stored by RequireAuth.
// The second return is false for anonymous requests.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userKey).(*model.User)
	return u, ok && u != nil
}

// currentUser resolves the request's session cookie to a full user record.
func currentUser(r *http.Request, sessions *SessionService, users UserLoader) (*model.User, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return nil, err
	}

	userID, err := sessions.Validate(cookie.Value)
	if err != nil {
		return nil, err
	}

	return users.LoadUser(r.Context(), userID)
}
