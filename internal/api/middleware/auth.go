package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/BorDevTech/games-server/internal/api/apierr"
	"github.com/BorDevTech/games-server/internal/model"
	"github.com/BorDevTech/games-server/internal/services/session"
)

// SessionCookieName is the cookie carrying the session token
const SessionCookieName = "game_session"

type sessionContextKey struct{}

// ExtractToken pulls the session token from the request: the session
// cookie first, then an Authorization bearer token as a fallback for
// non-browser clients.
func ExtractToken(r *http.Request) model.SessionID {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return model.SessionID(cookie.Value)
	}
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok && token != "" {
		return model.SessionID(token)
	}
	return ""
}

// RequireSession resolves the caller's session and rejects requests
// without a live one. Each authenticated request bumps the session's
// activity timestamp, so active players never expire mid-game.
func RequireSession(sessions *session.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			sess, err := sessions.Touch(r.Context(), token)
			if err != nil {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			ctx := context.WithValue(r.Context(), sessionContextKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSession returns the authenticated session from the context
func GetSession(ctx context.Context) (*model.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey{}).(*model.Session)
	return sess, ok
}

// MustGetSession returns the authenticated session, panicking if the
// handler was wired without RequireSession. Programmer error, not input.
func MustGetSession(ctx context.Context) *model.Session {
	sess, ok := GetSession(ctx)
	if !ok {
		panic("no session in context; handler registered outside RequireSession")
	}
	return sess
}
