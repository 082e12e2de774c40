// Package auth manages cookie sessions and role gating for the API.
//
// Terminology: ActorID is the verified user id taken from the session. The
// lifecycle engine refuses commands without one; handlers never invent a
// default actor.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

// session value keys
const (
	isAuthKey = "is_authenticated"
	userIDKey = "user_id"
	nameKey   = "user_name"
	emailKey  = "user_email"
	roleKey   = "user_role"
	deptKey   = "user_department_id"
)

// SessionUser is what we cache in the session and inject into r.Context().
type SessionUser struct {
	ID           string
	Name         string
	Email        string
	Role         string
	DepartmentID string // set for workers and department heads
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// UserFetcher loads fresh user data for a session id, so role changes and
// deactivations take effect without waiting for the cookie to expire.
// Returning nil with no error means the user no longer exists or is
// inactive, which invalidates the session.
type UserFetcher interface {
	FetchSessionUser(ctx context.Context, id string) (*SessionUser, error)
}

// SessionManager wraps the cookie store plus the middleware that loads and
// gates the current user.
type SessionManager struct {
	store   *sessions.CookieStore
	name    string
	fetcher UserFetcher
	log     *zap.Logger
}

// NewSessionManager builds a SessionManager with signed cookies.
// In production (secure=true) cookies are Secure + SameSite=None so the
// browser sends them from the separately-hosted frontends; in dev Lax over
// plain http is fine.
func NewSessionManager(sessionKey, sessionName, domain string, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{store: store, name: sessionName, log: logger}, nil
}

// SetUserFetcher installs the per-request user refresh hook.
func (sm *SessionManager) SetUserFetcher(f UserFetcher) { sm.fetcher = f }

// CurrentUser returns the user in context and a found flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// WithTestUser injects a user into the request context, bypassing the
// session store. Test helper only.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

// LoadSessionUser injects the user into context if they are signed in.
// When a fetcher is set, the session is revalidated against the database on
// every request.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := sm.store.Get(r, sm.name)

		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
			u := &SessionUser{
				ID:           getString(sess, userIDKey),
				Name:         getString(sess, nameKey),
				Email:        getString(sess, emailKey),
				Role:         getString(sess, roleKey),
				DepartmentID: getString(sess, deptKey),
			}

			if sm.fetcher != nil {
				fresh, err := sm.fetcher.FetchSessionUser(r.Context(), u.ID)
				switch {
				case err != nil:
					sm.log.Warn("session user refresh failed; using cached session",
						zap.String("user_id", u.ID), zap.Error(err))
				case fresh == nil:
					// Account deleted or deactivated; drop the session.
					u = nil
				default:
					u = fresh
				}
			}

			if u != nil {
				r = withUser(r, u)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// SignIn stores the user in the session cookie.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, u *SessionUser) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = u.ID
	sess.Values[nameKey] = u.Name
	sess.Values[emailKey] = u.Email
	sess.Values[roleKey] = u.Role
	sess.Values[deptKey] = u.DepartmentID
	return sess.Save(r, w)
}

// SignOut clears the session cookie.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values = map[any]any{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// RequireSignedIn rejects requests with no user in context. This is a JSON
// API, so the response is a plain 401 rather than a login redirect.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			writeAuthError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole gates a route group to the given roles. Not signed in → 401;
// signed in with the wrong role → 403.
func (sm *SessionManager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if _, has := set[strings.ToLower(u.Role)]; !has {
				writeAuthError(w, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	fmt.Fprintf(w, `{"error":%q}`+"\n", msg)
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}
