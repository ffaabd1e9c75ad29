// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/metaconstrutor/api/internal/core"
	"github.com/metaconstrutor/api/internal/permission"
)

const (
	UserIDKey  contextKey = "user_id"
	SessionKey contextKey = "session"
	ClaimsKey  contextKey = "jwt_claims"
)

type TokenVerifier interface {
	VerifyAccessToken(
		ctx context.Context,
		token string,
	) (*AccessTokenClaims, error)
}

type AccessTokenClaims struct {
	UserID         string
	OrganizationID string
	Roles          []string
	Plan           string
	TokenVersion   int
	JTI            string
	ExpiresAt      time.Time
}

func (c *AccessTokenClaims) Session() permission.Session {
	return permission.NewSession(c.UserID, c.OrganizationID, c.Roles, c.Plan)
}

func withClaims(ctx context.Context, claims *AccessTokenClaims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, SessionKey, claims.Session())
	ctx = context.WithValue(ctx, ClaimsKey, claims)
	return ctx
}

func Authenticator(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)

			if token == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("missing authorization token"),
				)
				return
			}

			claims, err := verifier.VerifyAccessToken(r.Context(), token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

// RequireAction rejects the request unless the session is granted action.
func RequireAction(action permission.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := SessionFrom(r.Context())
			if !ok {
				core.JSONError(
					w,
					core.UnauthorizedError("authentication required"),
				)
				return
			}

			if err := permission.Require(session, action); err != nil {
				core.JSONError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	case errors.Is(err, core.ErrTokenRevoked):
		core.JSONError(w, core.TokenRevokedError())
	case errors.Is(err, core.ErrTokenInvalid):
		core.JSONError(w, core.TokenInvalidError())
	default:
		// Blacklist or profile lookup failed; the token itself may be fine.
		core.InternalServerError(w, err)
	}
}

func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

// SessionFrom returns the session attached by Authenticator.
func SessionFrom(ctx context.Context) (permission.Session, bool) {
	s, ok := ctx.Value(SessionKey).(permission.Session)
	return s, ok
}

func GetPlan(ctx context.Context) string {
	if s, ok := SessionFrom(ctx); ok {
		return string(s.Plan)
	}
	return ""
}

func GetClaims(ctx context.Context) *AccessTokenClaims {
	if claims, ok := ctx.Value(ClaimsKey).(*AccessTokenClaims); ok {
		return claims
	}
	return nil
}

// WithSession attaches s to ctx. Used by tests and internal callers that
// already hold a verified session.
func WithSession(ctx context.Context, s permission.Session) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, s.UserID)
	return context.WithValue(ctx, SessionKey, s)
}

// RequireSession fetches the session for a handler behind Authenticator,
// writing a 401 when there is none.
func RequireSession(
	w http.ResponseWriter,
	r *http.Request,
) (permission.Session, bool) {
	s, ok := SessionFrom(r.Context())
	if !ok || s.UserID == "" {
		core.Unauthorized(w, "")
		return permission.Session{}, false
	}
	return s, true
}
