package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/jobly/internal/apperror"
)

// Messages reported by the gate.
const (
	MsgAuthRequired  = "You must be authenticated"
	MsgAdminRequired = "This route requires admin access"
	MsgSameUser      = "Unauthorized - Must be same user"
)

var errNoBearer = errors.New("auth: missing bearer token")

// contextKey is an unexported type used for context keys in this package,
// so no other package can read or shadow the claims.
type contextKey string

const claimsKey contextKey = "claims"

// ErrorWriter renders a rejected request. The handler package supplies one
// so rejections share the API's error body.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Gate enforces the three route policies: authenticated, admin, same user.
// Every check is stateless: verify the bearer token, branch, admit or reject.
type Gate struct {
	tokens     *TokenService
	writeError ErrorWriter
	logger     *slog.Logger
}

func NewGate(tokens *TokenService, writeError ErrorWriter, logger *slog.Logger) *Gate {
	return &Gate{tokens: tokens, writeError: writeError, logger: logger}
}

// RequireAuth admits any request carrying a valid token.
func (g *Gate) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := g.verify(r)
		if err != nil {
			g.reject(w, r, apperror.Unauthenticated(MsgAuthRequired), err)
			return
		}
		next.ServeHTTP(w, withClaims(r, claims))
	})
}

// RequireAdmin admits a valid token whose is_admin claim is true. A bad
// token and a non-admin token are rejected with the same message.
func (g *Gate) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := g.verify(r)
		if err == nil && !claims.IsAdmin {
			err = errors.New("auth: not an admin")
		}
		if err != nil {
			g.reject(w, r, apperror.Forbidden(MsgAdminRequired), err)
			return
		}
		next.ServeHTTP(w, withClaims(r, claims))
	})
}

// RequireSameUser admits a valid token whose username equals the {param}
// path segment. A bad token and a different user are reported identically,
// and whether the target user exists is never revealed.
func (g *Gate) RequireSameUser(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := g.verify(r)
			if err == nil && claims.Username != chi.URLParam(r, param) {
				err = errors.New("auth: token belongs to another user")
			}
			if err != nil {
				g.reject(w, r, apperror.Forbidden(MsgSameUser), err)
				return
			}
			next.ServeHTTP(w, withClaims(r, claims))
		})
	}
}

// ClaimsFromContext returns the claims stored by a gate check.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*Claims)
	return c, ok && c != nil
}

// ContextWithClaims is exposed for handler tests that bypass the gate.
func ContextWithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func withClaims(r *http.Request, c *Claims) *http.Request {
	return r.WithContext(ContextWithClaims(r.Context(), c))
}

func (g *Gate) verify(r *http.Request) (*Claims, error) {
	token, err := bearerToken(r)
	if err != nil {
		return nil, err
	}
	return g.tokens.Validate(token)
}

func (g *Gate) reject(w http.ResponseWriter, r *http.Request, appErr error, cause error) {
	g.logger.Warn("request rejected by gate",
		slog.String("path", r.URL.Path),
		slog.String("reason", cause.Error()),
	)
	g.writeError(w, r, appErr)
}

// bearerToken reads "Authorization: Bearer <token>". The scheme is matched
// case-insensitively.
func bearerToken(r *http.Request) (string, error) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", errNoBearer
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errNoBearer
	}
	return token, nil
}
