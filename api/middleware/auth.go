package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/mussa52/madalali-tz/api/responses"
	"github.com/mussa52/madalali-tz/internal/access"
	pkgauth "github.com/mussa52/madalali-tz/pkg/auth"
	"github.com/mussa52/madalali-tz/pkg/config"
	"github.com/mussa52/madalali-tz/pkg/enums"
	pkgerrors "github.com/mussa52/madalali-tz/pkg/errors"
	"github.com/mussa52/madalali-tz/pkg/logger"
)

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}

func principalFromToken(cfg config.JWTConfig, token string) (*access.Principal, string) {
	claims, err := pkgauth.ParseAccessToken(cfg, token)
	if err != nil {
		if errors.Is(err, pkgauth.ErrTokenExpired) {
			return nil, "expired"
		}
		return nil, "malformed"
	}
	if !claims.Role.IsValid() {
		return nil, "malformed"
	}
	return &access.Principal{ID: claims.UserID, Email: claims.Email, Role: claims.Role}, ""
}

// Auth validates a bearer token and seeds the request context with the
// principal. Every failure maps to 401; the reason only reaches the logs.
func Auth(cfg config.JWTConfig, wr *responses.Writer, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token := bearerToken(r)
			if token == "" {
				if logg != nil {
					logg.Warn(logg.WithField(ctx, "auth_failure", "absent"), "auth.rejected")
				}
				wr.Error(ctx, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}

			principal, reason := principalFromToken(cfg, token)
			if principal == nil {
				if logg != nil {
					logg.Warn(logg.WithField(ctx, "auth_failure", reason), "auth.rejected")
				}
				wr.Error(ctx, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired token"))
				return
			}

			ctx = WithPrincipal(ctx, principal)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    principal.ID.String(),
					"actor_role": string(principal.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth seeds the principal when a valid bearer token is present and
// treats every failure as an anonymous request.
func OptionalAuth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			principal, _ := principalFromToken(cfg, token)
			if principal == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithPrincipal(r.Context(), principal)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    principal.ID.String(),
					"actor_role": string(principal.Role),
				})
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects authenticated requests whose principal is not in the
// allowed set. It assumes Auth already ran.
func RequireRole(wr *responses.Writer, allowed ...enums.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := access.Authorize(PrincipalFromContext(r.Context()), allowed...); err != nil {
				wr.Error(r.Context(), w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
