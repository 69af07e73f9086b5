package middleware

import (
	"context"
	"net/http"
	"strings"

	"topcoach/internal/httputil"

	"github.com/golang-jwt/jwt/v4"
)

type contextKey string

const externalIDKey contextKey = "externalId"

// ExternalID returns the verified identity-provider subject stored by
// JWTMiddleware, or "" when the request was not authenticated.
func ExternalID(ctx context.Context) string {
	id, _ := ctx.Value(externalIDKey).(string)
	return id
}

// WithExternalID returns a context carrying the given external identity.
// Used by tests to exercise handlers without a full token round trip.
func WithExternalID(ctx context.Context, externalID string) context.Context {
	return context.WithValue(ctx, externalIDKey, externalID)
}

// JWTMiddleware creates a chi middleware that validates bearer JWT tokens
// issued by the identity provider and exposes the subject claim as the
// opaque external identity.
func JWTMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				httputil.Unauthorized(w, "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				httputil.Unauthorized(w, "invalid authorization header format")
				return
			}
			tokenString := parts[1]

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				httputil.Unauthorized(w, "invalid token")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				httputil.Unauthorized(w, "invalid token claims")
				return
			}

			sub, ok := claims["sub"].(string)
			if !ok || sub == "" {
				httputil.Unauthorized(w, "token has no subject")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithExternalID(r.Context(), sub)))
		})
	}
}
