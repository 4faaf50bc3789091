package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/GlebRadaev/proxyconsole/pkg/utils"
)

type ContextKey string

const ClaimsKey ContextKey = "claims"

// AuthMiddleware answers HTTP 401 with an envelope body when the bearer token
// is missing, invalid, expired or revoked.
func AuthMiddleware(jwtService JWTServiceInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				utils.RespondWithEnvelope(w, http.StatusUnauthorized, http.StatusUnauthorized, "Unauthorized", nil)
				return
			}

			claims, err := jwtService.ValidateToken(token)
			if err != nil {
				utils.RespondWithEnvelope(w, http.StatusUnauthorized, http.StatusUnauthorized, "Unauthorized", nil)
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func BearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	return token, token != ""
}

func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*Claims)
	return claims, ok
}
