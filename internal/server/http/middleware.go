package http

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/gotodo/internal/server/auth"
)

// tokenHeader is the plain request header the token travels in, kept from the
// original API surface.
const tokenHeader = "token"

type ctxKey string

const userIDKey ctxKey = "userID"

// authenticate verifies the bearer token and injects the owner's user ID into
// the request context. The extracted ID is the only trusted owner value for
// the rest of the request.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		token := r.Header.Get(tokenHeader)
		if token == "" {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userIDFromContext returns the authenticated user ID placed by authenticate.
func userIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}
