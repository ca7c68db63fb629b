package server

import (
	"context"
	"net/http"

	"todo-api/internal/domain"
)

// AuthHeader carries the session token on every authenticated request and
// returns freshly issued tokens on registration and login responses.
const AuthHeader = "x-auth"

type contextKey string

const (
	userContextKey  contextKey = "user"
	tokenContextKey contextKey = "token"
)

// authenticate resolves the x-auth header to a user before the downstream
// handler runs. On failure the request is rejected with 401 and the handler
// is never invoked.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(AuthHeader)
		if token == "" {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		user, err := s.accounts.ResolveByToken(r.Context(), token)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		ctx = context.WithValue(ctx, tokenContextKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userContextKey).(*domain.User)
	return user
}

func tokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey).(string)
	return token
}
