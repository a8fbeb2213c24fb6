package http

import (
	"context"
	"net/http"

	"github.com/secmon-lab/kanbot/pkg/domain/model/auth"
	"github.com/secmon-lab/kanbot/pkg/domain/types"
	"github.com/secmon-lab/kanbot/pkg/usecase"
)

// authMiddleware validates the token_id/token_secret cookie pair and binds
// the resulting token to the request context
func authMiddleware(authUC *usecase.AuthUseCase) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenIDCookie, err := r.Cookie(cookieTokenID)
			if err != nil {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			tokenSecretCookie, err := r.Cookie(cookieTokenSecret)
			if err != nil {
				http.Error(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			tokenID := auth.TokenID(tokenIDCookie.Value)
			tokenSecret := auth.TokenSecret(tokenSecretCookie.Value)

			token, err := authUC.ValidateToken(r.Context(), tokenID, tokenSecret)
			if err != nil {
				http.Error(w, "Invalid authentication token", http.StatusUnauthorized)
				return
			}

			ctx := auth.ContextWithToken(r.Context(), token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// currentUserID returns the user bound by authMiddleware. The empty ID is
// never returned for requests that passed the middleware.
func currentUserID(ctx context.Context) types.UserID {
	token, ok := auth.TokenFromContext(ctx)
	if !ok {
		return ""
	}
	return token.UserID
}
