package http

import (
	"net/http"

	"github.com/secmon-lab/kanbot/pkg/domain/model/auth"
	"github.com/secmon-lab/kanbot/pkg/usecase"
)

const (
	cookieTokenID     = "token_id"
	cookieTokenSecret = "token_secret"
)

func setTokenCookies(w http.ResponseWriter, r *http.Request, token *auth.Token) {
	maxAge := int(usecase.TokenTTL.Seconds())
	http.SetCookie(w, &http.Cookie{
		Name:     cookieTokenID,
		Value:    token.ID.String(),
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     cookieTokenSecret,
		Value:    token.Secret.String(),
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

func clearTokenCookies(w http.ResponseWriter, r *http.Request) {
	for _, name := range []string{cookieTokenID, cookieTokenSecret} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
	}
}

func authRegisterHandler(authUC *usecase.AuthUseCase) http.HandlerFunc {
	type request struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeJSON(r, &req); err != nil {
			handleError(r.Context(), w, err)
			return
		}

		user, err := authUC.Register(r.Context(), &usecase.RegisterInput{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
			FullName: req.FullName,
		})
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		respondJSON(r.Context(), w, http.StatusCreated, user)
	}
}

func authLoginHandler(authUC *usecase.AuthUseCase) http.HandlerFunc {
	type request struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeJSON(r, &req); err != nil {
			handleError(r.Context(), w, err)
			return
		}

		user, token, err := authUC.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		setTokenCookies(w, r, token)
		respondJSON(r.Context(), w, http.StatusOK, user)
	}
}

func authLogoutHandler(authUC *usecase.AuthUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := auth.TokenFromContext(r.Context())
		if !ok {
			handleError(r.Context(), w, usecase.ErrUnauthenticated)
			return
		}

		if err := authUC.Logout(r.Context(), token.ID); err != nil {
			handleError(r.Context(), w, err)
			return
		}

		clearTokenCookies(w, r)
		respondJSON(r.Context(), w, http.StatusOK, map[string]bool{"success": true})
	}
}

func authMeHandler(authUC *usecase.AuthUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := authUC.GetUser(r.Context(), currentUserID(r.Context()))
		if err != nil {
			handleError(r.Context(), w, err)
			return
		}

		respondJSON(r.Context(), w, http.StatusOK, user)
	}
}
