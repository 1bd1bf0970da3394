package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ftcaleb/marketing-kasiverse/internal/repository"
	"github.com/ftcaleb/marketing-kasiverse/internal/utils"

	"github.com/rs/zerolog"
)

// AuthHTTP exposes registration and login by proxying the identity provider.
// No credential ever touches local storage in hosted mode.
type AuthHTTP struct {
	identity repository.IdentityProvider
	log      zerolog.Logger
}

func NewAuthHTTP(identity repository.IdentityProvider, log zerolog.Logger) *AuthHTTP {
	return &AuthHTTP{identity: identity, log: log}
}

func (h *AuthHTTP) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Email    string `json:"email"`
			Password string `json:"password"`
			Name     string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		u, err := h.identity.SignUp(r.Context(), in.Email, in.Password, in.Name)
		if err != nil {
			var verr *repository.ValidationError
			if errors.As(err, &verr) {
				utils.Error(w, http.StatusBadRequest, verr.Message)
				return
			}
			h.log.Error().Err(err).Msg("sign up failed")
			utils.Error(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		utils.JSON(w, http.StatusCreated, map[string]any{
			"message": "User registered",
			"user":    u,
		})
	}
}

func (h *AuthHTTP) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		u, token, err := h.identity.SignInWithPassword(r.Context(), in.Email, in.Password)
		if err != nil {
			if errors.Is(err, repository.ErrInvalidCredentials) {
				utils.Error(w, http.StatusUnauthorized, "Invalid login credentials")
				return
			}
			var verr *repository.ValidationError
			if errors.As(err, &verr) {
				// The provider rejects some logins with its own message
				// (unconfirmed email and the like); surface it as-is.
				utils.Error(w, http.StatusUnauthorized, verr.Message)
				return
			}
			h.log.Error().Err(err).Msg("sign in failed")
			utils.Error(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		utils.JSON(w, http.StatusOK, map[string]any{
			"message": "Successfully Logged In",
			"user":    u,
			"token":   token,
		})
	}
}
