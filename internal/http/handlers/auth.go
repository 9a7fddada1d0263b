package handlers

import (
	"net/http"

	"github.com/pribylovaa/yanews/internal/auth"
	apierrors "github.com/pribylovaa/yanews/internal/errors"
	"github.com/pribylovaa/yanews/internal/http/middleware"
)

func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	var in CredentialsRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.InvalidArgument())
		return
	}

	user, err := h.Accounts.Register(r.Context(), in.Username, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, userFromModel(user))
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var in CredentialsRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.InvalidArgument())
		return
	}

	token, err := h.Accounts.Login(r.Context(), in.Username, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenFromModel(token))
}

// Logout отзывает Bearer-токен текущего запроса.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFrom(r.Context())
	if token == "" {
		apierrors.WriteError(w, r, auth.ErrInvalidToken)
		return
	}

	if err := h.Accounts.Logout(r.Context(), token); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
