package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	apierrors "github.com/pribylovaa/yanews/internal/errors"
	"github.com/pribylovaa/yanews/internal/http/middleware"
	"github.com/pribylovaa/yanews/internal/service"
)

// CreateComment — комментарий к новости от текущего пользователя.
// Анонима отправляем на вход с возвратом на страницу новости.
func (h *Handlers) CreateComment(w http.ResponseWriter, r *http.Request) {
	newsID, ok := newsIDParam(r)
	if !ok {
		apierrors.WriteError(w, r, service.ErrNotFound)
		return
	}

	// Аноним уходит на вход раньше разбора тела: форма ему не положена.
	requester := middleware.IdentityFrom(r.Context())
	if requester.IsAnonymous() {
		redirectToNewsLogin(w, r, newsID.String())
		return
	}

	var in CommentTextRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.InvalidArgument())
		return
	}

	comment, err := h.Comments.CreateComment(r.Context(), newsID, requester, in.Text)
	if err != nil {
		if errors.Is(err, service.ErrRequiresAuth) {
			redirectToNewsLogin(w, r, newsID.String())
			return
		}

		apierrors.WriteError(w, r, err)
		return
	}

	w.Header().Set("Location", "/news/"+newsID.String()+"#comments")
	writeJSON(w, http.StatusCreated, comment)
}

// GetComment — комментарий для страницы правки/удаления, только автору.
func (h *Handlers) GetComment(w http.ResponseWriter, r *http.Request) {
	comment, err := h.Comments.CommentForEdit(r.Context(), chi.URLParam(r, "id"), middleware.IdentityFrom(r.Context()))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, comment)
}

func (h *Handlers) EditComment(w http.ResponseWriter, r *http.Request) {
	var in CommentTextRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, apierrors.InvalidArgument())
		return
	}

	comment, err := h.Comments.EditComment(r.Context(), chi.URLParam(r, "id"), middleware.IdentityFrom(r.Context()), in.Text)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, comment)
}

func (h *Handlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := h.Comments.DeleteComment(r.Context(), chi.URLParam(r, "id"), middleware.IdentityFrom(r.Context())); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func redirectToNewsLogin(w http.ResponseWriter, r *http.Request, newsID string) {
	http.Redirect(w, r, middleware.LoginURL("/news/"+newsID), http.StatusFound)
}
