package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	apierrors "github.com/pribylovaa/yanews/internal/errors"
	"github.com/pribylovaa/yanews/internal/http/middleware"
	"github.com/pribylovaa/yanews/internal/service"
)

// ListHome — главная страница: первые limit новостей ленты.
// Без limit (или limit=0) используется размер страницы из конфигурации.
func (h *Handlers) ListHome(w http.ResponseWriter, r *http.Request) {
	var limit int32
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n < 0 {
			apierrors.WriteError(w, r, apierrors.InvalidArgument())
			return
		}

		limit = int32(n)
	}

	items, err := h.Comments.ListHome(r.Context(), limit)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, NewsListResponse{Items: items})
}

// NewsDetail — страница новости с комментариями.
// Некорректный id не адресует ни одной новости, поэтому отвечаем 404.
func (h *Handlers) NewsDetail(w http.ResponseWriter, r *http.Request) {
	newsID, ok := newsIDParam(r)
	if !ok {
		apierrors.WriteError(w, r, service.ErrNotFound)
		return
	}

	detail, err := h.Comments.NewsDetail(r.Context(), newsID, middleware.IdentityFrom(r.Context()))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

func newsIDParam(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
