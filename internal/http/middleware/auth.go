package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/pribylovaa/yanews/internal/models"
	logctx "github.com/pribylovaa/yanews/pkg/log"
)

// LoginPath — точка входа, куда RequireAuth отправляет анонимов.
const LoginPath = "/auth/login"

type (
	identityKey struct{}
	tokenKey    struct{}
)

// Authenticator проверяет access-токен (реализуется auth.Service).
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (models.Identity, error)
}

// Authenticate превращает Authorization: Bearer <token> в models.Identity в контексте.
// Отсутствующий или недействительный токен — аноним; решение об отказе
// принимают RequireAuth и сервисный слой.
func Authenticate(a Authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), tokenKey{}, token)

			id, err := a.Authenticate(ctx, token)
			if err != nil {
				logctx.From(ctx).Debug("bearer_rejected", "err", err)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			ctx = context.WithValue(ctx, identityKey{}, id)
			ctx = logctx.With(ctx, "user_id", id.UserID.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth отправляет анонима на страницу входа (302) с next=<исходный путь>.
func RequireAuth() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if IdentityFrom(r.Context()).IsAnonymous() {
				http.Redirect(w, r, LoginURL(r.URL.RequestURI()), http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoginURL строит адрес входа с возвратом на next.
func LoginURL(next string) string {
	return LoginPath + "?" + url.Values{"next": {next}}.Encode()
}

// IdentityFrom возвращает идентичность запроса; без неё — models.Anonymous.
func IdentityFrom(ctx context.Context) models.Identity {
	if id, ok := ctx.Value(identityKey{}).(models.Identity); ok {
		return id
	}
	return models.Anonymous
}

// TokenFrom возвращает «сырой» Bearer-токен запроса (нужен для logout).
func TokenFrom(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey{}).(string)
	return t
}

// WithIdentity кладёт идентичность в контекст (используется в тестах хендлеров).
func WithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func bearerToken(r *http.Request) string {
	const prefix = "Bearer "

	h := r.Header.Get("Authorization")
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}

	return strings.TrimSpace(h[len(prefix):])
}
