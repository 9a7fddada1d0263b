package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	apierrors "github.com/pribylovaa/yanews/internal/errors"
	logctx "github.com/pribylovaa/yanews/pkg/log"
)

// errPanic — ответ на панику обработчика; ToHTTP превращает его в 500/internal.
var errPanic = errors.New("handler panic")

// Recover не даёт панике обработчика уронить соединение:
// в лог уходят причина и стек, клиент получает 500 без подробностей.
// http.ErrAbortHandler пробрасывается дальше, им net/http обрывает ответ намеренно.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}

				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logctx.From(r.Context()).LogAttrs(r.Context(), slog.LevelError, "panic_recovered",
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Any("reason", rec),
					slog.String("stack", string(debug.Stack())),
				)

				apierrors.WriteError(w, r, errPanic)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
