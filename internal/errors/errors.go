// errors стандартизирует ответы об ошибках HTTP-слоя YaNews.
// На вход принимает ошибку сервисного слоя (или gRPC-статус),
// а на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
//
// Доменные ошибки сначала сводятся к каноническому коду (google.golang.org/grpc/codes),
// а затем код переводится в HTTP по единой таблице baseFromCode.
package errors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pribylovaa/yanews/internal/auth"
	"github.com/pribylovaa/yanews/internal/service"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки на FE.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// InvalidArgument — локальная ошибка разбора запроса (битый JSON, UUID).
func InvalidArgument() error {
	return status.Error(codes.InvalidArgument, "invalid argument")
}

// ToHTTP конвертирует ошибку в HTTP-статус и унифицированный ответ.
//
// Поведение:
//   - err == nil — программная ошибка вызова: 500/internal;
//   - отказ модерации — 400/rejected, message = текст предупреждения;
//   - gRPC-статус — маппится по коду как есть;
//   - доменные ошибки — через Code;
//   - прочее — 500/internal (без утечки деталей).
func ToHTTP(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusInternalServerError, ErrorResponse{
			Error: APIError{Code: "internal", Message: "internal error"},
		}
	}

	var rej *service.RejectedError
	if errors.As(err, &rej) {
		return http.StatusBadRequest, ErrorResponse{
			Error: APIError{Code: "rejected", Message: rej.Reason},
		}
	}

	httpStatus, code, msg := baseFromCode(Code(err))

	return httpStatus, ErrorResponse{
		Error: APIError{Code: code, Message: msg},
	}
}

// Code сводит ошибку к каноническому коду.
func Code(err error) codes.Code {
	switch {
	case err == nil:
		return codes.OK
	case errors.Is(err, service.ErrInvalidArgument),
		errors.Is(err, service.ErrRejected),
		errors.Is(err, auth.ErrInvalidArgument):
		return codes.InvalidArgument
	case errors.Is(err, service.ErrNotFound):
		return codes.NotFound
	case errors.Is(err, service.ErrForbidden):
		return codes.PermissionDenied
	case errors.Is(err, service.ErrRequiresAuth),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenExpired):
		return codes.Unauthenticated
	case errors.Is(err, auth.ErrUsernameTaken):
		return codes.AlreadyExists
	case errors.Is(err, service.ErrStorageUnavailable),
		errors.Is(err, auth.ErrStorageUnavailable):
		return codes.Unavailable
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	}

	if st, ok := status.FromError(err); ok {
		return st.Code()
	}

	return codes.Internal
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// baseFromCode — базовый маппинг канонического кода в HTTP/FE-код/сообщение:
//   - InvalidArgument -> 400
//   - NotFound -> 404 (в том числе чужой комментарий)
//   - AlreadyExists -> 409
//   - Unauthenticated -> 401
//   - PermissionDenied -> 403 (зарезервировано)
//   - Canceled -> 499
//   - DeadlineExceeded -> 504
//   - Unavailable -> 503 (хранилище недоступно)
//   - прочее -> 500/internal
func baseFromCode(c codes.Code) (int, string, string) {
	switch c {
	case codes.InvalidArgument:
		return http.StatusBadRequest, "invalid_argument", "invalid argument"
	case codes.NotFound:
		return http.StatusNotFound, "not_found", "not found"
	case codes.AlreadyExists:
		return http.StatusConflict, "already_exists", "already exists"
	case codes.Unauthenticated:
		return http.StatusUnauthorized, "unauthenticated", "unauthenticated"
	case codes.PermissionDenied:
		return http.StatusForbidden, "permission_denied", "permission denied"
	case codes.Canceled:
		return StatusClientClosedRequest, "canceled", "canceled"
	case codes.DeadlineExceeded:
		return http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"
	case codes.Unavailable:
		return http.StatusServiceUnavailable, "unavailable", "service unavailable"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}
