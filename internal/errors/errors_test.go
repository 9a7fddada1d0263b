package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pribylovaa/yanews/internal/auth"
	"github.com/pribylovaa/yanews/internal/service"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func wrap(err error) error { return fmt.Errorf("service.comments.Op: %w", err) }

func TestToHTTP_DomainMapping(t *testing.T) {
	tcs := []struct {
		name       string
		in         error
		wantStatus int
		wantCode   string
	}{
		{"invalid_argument", wrap(service.ErrInvalidArgument), http.StatusBadRequest, "invalid_argument"},
		{"auth_invalid_argument", wrap(auth.ErrInvalidArgument), http.StatusBadRequest, "invalid_argument"},
		{"not_found", wrap(service.ErrNotFound), http.StatusNotFound, "not_found"},
		{"forbidden", wrap(service.ErrForbidden), http.StatusForbidden, "permission_denied"},
		{"requires_auth", wrap(service.ErrRequiresAuth), http.StatusUnauthorized, "unauthenticated"},
		{"invalid_credentials", wrap(auth.ErrInvalidCredentials), http.StatusUnauthorized, "unauthenticated"},
		{"invalid_token", wrap(auth.ErrInvalidToken), http.StatusUnauthorized, "unauthenticated"},
		{"token_expired", wrap(auth.ErrTokenExpired), http.StatusUnauthorized, "unauthenticated"},
		{"username_taken", wrap(auth.ErrUsernameTaken), http.StatusConflict, "already_exists"},
		{"storage", fmt.Errorf("op: %w: pg down", service.ErrStorageUnavailable), http.StatusServiceUnavailable, "unavailable"},
		{"auth_storage", wrap(auth.ErrStorageUnavailable), http.StatusServiceUnavailable, "unavailable"},
		{"canceled", wrap(context.Canceled), StatusClientClosedRequest, "canceled"},
		{"deadline", wrap(context.DeadlineExceeded), http.StatusGatewayTimeout, "deadline_exceeded"},
		{"grpc_status", InvalidArgument(), http.StatusBadRequest, "invalid_argument"},
		{"grpc_unavailable", status.Error(codes.Unavailable, "x"), http.StatusServiceUnavailable, "unavailable"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			gotStatus, resp := ToHTTP(tc.in)
			require.Equal(t, tc.wantStatus, gotStatus)
			require.Equal(t, tc.wantCode, resp.Error.Code)
			require.NotEmpty(t, resp.Error.Message)
		})
	}
}

func TestToHTTP_RejectedCarriesWarning(t *testing.T) {
	err := wrap(&service.RejectedError{Reason: "Не ругайтесь!"})

	gotStatus, resp := ToHTTP(err)
	require.Equal(t, http.StatusBadRequest, gotStatus)
	require.Equal(t, "rejected", resp.Error.Code)
	require.Equal(t, "Не ругайтесь!", resp.Error.Message)
	require.Equal(t, codes.InvalidArgument, Code(err))
}

func TestToHTTP_NilError_Returns500Internal(t *testing.T) {
	gotStatus, resp := ToHTTP(nil)
	require.Equal(t, http.StatusInternalServerError, gotStatus)
	require.Equal(t, "internal", resp.Error.Code)
	require.Equal(t, "internal error", resp.Error.Message)
	require.Equal(t, codes.OK, Code(nil))
}

func TestWriteError_RequestID(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/comments/x", nil)
	r.Header.Set("X-Request-Id", "rid-1")
	w := httptest.NewRecorder()

	WriteError(w, r, wrap(service.ErrNotFound))

	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "not_found", body.Error.Code)
	require.Equal(t, "rid-1", body.Error.RequestID)
}
