package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/fooddiary/internal/common"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type errorMapping struct {
	target error
	status int
	code   string
}

// Order matters: more specific errors come before the generic ones they wrap.
var errorMappings = []errorMapping{
	{common.ErrorValidation, http.StatusBadRequest, "validation_error"},
	{common.ErrRefreshTokenExpired, http.StatusUnauthorized, "refresh_token_expired"},
	{common.ErrTokenExpired, http.StatusUnauthorized, "token_expired"},
	{common.ErrInvalidToken, http.StatusUnauthorized, "invalid_token"},
	{common.ErrorUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{common.ErrUserBlocked, http.StatusForbidden, "user_blocked"},
	{common.ErrEmailNotConfirmed, http.StatusForbidden, "email_not_confirmed"},
	{common.ErrorForbidden, http.StatusForbidden, "forbidden"},
	{common.ErrorNotFound, http.StatusNotFound, "not_found"},
	{common.ErrorAlreadyExists, http.StatusConflict, "already_exists"},
	{common.ErrAssetInUse, http.StatusConflict, "in_use"},
	{common.ErrQuotaExceeded, http.StatusTooManyRequests, "quota_exceeded"},
	{common.ErrAIKeyNotConfigured, http.StatusServiceUnavailable, "ai_not_configured"},
	{common.ErrExternalService, http.StatusBadGateway, "external_service_error"},
}

// statusFor maps an error returned by a service to an HTTP status and a
// stable error code.
func statusFor(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, "timeout"
	}
	return http.StatusInternalServerError, "internal_error"
}

// writeError sends err as an errorResponse. Internal errors are logged and
// their details are not exposed.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable && status != http.StatusBadGateway {
		s.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Error: code, Message: messageOf(msg)})
}

// messageOf capitalizes the first letter of a message.
func messageOf(msg string) string {
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
