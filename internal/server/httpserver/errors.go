package httpserver

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/fanbox/internal/common"
)

// statusFor maps a service error to a status code and a client-safe message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrValidationFailed):
		return http.StatusBadRequest, common.ErrValidationFailed.Error()
	case errors.Is(err, common.ErrEmailInUse):
		return http.StatusConflict, "Email is already in use."
	case errors.Is(err, common.ErrConflict):
		return http.StatusConflict, "Email or username is already in use."
	case errors.Is(err, common.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, common.ErrPasswordIncorrect):
		return http.StatusUnauthorized, "Password incorrect"
	case errors.Is(err, common.ErrNoToken):
		return http.StatusUnauthorized, "No token provided."
	case errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, "invalid token"
	case errors.Is(err, common.ErrUnknownSubject):
		return http.StatusUnauthorized, "unknown user"
	case errors.Is(err, common.ErrCanceled):
		return http.StatusServiceUnavailable, "request canceled"
	case errors.Is(err, common.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "service unavailable"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func (s *HTTPServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := statusFor(err)
	if code == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, code, errorResponse{Error: msg})
}
