package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/aquaring-yukisyo/aqua-cms/pkg/aquacms"
	"github.com/aquaring-yukisyo/aqua-cms/pkg/aquacms/auth"
)

// ErrorResponse is the JSON body for failed requests
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain errors to HTTP statuses. Unknown errors collapse
// to a generic 500 so internal detail does not leak to clients.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := errorStatus(err)

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: msg})
}

func errorStatus(err error) (int, string) {
	var validationErr *aquacms.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, validationErr.Error()
	}

	var rebuildErr *aquacms.RebuildError
	if errors.As(err, &rebuildErr) {
		return http.StatusInternalServerError, "rebuild failed"
	}

	var storageErr *aquacms.StorageError
	if errors.As(err, &storageErr) {
		return http.StatusBadGateway, "storage operation failed"
	}

	switch {
	case errors.Is(err, aquacms.ErrContentNotFound):
		return http.StatusNotFound, "content not found"
	case errors.Is(err, aquacms.ErrInvalidContentType):
		return http.StatusBadRequest, "invalid content type"
	case errors.Is(err, aquacms.ErrInvalidStatus):
		return http.StatusBadRequest, "invalid status"
	case errors.Is(err, aquacms.ErrStorageBackendNotFound):
		return http.StatusBadRequest, "unknown storage backend"
	case errors.Is(err, auth.ErrUserExists):
		return http.StatusConflict, "user already exists"
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrWrongCredentials):
		// Same status and message for both: sign-in must not reveal
		// whether the account exists.
		return http.StatusUnauthorized, "wrong credentials"
	case errors.Is(err, auth.ErrUserNotConfirmed):
		return http.StatusForbidden, "user not confirmed"
	case errors.Is(err, auth.ErrInvalidConfirmationCode):
		return http.StatusBadRequest, "invalid confirmation code"
	case errors.Is(err, auth.ErrNoSession):
		return http.StatusUnauthorized, "authentication required"
	}

	return http.StatusInternalServerError, "internal server error"
}
