package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/safedrive/safedrive/internal/common"
)

// errorBody is the envelope every failed request carries:
//
//	{"error": {"code": "RESOURCE_NOT_FOUND", "message": "not found"}}
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, r, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}

// writeServiceError maps service-layer sentinel errors onto HTTP statuses and
// stable error codes. Anything unmapped is reported as a generic internal
// error so internals never leak to clients.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorNoIdentity):
		writeError(w, r, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
	case errors.Is(err, common.ErrorUnauthorized):
		writeError(w, r, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
	case errors.Is(err, common.ErrorAccessDenied):
		writeError(w, r, http.StatusForbidden, "FORBIDDEN", "access denied")
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, r, http.StatusNotFound, "RESOURCE_NOT_FOUND", "resource not found")
	case errors.Is(err, common.ErrorDuplicateSecret):
		writeError(w, r, http.StatusConflict, "DUPLICATE_CREDENTIAL", "a credential for this service already exists")
	case errors.Is(err, common.ErrorAlreadyExists):
		writeError(w, r, http.StatusConflict, "USER_ALREADY_EXISTS", "a user with this email already exists")
	case errors.Is(err, common.ErrorIncorrectInput):
		writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
	}
}
