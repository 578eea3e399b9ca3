package conversations

import (
	"errors"
	"net/http"
)

// Domain errors for conversation operations.
var (
	ErrNotFound    = errors.New("conversation message not found")
	ErrDuplicate   = errors.New("conversation message already exists")
	ErrInvalidRole = errors.New("role must be user or assistant")
)

// MapHTTPStatus maps conversation domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidRole) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
