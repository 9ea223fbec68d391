package dto

import "net/http"

// Transport-level error codes
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeInvalidJSON  = "INVALID_JSON"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// domainErrorHTTPStatus maps domain error codes to HTTP status codes.
// State machine violations map to 422; everything the caller could have
// known up front maps to 400.
var domainErrorHTTPStatus = map[string]int{
	"VALIDATION_ERROR":     http.StatusBadRequest,
	"BAD_REQUEST":          http.StatusBadRequest,
	"INVALID_INPUT":        http.StatusBadRequest,
	"INVALID_JSON":         http.StatusBadRequest,
	"INVALID_CREDENTIALS":  http.StatusUnauthorized,
	"UNAUTHORIZED":         http.StatusUnauthorized,
	"ACCOUNT_DEACTIVATED":  http.StatusForbidden,
	"FORBIDDEN":            http.StatusForbidden,
	"NOT_FOUND":            http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"INVALID_TRANSITION":   http.StatusUnprocessableEntity,
	"INVALID_STATE":        http.StatusUnprocessableEntity,
	"INTERNAL_ERROR":       http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for a domain error code, defaulting
// to 500 for codes with no mapping
func GetHTTPStatus(code string) int {
	if status, ok := domainErrorHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
