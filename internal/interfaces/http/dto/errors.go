package dto

import (
	"net/http"

	"github.com/palindromepay/PalindromeFox/internal/domain/shared"
)

// Transport-level error codes for failures that never reach the domain
const (
	ErrCodeBadRequest  = "BAD_REQUEST"
	ErrCodeInvalidJSON = "INVALID_JSON"
	ErrCodeInternal    = "INTERNAL_ERROR"
)

// errorCodeHTTPStatus maps error codes to HTTP status codes. Domain
// refusals (cap, empty cart, missing identity) are unprocessable rather
// than malformed; transient backend failures map to gateway statuses so
// the caller knows a retry can help.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,
	ErrCodeInternal:    http.StatusInternalServerError,

	shared.CodeValidation:       http.StatusBadRequest,
	shared.CodeCapExceeded:      http.StatusUnprocessableEntity,
	shared.CodeEmptyCart:        http.StatusUnprocessableEntity,
	shared.CodeIdentityRequired: http.StatusUnprocessableEntity,
	shared.CodeNotFound:         http.StatusNotFound,
	shared.CodeStorage:          http.StatusInternalServerError,
	shared.CodeMessagingTimeout: http.StatusGatewayTimeout,
	shared.CodeExternalService:  http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status for an error code
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
