package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes shared across the cart and checkout domains.
// Storage and messaging failures are transient; the rest are terminal.
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeCapExceeded      = "CAP_EXCEEDED"
	CodeStorage          = "STORAGE_ERROR"
	CodeMessagingTimeout = "MESSAGING_TIMEOUT"
	CodeExternalService  = "EXTERNAL_SERVICE_ERROR"
	CodeEmptyCart        = "EMPTY_CART"
	CodeIdentityRequired = "IDENTITY_REQUIRED"
	CodeNotFound         = "NOT_FOUND"
)

// Common domain errors
var (
	ErrNotFound         = NewDomainError(CodeNotFound, "Resource not found")
	ErrEmptyCart        = NewDomainError(CodeEmptyCart, "Cart is empty")
	ErrIdentityRequired = NewDomainError(CodeIdentityRequired, "Delivery email and recipient name must be saved before checkout")
)

// IsRetryable reports whether an error code identifies a transient failure
// that the calling layer may retry with backoff.
func IsRetryable(code string) bool {
	return code == CodeStorage || code == CodeMessagingTimeout
}

// CodeOf extracts the domain error code from err, or empty string if err is
// not a DomainError.
func CodeOf(err error) string {
	if de, ok := err.(*DomainError); ok {
		return de.Code
	}
	return ""
}
