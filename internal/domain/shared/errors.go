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

// Common domain errors
var (
	ErrNotFound           = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists      = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput       = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState       = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrDataIntegrity      = NewDomainError("DATA_INTEGRITY_VIOLATION", "Stored data violates a domain invariant")
	ErrAllocationConflict = NewDomainError("ALLOCATION_CONFLICT", "Invoice number allocation failed after retries")
)

// AsDomainError returns the DomainError if err is one, nil otherwise
func AsDomainError(err error) *DomainError {
	if de, ok := err.(*DomainError); ok {
		return de
	}
	return nil
}

// HasCode reports whether err is a DomainError with the given code
func HasCode(err error, code string) bool {
	de := AsDomainError(err)
	return de != nil && de.Code == code
}
