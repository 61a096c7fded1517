package errors

var (
	ErrDisputeNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "DISPUTE_NOT_FOUND",
		Message: "dispute not found",
	}
	ErrDisputeExists = &DomainError{
		Kind:    KindConflict,
		Code:    "DISPUTE_EXISTS",
		Message: "transaction already has a dispute",
	}
	ErrDisputeNotDisputable = &DomainError{
		Kind:    KindInvalidState,
		Code:    "DISPUTE_NOT_DISPUTABLE",
		Message: "only successful transactions can be disputed",
	}
	ErrDisputeClosed = &DomainError{
		Kind:    KindInvalidState,
		Code:    "DISPUTE_CLOSED",
		Message: "dispute is no longer open for responses",
	}
	ErrDisputeResolved = &DomainError{
		Kind:    KindConflict,
		Code:    "DISPUTE_RESOLVED",
		Message: "dispute already resolved",
	}
	ErrInvalidDecision = &DomainError{
		Kind:    KindValidation,
		Code:    "INVALID_DECISION",
		Message: "decision must be 'merchant' or 'customer'",
	}
	ErrInvalidDisputeReason = &DomainError{
		Kind:    KindValidation,
		Code:    "INVALID_DISPUTE_REASON",
		Message: "unknown dispute reason",
	}
	ErrMissingResponse = &DomainError{
		Kind:    KindValidation,
		Code:    "MISSING_RESPONSE",
		Message: "merchant response is required",
	}
)
