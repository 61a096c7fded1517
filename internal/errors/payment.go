package errors

var (
	ErrMerchantNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "MERCHANT_NOT_FOUND",
		Message: "merchant not found",
	}
	ErrTransactionNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "TRANSACTION_NOT_FOUND",
		Message: "transaction not found",
	}
	ErrInvalidAmount = &DomainError{
		Kind:    KindValidation,
		Code:    "INVALID_AMOUNT",
		Message: "amount must be greater than zero",
	}
	ErrInvalidMethod = &DomainError{
		Kind:    KindValidation,
		Code:    "INVALID_METHOD",
		Message: "unsupported payment method",
	}
	ErrInvalidEmail = &DomainError{
		Kind:    KindValidation,
		Code:    "INVALID_EMAIL",
		Message: "customer email is not valid",
	}
	ErrAlreadyProcessed = &DomainError{
		Kind:    KindInvalidState,
		Code:    "ALREADY_PROCESSED",
		Message: "this payment has already been processed",
	}
	ErrNotRefundable = &DomainError{
		Kind:    KindInvalidState,
		Code:    "NOT_REFUNDABLE",
		Message: "only successful transactions can be refunded",
	}
	ErrAlreadyRefunded = &DomainError{
		Kind:    KindInvalidState,
		Code:    "ALREADY_REFUNDED",
		Message: "transaction has already been refunded",
	}
	ErrRefundExceedsAmount = &DomainError{
		Kind:    KindValidation,
		Code:    "REFUND_EXCEEDS_AMOUNT",
		Message: "refund amount exceeds transaction amount",
	}
)
