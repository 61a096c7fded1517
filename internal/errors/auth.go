package errors

var (
	ErrInvalidCredentials = &DomainError{
		Kind:    KindAuth,
		Code:    "INVALID_CREDENTIALS",
		Message: "invalid email or password",
	}
	ErrInvalidAPIKey = &DomainError{
		Kind:    KindAuth,
		Code:    "INVALID_API_KEY",
		Message: "invalid API key",
	}
	ErrEmailTaken = &DomainError{
		Kind:    KindConflict,
		Code:    "EMAIL_TAKEN",
		Message: "a merchant with this email already exists",
	}
	ErrWebhookNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "WEBHOOK_NOT_FOUND",
		Message: "webhook not found",
	}
	ErrInvalidWebhookURL = &DomainError{
		Kind:    KindValidation,
		Code:    "INVALID_WEBHOOK_URL",
		Message: "webhook URL is not valid",
	}
	ErrInvalidWebhookEvent = &DomainError{
		Kind:    KindValidation,
		Code:    "INVALID_WEBHOOK_EVENT",
		Message: "unknown webhook event",
	}
)
