package errors

import "fmt"

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// AppError carries the machine-readable classification of a handler
// failure plus the message shown to the end user.
type AppError struct {
	Code        string
	Message     string
	UserMessage string
	Severity    Severity
	Retryable   bool
	cause       error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

func (e *AppError) Cause() error {
	return e.Unwrap()
}

// NewInsufficientCreditError reports an attempted credit-gated action with
// an empty balance. Nothing is mutated when it is returned.
func NewInsufficientCreditError(balance int64) *AppError {
	return &AppError{
		Code:        "E101",
		Message:     fmt.Sprintf("insufficient credit: balance %d", balance),
		UserMessage: "❌ امتیاز کافی ندارید.",
		Severity:    SeverityLow,
		Retryable:   false,
		cause:       nil,
	}
}

// NewMediaFetchError wraps a failure of the media transfer collaborator.
func NewMediaFetchError(cause error) *AppError {
	var underlyingMsg string
	if cause != nil {
		underlyingMsg = cause.Error()
	}

	return &AppError{
		Code:        "E301",
		Message:     fmt.Sprintf("media fetch failed: %s", underlyingMsg),
		UserMessage: "❌ دریافت فایل صوتی ممکن نشد. دوباره تلاش کنید.",
		Severity:    SeverityMedium,
		Retryable:   true,
		cause:       cause,
	}
}

// NewTranslationUnavailableError wraps a failed external translation call.
func NewTranslationUnavailableError(cause error) *AppError {
	return &AppError{
		Code:        "E302",
		Message:     "translation service unavailable",
		UserMessage: "❌ خطا در ترجمه.",
		Severity:    SeverityMedium,
		Retryable:   true,
		cause:       cause,
	}
}

// NewDatabaseError wraps a ledger storage failure.
func NewDatabaseError(cause error) *AppError {
	var underlyingMsg string
	if cause != nil {
		underlyingMsg = cause.Error()
	}

	return &AppError{
		Code:        "E200",
		Message:     fmt.Sprintf("database error: %s", underlyingMsg),
		UserMessage: "مشکل موقتی پیش آمده، بعداً تلاش کنید.",
		Severity:    SeverityHigh,
		Retryable:   true,
		cause:       cause,
	}
}

// NewValidationError reports malformed command input.
func NewValidationError(msg string) *AppError {
	return &AppError{
		Code:        "E100",
		Message:     msg,
		UserMessage: "فرمت دستور نادرست است.",
		Severity:    SeverityLow,
		Retryable:   false,
		cause:       nil,
	}
}
