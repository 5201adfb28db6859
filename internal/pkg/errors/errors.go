package errors

import (
	stderrors "errors"
	"fmt"
)

type AppError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	StatusCode int                    `json:"-"`
	cause      error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap возвращает исходную ошибку, если она есть
func (e *AppError) Unwrap() error {
	return e.cause
}

// Is сравнивает ошибки по коду, поэтому копии sentinel-ошибок
// (WithDetails, WithCause) совпадают с оригиналом через errors.Is
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// WithDetails возвращает копию ошибки с деталями
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// WithCause возвращает копию ошибки с причиной
func (e *AppError) WithCause(err error) *AppError {
	cp := *e
	cp.cause = err
	return &cp
}

// WithMessage возвращает копию ошибки с другим сообщением
func (e *AppError) WithMessage(format string, args ...interface{}) *AppError {
	cp := *e
	cp.Message = fmt.Sprintf(format, args...)
	return &cp
}

// NewValidationError - ошибка валидации с перечнем отсутствующих полей
func NewValidationError(fields ...string) *AppError {
	return ErrValidation.
		WithMessage("Missing required fields: %v", fields).
		WithDetails(map[string]interface{}{"fields": fields})
}

// MissingFields возвращает поля из ValidationError или nil
func MissingFields(err error) []string {
	var appErr *AppError
	if !stderrors.As(err, &appErr) || appErr.Code != CodeValidation {
		return nil
	}
	fields, _ := appErr.Details["fields"].([]string)
	return fields
}

// As - обёртка над errors.As, чтобы не импортировать оба пакета errors
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
