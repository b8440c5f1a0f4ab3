package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"teamhub/internal/identity"
	"teamhub/internal/repository"
)

// Коды ошибок, которые видит клиент.
const (
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeDuplicateEmail     = "DUPLICATE_EMAIL"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeUnknownEmail       = "UNKNOWN_EMAIL"
	CodeNotFound           = "NOT_FOUND"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeTransportFailure   = "TRANSPORT_FAILURE"
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeCancelled          = "CANCELLED"
	CodeInternal           = "INTERNAL"
)

// AppError описывает прикладную ошибку сервиса:
// код для клиента, человекочитаемое сообщение, HTTP-статус и вложенная ошибка.
type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

// Error реализует интерфейс error для AppError.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap возвращает вложенную ошибку для поддержки errors.Is/As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// ErrValidation конструирует AppError для ошибок валидации входных данных.
func ErrValidation(msg string) *AppError {
	return &AppError{
		Code:    CodeValidationFailed,
		Message: msg,
		Status:  http.StatusBadRequest,
	}
}

// ErrNotFound конструирует AppError для ситуации, когда ресурс не найден.
func ErrNotFound(msg string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: msg,
		Status:  http.StatusNotFound,
	}
}

// ErrUnauthenticated конструирует AppError для операций, требующих активной сессии.
func ErrUnauthenticated(msg string) *AppError {
	return &AppError{
		Code:    CodeUnauthenticated,
		Message: msg,
		Status:  http.StatusUnauthorized,
	}
}

// ErrCancelled конструирует AppError для задачи, результат которой был отброшен.
func ErrCancelled(err error) *AppError {
	return &AppError{
		Code:    CodeCancelled,
		Message: "operation was cancelled or superseded",
		Status:  http.StatusRequestTimeout,
		Err:     err,
	}
}

// ErrDomain конструирует AppError для доменных ошибок аутентификации.
// HTTP-статус подбирается по коду.
func ErrDomain(code, msg string) *AppError {
	status := http.StatusConflict
	switch code {
	case CodeInvalidCredentials, CodeInvalidToken:
		status = http.StatusUnauthorized
	case CodeUserNotFound, CodeUnknownEmail:
		status = http.StatusNotFound
	}
	return &AppError{
		Code:    code,
		Message: msg,
		Status:  status,
	}
}

// IsNotFound помогает определить, соответствует ли ошибка HTTP-статусу 404.
func IsNotFound(err error) bool {
	var app *AppError
	if errors.As(err, &app) {
		return app.Status == http.StatusNotFound
	}
	return false
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// identityError переводит ошибки сервиса аутентификации в AppError.
// fallback используется как сообщение для неожиданных ошибок.
func identityError(err error, fallback string) *AppError {
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		return ErrDomain(CodeInvalidCredentials, err.Error())
	case errors.Is(err, identity.ErrDuplicateEmail):
		return ErrDomain(CodeDuplicateEmail, err.Error())
	case errors.Is(err, identity.ErrInvalidToken):
		return ErrDomain(CodeInvalidToken, err.Error())
	case errors.Is(err, identity.ErrUserNotFound):
		return ErrDomain(CodeUserNotFound, err.Error())
	case errors.Is(err, identity.ErrUnknownEmail):
		return ErrDomain(CodeUnknownEmail, err.Error())
	case isCancellation(err):
		return ErrCancelled(err)
	}
	return &AppError{
		Code:    CodeInternal,
		Message: fallback,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// recordError переводит ошибки Record API в AppError.
func recordError(err error, fallback string) *AppError {
	switch {
	case errors.Is(err, repository.ErrMemberNotFound):
		return ErrNotFound("Member not found")
	case isCancellation(err):
		return ErrCancelled(err)
	}
	return &AppError{
		Code:    CodeTransportFailure,
		Message: fallback,
		Status:  http.StatusBadGateway,
		Err:     err,
	}
}
