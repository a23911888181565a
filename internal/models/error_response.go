package models

import (
	"errors"
	"net/http"
)

// ErrorKind - класс ошибки.
type ErrorKind string

const (
	InvalidArgument ErrorKind = "InvalidArgument" // Некорректный запрос страницы
	StorageFailure  ErrorKind = "StorageFailure"  // Ошибка хранилища
)

// ErrorResponse описывает ошибку с кодом и сообщением.
type ErrorResponse struct {
	StatusCode int       `json:"-"`
	Kind       ErrorKind `json:"-"`
	Message    string    `json:"reason"`
	Err        error     `json:"-"`
}

// NewErrorResponse создает новую ошибку с кодом и сообщением.
func NewErrorResponse(statusCode int, message string) *ErrorResponse {
	return &ErrorResponse{
		StatusCode: statusCode,
		Message:    message}
}

// NewInvalidArgument создает ошибку некорректного аргумента.
func NewInvalidArgument(message string) *ErrorResponse {
	return &ErrorResponse{
		StatusCode: http.StatusBadRequest,
		Kind:       InvalidArgument,
		Message:    message,
	}
}

// NewStorageFailure оборачивает ошибку хранилища.
func NewStorageFailure(message string, err error) *ErrorResponse {
	return &ErrorResponse{
		StatusCode: http.StatusInternalServerError,
		Kind:       StorageFailure,
		Message:    message,
		Err:        err,
	}
}

// Реализация метода Error() для удовлетворения интерфейса error.
func (e *ErrorResponse) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ErrorResponse) Unwrap() error {
	return e.Err
}

// IsInvalidArgument проверяет, что ошибка - некорректный аргумент.
func IsInvalidArgument(err error) bool {
	var e *ErrorResponse
	return errors.As(err, &e) && e.Kind == InvalidArgument
}
