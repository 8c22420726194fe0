package errors

import "errors"

type ErrorCode int

const (
	ErrInvalidInput ErrorCode = iota + 1
	ErrRateLimit
	ErrScanLimit
	ErrUnauthorized
	ErrNotFound
	ErrAIUnavailable
)

// ErrUnserializableProfile 用户画像无法序列化时由缓存层返回
var ErrUnserializableProfile = errors.New("profile contains unserializable values")

type APIError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// New 创建带错误码的API错误
func New(code ErrorCode, message string) *APIError {
	return &APIError{Code: code, Message: message}
}

// Wrap 包装底层错误
func Wrap(code ErrorCode, message string, err error) *APIError {
	return &APIError{Code: code, Message: message, Err: err}
}
