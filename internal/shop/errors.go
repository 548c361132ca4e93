package shop

import "fmt"

type StatusCode int

const (
	StatusInvalidArgument StatusCode = iota
	StatusNotFound
)

// Error message constants for the cart and order domain.
const (
	ErrMsgNameRequired   = "Product name is required"
	ErrMsgPriceNegative  = "Price cannot be negative"
	ErrMsgIndexRange     = "Cart position out of range"
	ErrMsgOrderNotFound  = "Order not found"
	ErrMsgOrderIDMissing = "Order ID is required"
)

func (s StatusCode) String() string {
	switch s {
	case StatusInvalidArgument:
		return "INVALID_ARGUMENT"
	case StatusNotFound:
		return "NOT_FOUND"
	default:
		return "UNKNOWN"
	}
}

type CommandError struct {
	Code    StatusCode
	Message string
}

func (e *CommandError) Error() string {
	return e.Message
}

func NewInvalidArgument(message string) *CommandError {
	return &CommandError{Code: StatusInvalidArgument, Message: message}
}

func NewInvalidArgumentf(format string, args ...interface{}) *CommandError {
	return &CommandError{Code: StatusInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func NewNotFound(message string) *CommandError {
	return &CommandError{Code: StatusNotFound, Message: message}
}
