package studio

import (
	"errors"
	"fmt"
)

// Domain-level error values returned by the booking service.
var (
	ErrClassNotFound        = errors.New("class not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrClientNotFound       = errors.New("pro client not found")
	ErrInvoiceNotFound      = errors.New("b2b invoice not found")
	ErrAlreadyBooked        = errors.New("already booked")
	ErrClassFull            = errors.New("class full")
	ErrInsufficientCredit   = errors.New("insufficient credit")
	ErrCreditPaymentFinal   = errors.New("credit payment is final")
	ErrProfileIncomplete    = errors.New("profile incomplete")
	ErrClassNotEmpty        = errors.New("class has attendees")
	ErrQuoteFinalized       = errors.New("quote already finalized")
	ErrTransactionConflict  = errors.New("transaction conflict")
	ErrInvalidUserID        = errors.New("invalid user id")
	ErrInvalidClassID       = errors.New("invalid class id")
	ErrInvalidBookingID     = errors.New("invalid booking id")
	ErrInvalidClientID      = errors.New("invalid client id")
	ErrInvalidInvoiceID     = errors.New("invalid invoice id")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	ErrInvalidRole          = errors.New("invalid role")
	ErrInvalidB2BStatus     = errors.New("invalid b2b status")
	ErrInvalidClassSession  = errors.New("invalid class session")
	ErrInvalidProClient     = errors.New("invalid pro client")
	ErrInvalidCreditDelta   = errors.New("invalid credit delta")
	ErrInvalidServiceConfig = errors.New("invalid service config")
)

// OperationError wraps a failure with a stable operation code.
type OperationError struct {
	operation string
	subject   string
	code      string
	err       error
}

// Error returns the formatted error message.
func (operationError OperationError) Error() string {
	return fmt.Sprintf("%s.%s.%s: %v", operationError.operation, operationError.subject, operationError.code, operationError.err)
}

// Unwrap returns the underlying error.
func (operationError OperationError) Unwrap() error {
	return operationError.err
}

// Operation returns the operation segment.
func (operationError OperationError) Operation() string {
	return operationError.operation
}

// Subject returns the subject segment.
func (operationError OperationError) Subject() string {
	return operationError.subject
}

// Code returns the stable error code segment.
func (operationError OperationError) Code() string {
	return operationError.code
}

// WrapError wraps an error with operation, subject, and code metadata.
func WrapError(operation string, subject string, code string, err error) error {
	if err == nil {
		return nil
	}
	return OperationError{
		operation: operation,
		subject:   subject,
		code:      code,
		err:       err,
	}
}
