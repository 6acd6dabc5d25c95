package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrProductUnavailable = errors.New("product not found or inactive")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrStockConflict      = errors.New("stock conflict")
	ErrNotFound           = errors.New("not found")
	ErrValidationFailed   = errors.New("validation failed")
	ErrPersistenceFailed  = errors.New("persistence failed")
	ErrCartAdjusted       = errors.New("cart adjusted")
)

// StockConflictError names the products that could not be reserved during checkout.
type StockConflictError struct {
	ProductIDs []uuid.UUID
}

func (e *StockConflictError) Error() string {
	ids := make([]string, 0, len(e.ProductIDs))
	for _, id := range e.ProductIDs {
		ids = append(ids, id.String())
	}
	return fmt.Sprintf("stock conflict for products: %s", strings.Join(ids, ", "))
}

func (e *StockConflictError) Is(target error) bool {
	return target == ErrStockConflict
}

// CartAdjustedError carries the notices produced by re-validating a cart right before checkout.
type CartAdjustedError struct {
	Notices []Notice
}

func (e *CartAdjustedError) Error() string {
	msgs := make([]string, 0, len(e.Notices))
	for _, n := range e.Notices {
		msgs = append(msgs, n.Message)
	}
	return "cart adjusted: " + strings.Join(msgs, " ")
}

func (e *CartAdjustedError) Is(target error) bool {
	return target == ErrCartAdjusted
}

// Validationf returns an error matching ErrValidationFailed with a human-readable message.
func Validationf(format string, args ...any) error {
	return &kindError{kind: ErrValidationFailed, msg: fmt.Sprintf(format, args...)}
}

// Unavailablef returns an error matching ErrProductUnavailable.
func Unavailablef(format string, args ...any) error {
	return &kindError{kind: ErrProductUnavailable, msg: fmt.Sprintf(format, args...)}
}

// InsufficientStockf returns an error matching ErrInsufficientStock.
func InsufficientStockf(format string, args ...any) error {
	return &kindError{kind: ErrInsufficientStock, msg: fmt.Sprintf(format, args...)}
}

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Is(target error) bool { return target == e.kind }

// IsKnown reports whether err belongs to the domain error taxonomy.
func IsKnown(err error) bool {
	for _, kind := range []error{
		ErrProductUnavailable,
		ErrInsufficientStock,
		ErrStockConflict,
		ErrNotFound,
		ErrValidationFailed,
		ErrPersistenceFailed,
		ErrCartAdjusted,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// Message returns the human-readable text of a domain error without the call-site prefixes
// added while it propagated.
func Message(err error) string {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.msg
	}
	return err.Error()
}
