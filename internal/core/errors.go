package core

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the ledger services wraps exactly one of these,
// so callers can branch with errors.Is. A rejected call never modifies the store.
var (
	ErrValidation        = errors.New("validation error")
	ErrConflict          = errors.New("conflict")
	ErrLocked            = errors.New("locked")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNotFound          = errors.New("not found")
	ErrAlreadyPaid       = errors.New("already paid")
	ErrOverage           = errors.New("overage")
	ErrPersistence       = errors.New("persistence failure")
)

// ErrNoDocument is returned by a Persister when no ledger document has been saved yet.
var ErrNoDocument = errors.New("no ledger document")

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// OverageError signals a receipt larger than the order's remaining quantity.
// It is confirmable: repeating the receipt with AllowOverage set proceeds.
type OverageError struct {
	OrderID   string
	Requested int
	Remaining int
}

func (e *OverageError) Error() string {
	return fmt.Sprintf("overage: receiving %d against purchase order %s exceeds remaining %d", e.Requested, e.OrderID, e.Remaining)
}

func (e *OverageError) Is(target error) bool { return target == ErrOverage }

// InsufficientStockError reports a sale larger than the on-hand quantity.
type InsufficientStockError struct {
	Item      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: %s has %d on hand, %d requested", e.Item, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// PersistenceError wraps a failure from the Persister.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

func (e *PersistenceError) Unwrap() error { return e.Err }
