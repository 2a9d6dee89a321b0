package service

import (
	"errors"
	"fmt"

	"stockroom/internal/apierror"
)

// Sentinel errors shared across services. Handlers map these to HTTP statuses;
// anything else is treated as an internal error.
var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidCode       = errors.New("unknown product code")
	ErrItemReferenced    = errors.New("item is referenced by open requests")
)

// InsufficientStockError carries the per-line shortfall report for a rejected
// approval. errors.Is(err, ErrInsufficientStock) matches it.
type InsufficientStockError struct {
	Lines []apierror.ShortfallLine
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %d line(s)", len(e.Lines))
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
