package models

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrAlreadyProcessed = errors.New("order has already been processed")
	ErrInvalidCode      = errors.New("invalid payment code")
	ErrGameNotFound     = errors.New("game not found")
	ErrOrderNotFound    = errors.New("order not found")
)

// OutOfStockError rejects a cart addition whose requested quantity is
// not covered by the game's current stock.
type OutOfStockError struct {
	GameID    uint
	Title     string
	Available int
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("not enough stock for %q: %d available", e.Title, e.Available)
}

// InsufficientStockError aborts a checkout whose stock re-check failed.
// The whole checkout transaction rolls back when this is returned.
type InsufficientStockError struct {
	GameID    uint
	Title     string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: %d available", e.Title, e.Available)
}
