package storage

import (
	"errors"
	"fmt"
)

const (
	UniqueViolation     = "23505"
	ForeignKeyViolation = "23503"
)

var (
	ErrProductsNotFound      = errors.New("product not found")
	ErrVariantsNotFound      = errors.New("variant not found")
	ErrOrdersNotFound        = errors.New("order not found")
	ErrNotificationsNotFound = errors.New("notification not found")
	ErrSnapshotNotFound      = errors.New("dashboard snapshot not cached")

	ErrDuplicateProductURL = errors.New("this product url is already tracked")

	// ErrTerminalStatus is returned when a status update targets an order
	// already in delivered or cancelled state.
	ErrTerminalStatus = errors.New("order status cannot leave a terminal state")
)

// PersistenceError marks a failure of the price-observation transaction.
// The history append and the notification insert are one unit; callers see
// this error kind and retry (or drop) the whole observation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
