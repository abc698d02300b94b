package models

import (
	"errors"
	"fmt"
	"strings"
)

// OrderStatus is stored lowercase; parsing is case-insensitive because the
// admin UI and the legacy data both mix cases freely.
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusProcessing     OrderStatus = "processing"
	StatusShipped        OrderStatus = "shipped"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCompleted      OrderStatus = "completed"
	StatusCancelled      OrderStatus = "cancelled"
	StatusReturned       OrderStatus = "returned"
	StatusRefunded       OrderStatus = "refunded"

	// Legacy payment-gateway statuses that still show up on old rows.
	StatusFailed   OrderStatus = "failed"
	StatusDeclined OrderStatus = "declined"
)

// happyPath is the fulfillment progression shown as steps on the customer
// timeline. Admins may still write any status directly; only cancellation
// is guarded (see lifecycle.Service.Cancel).
var happyPath = []OrderStatus{
	StatusPending,
	StatusProcessing,
	StatusShipped,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCompleted,
}

var validStatuses = map[OrderStatus]struct{}{
	StatusPending:        {},
	StatusProcessing:     {},
	StatusShipped:        {},
	StatusOutForDelivery: {},
	StatusDelivered:      {},
	StatusCompleted:      {},
	StatusCancelled:      {},
	StatusReturned:       {},
	StatusRefunded:       {},
	StatusFailed:         {},
	StatusDeclined:       {},
}

var ErrUnknownStatus = errors.New("unknown order status")

// ParseStatus normalizes and validates a status string.
func ParseStatus(s string) (OrderStatus, error) {
	st := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := validStatuses[st]; !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownStatus, s)
	}
	return st, nil
}

// IsFailureClass reports whether the status renders as a failure on the
// customer-facing timeline instead of a progress step.
func (s OrderStatus) IsFailureClass() bool {
	switch s {
	case StatusCancelled, StatusReturned, StatusRefunded, StatusFailed, StatusDeclined:
		return true
	}
	return false
}

// HappyPathIndex returns the position of the status on the fulfillment
// timeline, or -1 for failure-class statuses.
func (s OrderStatus) HappyPathIndex() int {
	for i, st := range happyPath {
		if st == s {
			return i
		}
	}
	return -1
}

// Cancellable reports whether an order in this status may still be
// cancelled. This mirrors the predicate of the guarded update; it exists
// for display purposes only and must never replace the storage-level guard.
func (s OrderStatus) Cancellable() bool {
	return s == StatusPending || s == StatusProcessing
}
