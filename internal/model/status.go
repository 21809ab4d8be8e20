package model

import "fmt"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

// Order status constants.
const (
	StatusDraft      OrderStatus = "DRAFT"
	StatusNew        OrderStatus = "NEW"
	StatusInProgress OrderStatus = "IN_PROGRESS"
	StatusCompleted  OrderStatus = "COMPLETED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// allowedTransitions is the full transition table. Anything not listed is
// rejected.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	StatusDraft:      {StatusNew, StatusCancelled},
	StatusNew:        {StatusInProgress, StatusCompleted, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// TransitionError reports a disallowed status transition, naming the pair.
type TransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("order status transition %s -> %s is not allowed", e.From, e.To)
}

// Transition validates a status change against the transition table. The
// returned warning is non-empty for allowed-but-unusual transitions
// (skipping IN_PROGRESS).
func Transition(from, to OrderStatus) (warning string, err error) {
	for _, next := range allowedTransitions[from] {
		if next == to {
			if from == StatusNew && to == StatusCompleted {
				return "order completed directly from NEW, skipping IN_PROGRESS", nil
			}
			return "", nil
		}
	}
	return "", &TransitionError{From: from, To: to}
}

// IsTerminal reports whether no further transitions are possible.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanEdit reports whether order data may still be modified.
func (s OrderStatus) CanEdit() bool {
	return s == StatusDraft || s == StatusNew
}

// CanCancel reports whether the order may still be cancelled.
func (s OrderStatus) CanCancel() bool {
	return s == StatusDraft || s == StatusNew || s == StatusInProgress
}

// CanDeliver reports whether the order may be handed to the client. Delivery
// additionally requires a settled balance, checked by the caller.
func (o *Order) CanDeliver() bool {
	return o.Status == StatusCompleted && o.BalanceAmount.Sign() <= 0
}
