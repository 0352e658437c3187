package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of a checkout.
type OrderStatus string

// OrderStatusPending is the only status the checkout stub produces. No
// payment is ever taken.
const OrderStatusPending OrderStatus = "pending"

// Order is an immutable snapshot of a cart taken at checkout.
type Order struct {
	ID            string
	SessionID     string
	Lines         []CartLine
	TotalQuantity int
	TotalAmount   decimal.Decimal
	Status        OrderStatus
	CreatedAt     time.Time
}

// NewOrder snapshots cart into a pending order. An empty cart cannot be
// checked out.
func NewOrder(id, sessionID string, cart *Cart, now time.Time) (*Order, error) {
	if cart == nil || cart.IsEmpty() {
		return nil, NewConflictError("cart", "cart is empty")
	}

	return &Order{
		ID:            id,
		SessionID:     sessionID,
		Lines:         cart.Lines(),
		TotalQuantity: cart.TotalQuantity(),
		TotalAmount:   cart.TotalAmount(),
		Status:        OrderStatusPending,
		CreatedAt:     now,
	}, nil
}

// Verify recomputes the totals from the snapshot lines and fails when they
// disagree with the recorded totals.
func (o *Order) Verify() error {
	qty := 0
	amount := decimal.Zero

	for _, l := range o.Lines {
		if l.Quantity < 1 {
			return NewValidationErrorWithValue("quantity", "must be at least 1", l.Quantity)
		}
		qty += l.Quantity
		amount = amount.Add(l.Subtotal())
	}

	if qty != o.TotalQuantity {
		return NewConflictError("order", "total quantity mismatch")
	}

	if !amount.Equal(o.TotalAmount) {
		return NewConflictError("order", "total amount mismatch")
	}

	return nil
}
