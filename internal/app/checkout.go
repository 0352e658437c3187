package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen/storefront/internal/domain"
	"github.com/jsamuelsen/storefront/internal/ports"
)

// EventCheckoutRequested is published for every accepted checkout.
const EventCheckoutRequested = "checkout.requested"

// CheckoutRequested is the event carrying an order snapshot.
type CheckoutRequested struct {
	Order *domain.Order
}

// EventType implements ports.Event.
func (CheckoutRequested) EventType() string { return EventCheckoutRequested }

// Payload implements ports.Event. Session ids stay out of the payload.
func (e CheckoutRequested) Payload() any {
	lines := make([]map[string]any, 0, len(e.Order.Lines))
	for _, l := range e.Order.Lines {
		lines = append(lines, map[string]any{
			"product_id": l.Product.ID,
			"quantity":   l.Quantity,
			"subtotal":   l.Subtotal().StringFixed(2),
		})
	}

	return map[string]any{
		"order_id":       e.Order.ID,
		"status":         string(e.Order.Status),
		"total_quantity": e.Order.TotalQuantity,
		"total_amount":   e.Order.TotalAmount.StringFixed(2),
		"lines":          lines,
		"created_at":     e.Order.CreatedAt.Format(time.RFC3339),
	}
}

// CheckoutServiceConfig holds optional settings of the checkout service.
type CheckoutServiceConfig struct {
	Metrics *Metrics
	Logger  *slog.Logger
	Now     func() time.Time
	NewID   func() string
}

// CheckoutService is the checkout stub. It snapshots the session cart into
// a pending order and publishes it; no payment is taken and the cart is
// left as is.
type CheckoutService struct {
	sessions  ports.SessionStore
	publisher ports.EventPublisher
	flags     ports.FeatureFlags
	exec      *Executor
	metrics   *Metrics
	now       func() time.Time
	newID     func() string
}

// NewCheckoutService creates the checkout service.
func NewCheckoutService(
	sessions ports.SessionStore,
	publisher ports.EventPublisher,
	flags ports.FeatureFlags,
	cfg *CheckoutServiceConfig,
) *CheckoutService {
	if cfg == nil {
		cfg = &CheckoutServiceConfig{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	metrics := cfg.Metrics
	if metrics == nil {
		metrics = nopMetrics()
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	newID := cfg.NewID
	if newID == nil {
		newID = uuid.NewString
	}

	return &CheckoutService{
		sessions:  sessions,
		publisher: publisher,
		flags:     flags,
		exec:      NewExecutor(logger.With(slog.String("component", "app.CheckoutService"))),
		metrics:   metrics,
		now:       now,
		newID:     newID,
	}
}

// Checkout places a pending order for the session cart. An empty cart is a
// conflict.
func (s *CheckoutService) Checkout(ctx context.Context, sessionID string) (*domain.Order, error) {
	op := Operation[*domain.Session, *domain.Order, *domain.Order, *domain.Order]{
		Name: "checkout",
		Validate: func(ctx context.Context, sess *domain.Session) error {
			if s.flags != nil && !s.flags.IsEnabled(ctx, ports.FlagCheckoutEnabled, true) {
				return domain.NewUnavailableError("checkout", "checkout is disabled")
			}
			if sess.Cart.IsEmpty() {
				return domain.NewConflictError("cart", "cart is empty")
			}

			return nil
		},
		Perform: func(_ context.Context, sess *domain.Session) (*domain.Order, error) {
			return domain.NewOrder(s.newID(), sess.ID, sess.Cart, s.now())
		},
		Verify: func(_ context.Context, _ *domain.Session, order *domain.Order) (*domain.Order, error) {
			if err := order.Verify(); err != nil {
				return nil, err
			}

			return order, nil
		},
		Archive: func(ctx context.Context, _ *domain.Session, order *domain.Order) error {
			return s.publisher.Publish(ctx, CheckoutRequested{Order: order})
		},
		Respond: func(_ context.Context, _ *domain.Session, order *domain.Order) (*domain.Order, error) {
			return order, nil
		},
	}

	var order *domain.Order

	err := s.sessions.With(ctx, sessionID, func(sess *domain.Session) error {
		var err error
		order, err = Execute(ctx, s.exec, op, sess)

		return err
	})
	if err != nil {
		s.metrics.Checkouts.WithLabelValues("rejected").Inc()
		return nil, err
	}

	s.metrics.Checkouts.WithLabelValues("accepted").Inc()

	return order, nil
}
