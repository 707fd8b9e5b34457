package cart

import (
	"context"
	"errors"
	"time"

	"github.com/example/unasp-marketplace/internal/infrastructure/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AppendTimeout bounds a single event append made from a listener callback.
const AppendTimeout = 5 * time.Second

// EventRecorder listens to a user's cart and appends every change to the
// event store, so downstream consumers can follow cart activity. Store
// failures are logged and never reach the cart.
type EventRecorder struct {
	eventStore store.EventStoreInterface
	cartID     string
	userID     string
	log        *zap.Logger
}

func NewEventRecorder(es store.EventStoreInterface, userID string, log *zap.Logger) *EventRecorder {
	if log == nil {
		log = zap.NewNop()
	}
	cartID := GetCartID(userID)
	return &EventRecorder{
		eventStore: es,
		cartID:     cartID,
		userID:     userID,
		log:        log.With(zap.String("cart_id", cartID)),
	}
}

// Attach registers the recorder for both kinds of notification on m.
func (r *EventRecorder) Attach(m *Manager) {
	m.AddListener(r)
	m.AddActionListener(r)
}

func (r *EventRecorder) OnCartUpdated(itemCount int, totalPrice decimal.Decimal) {
	r.append(EventCartUpdated, CartUpdated{
		CartID:     r.cartID,
		UserID:     r.userID,
		ItemCount:  itemCount,
		TotalPrice: totalPrice,
		UpdatedAt:  time.Now(),
	})
}

func (r *EventRecorder) OnItemsRemoved(removed []LineItem) {
	r.append(EventItemsRemoved, ItemsRemovedFromCart{
		CartID:    r.cartID,
		UserID:    r.userID,
		Items:     toEventItems(removed),
		RemovedAt: time.Now(),
	})
}

func (r *EventRecorder) OnCartCleared(removed []LineItem) {
	r.append(EventCartCleared, CartCleared{
		CartID:    r.cartID,
		UserID:    r.userID,
		Items:     toEventItems(removed),
		ClearedAt: time.Now(),
	})
}

func (r *EventRecorder) append(eventType string, data any) {
	ctx, cancel := context.WithTimeout(context.Background(), AppendTimeout)
	defer cancel()

	event, err := r.eventStore.Append(ctx, r.cartID, AggregateType, eventType, data)
	switch {
	case errors.Is(err, store.ErrNotPublished):
		r.log.Warn("cart event recorded but not published",
			zap.String("event_type", eventType),
			zap.Int("version", event.Version),
			zap.Error(err),
		)
		return
	case err != nil:
		r.log.Error("failed to record cart event", zap.String("event_type", eventType), zap.Error(err))
		return
	}
	r.log.Debug("recorded cart event", zap.String("event_type", eventType), zap.Int("version", event.Version))
}
