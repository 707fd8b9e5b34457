package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/unasp-marketplace/internal/domain/cart"
	"github.com/example/unasp-marketplace/internal/infrastructure/store"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Handler follows cart events from Kafka and logs buyer activity. Every log
// line is built from the event alone, so the handler keeps no per-cart state.
type Handler struct {
	log *zap.Logger
}

func NewHandler(log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{log: log}
}

// HandleEvent processes an event from Kafka. Events of other aggregates are ignored.
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var event store.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if event.AggregateType != cart.AggregateType {
		return nil
	}

	switch event.EventType {
	case cart.EventCartUpdated:
		var e cart.CartUpdated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return fmt.Errorf("failed to unmarshal %s: %w", event.EventType, err)
		}
		h.handleCartUpdated(event, e)
	case cart.EventItemsRemoved:
		var e cart.ItemsRemovedFromCart
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return fmt.Errorf("failed to unmarshal %s: %w", event.EventType, err)
		}
		h.handleItemsRemoved(event, e)
	case cart.EventCartCleared:
		var e cart.CartCleared
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return fmt.Errorf("failed to unmarshal %s: %w", event.EventType, err)
		}
		h.handleCartCleared(event, e)
	}
	return nil
}

func (h *Handler) handleCartUpdated(event store.Event, e cart.CartUpdated) {
	h.log.Debug("cart updated",
		zap.String("cart_id", e.CartID),
		zap.String("user_id", e.UserID),
		zap.Int("version", event.Version),
		zap.Int("item_count", e.ItemCount),
		zap.String("total_price", e.TotalPrice.StringFixed(2)),
	)
}

func (h *Handler) handleItemsRemoved(event store.Event, e cart.ItemsRemovedFromCart) {
	for _, item := range e.Items {
		h.log.Info("item removed from cart",
			zap.String("cart_id", e.CartID),
			zap.String("user_id", e.UserID),
			zap.Int("version", event.Version),
			zap.String("product_id", item.ProductID),
			zap.Int("quantity", item.Quantity),
			zap.String("value", lineValue(item).StringFixed(2)),
		)
	}
}

func (h *Handler) handleCartCleared(event store.Event, e cart.CartCleared) {
	units := 0
	value := decimal.Zero
	for _, item := range e.Items {
		units += item.Quantity
		value = value.Add(lineValue(item))
	}

	h.log.Info("cart cleared",
		zap.String("cart_id", e.CartID),
		zap.String("user_id", e.UserID),
		zap.Int("version", event.Version),
		zap.Int("lines", len(e.Items)),
		zap.Int("units", units),
		zap.String("value", value.StringFixed(2)),
	)
}

func lineValue(item cart.EventItem) decimal.Decimal {
	return item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
}
