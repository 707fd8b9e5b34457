package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

const AggregateType = "Cart"

const (
	EventCartUpdated  = "CartUpdated"
	EventItemsRemoved = "ItemsRemovedFromCart"
	EventCartCleared  = "CartCleared"
)

// GetCartID returns the cart ID for a user
func GetCartID(userID string) string {
	return "cart-" + userID
}

type EventItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type CartUpdated struct {
	CartID     string          `json:"cart_id"`
	UserID     string          `json:"user_id"`
	ItemCount  int             `json:"item_count"`
	TotalPrice decimal.Decimal `json:"total_price"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type ItemsRemovedFromCart struct {
	CartID    string      `json:"cart_id"`
	UserID    string      `json:"user_id"`
	Items     []EventItem `json:"items"`
	RemovedAt time.Time   `json:"removed_at"`
}

type CartCleared struct {
	CartID    string      `json:"cart_id"`
	UserID    string      `json:"user_id"`
	Items     []EventItem `json:"items"`
	ClearedAt time.Time   `json:"cleared_at"`
}

func toEventItems(items []LineItem) []EventItem {
	out := make([]EventItem, len(items))
	for i, li := range items {
		out[i] = EventItem{
			ProductID: li.Product.ID,
			Name:      li.Product.Name,
			Quantity:  li.Quantity,
			Price:     li.Product.Price,
		}
	}
	return out
}
