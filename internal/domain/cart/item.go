package cart

import (
	"github.com/example/unasp-marketplace/internal/domain/product"
	"github.com/shopspring/decimal"
)

// LineItem is one product in the cart together with the quantity the buyer wants.
// Product is a copy taken when the item was added, not a live catalog reference.
type LineItem struct {
	Product  product.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// TotalPrice returns the unit price multiplied by the quantity.
func (li LineItem) TotalPrice() decimal.Decimal {
	return li.Product.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}
