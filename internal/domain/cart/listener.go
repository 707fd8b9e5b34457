package cart

import (
	"reflect"

	"github.com/shopspring/decimal"
)

// UpdateListener is notified after every mutation that changed the cart.
type UpdateListener interface {
	OnCartUpdated(itemCount int, totalPrice decimal.Decimal)
}

// ActionListener is notified about line items leaving the cart.
// Each call receives its own copy of the removed items.
type ActionListener interface {
	OnItemsRemoved(removed []LineItem)
	OnCartCleared(removed []LineItem)
}

// NopActionListener can be embedded by listeners interested in only one of the
// ActionListener callbacks.
type NopActionListener struct{}

func (NopActionListener) OnItemsRemoved([]LineItem) {}
func (NopActionListener) OnCartCleared([]LineItem)  {}

// sameListener reports whether a and b are the same registration. Listeners
// whose dynamic type is not comparable never match.
func sameListener(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if !va.IsValid() || !vb.IsValid() || va.Type() != vb.Type() {
		return false
	}
	if !va.Comparable() || !vb.Comparable() {
		return false
	}
	return a == b
}
