package cart

import (
	"slices"
	"sync"

	"github.com/example/unasp-marketplace/internal/domain/product"
	"github.com/shopspring/decimal"
)

// Manager owns a single shopping cart. It keeps at most one line item per
// product, bounds every quantity by the product's stock and notifies
// listeners after each change.
//
// Notifications are delivered in the order the changes were made, with no
// internal lock held, so listeners may read or modify the cart from inside a
// callback. The goroutine that made a change delivers it, unless another
// goroutine is already delivering; that one then delivers the queued change
// as well. A change made from inside a callback is delivered after the
// callback returns.
//
// The zero value is an empty cart ready to use.
type Manager struct {
	mu              sync.Mutex
	items           []LineItem
	listeners       []UpdateListener
	actionListeners []ActionListener

	pending    []notification
	delivering bool
}

func NewManager() *Manager {
	return &Manager{}
}

// Add puts a single unit of p in the cart. See AddToCart.
func (m *Manager) Add(p product.Product) bool {
	return m.AddToCart(p, 1)
}

// AddToCart adds quantity units of p, merging with an existing line for the
// same product. It returns false and leaves the cart untouched when the
// resulting quantity would exceed p.Stock, or when quantity is below one.
func (m *Manager) AddToCart(p product.Product, quantity int) bool {
	if p.ID == "" || quantity < 1 {
		return false
	}

	m.mu.Lock()
	if i := m.indexOf(p.ID); i >= 0 {
		newQuantity := m.items[i].Quantity + quantity
		if newQuantity > p.Stock {
			m.mu.Unlock()
			return false
		}
		// Refresh the snapshot so the stored stock is the one just checked.
		m.items[i] = LineItem{Product: p, Quantity: newQuantity}
	} else {
		if quantity > p.Stock {
			m.mu.Unlock()
			return false
		}
		m.items = append(m.items, LineItem{Product: p, Quantity: quantity})
	}
	m.publishLocked(m.notificationLocked(nil, false))
	return true
}

// RemoveFromCart drops the line for productID. Nothing happens, and nobody is
// notified, if the product is not in the cart.
func (m *Manager) RemoveFromCart(productID string) {
	m.mu.Lock()
	i := m.indexOf(productID)
	if i < 0 {
		m.mu.Unlock()
		return
	}
	m.publishLocked(m.removeLocked(i))
}

// UpdateQuantity sets the quantity of an existing line. A quantity of zero or
// less removes the line and reports true. It returns false when the product is
// not in the cart or newQuantity exceeds the stock recorded for it.
func (m *Manager) UpdateQuantity(productID string, newQuantity int) bool {
	m.mu.Lock()
	i := m.indexOf(productID)
	if i < 0 {
		m.mu.Unlock()
		return false
	}
	var n notification
	switch {
	case newQuantity <= 0:
		n = m.removeLocked(i)
	case newQuantity > m.items[i].Product.Stock:
		m.mu.Unlock()
		return false
	default:
		m.items[i].Quantity = newQuantity
		n = m.notificationLocked(nil, false)
	}
	m.publishLocked(n)
	return true
}

// ClearCart empties the cart. Clearing an empty cart is a no-op.
func (m *Manager) ClearCart() {
	m.mu.Lock()
	if len(m.items) == 0 {
		m.mu.Unlock()
		return
	}
	removed := m.items
	m.items = nil
	m.publishLocked(m.notificationLocked(removed, true))
}

// Items returns a copy of the cart lines in insertion order.
func (m *Manager) Items() []LineItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := make([]LineItem, len(m.items))
	copy(items, m.items)
	return items
}

// TotalItemCount returns the sum of all line quantities.
func (m *Manager) TotalItemCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.countLocked()
}

// TotalPrice returns the sum of all line totals.
func (m *Manager) TotalPrice() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totalLocked()
}

func (m *Manager) IsInCart(productID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.indexOf(productID) >= 0
}

// ItemQuantity returns the quantity for productID, or 0 if it is not in the cart.
func (m *Manager) ItemQuantity(productID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexOf(productID); i >= 0 {
		return m.items[i].Quantity
	}
	return 0
}

// AddListener registers l for update notifications. Registering the same
// listener twice has no effect.
func (m *Manager) AddListener(l UpdateListener) {
	if l == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.listeners {
		if sameListener(existing, l) {
			return
		}
	}
	m.listeners = append(m.listeners, l)
}

func (m *Manager) RemoveListener(l UpdateListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = slices.DeleteFunc(m.listeners, func(existing UpdateListener) bool {
		return sameListener(existing, l)
	})
}

// AddActionListener registers l for removal and clear notifications.
// Registering the same listener twice has no effect.
func (m *Manager) AddActionListener(l ActionListener) {
	if l == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.actionListeners {
		if sameListener(existing, l) {
			return
		}
	}
	m.actionListeners = append(m.actionListeners, l)
}

func (m *Manager) RemoveActionListener(l ActionListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actionListeners = slices.DeleteFunc(m.actionListeners, func(existing ActionListener) bool {
		return sameListener(existing, l)
	})
}

func (m *Manager) indexOf(productID string) int {
	return slices.IndexFunc(m.items, func(li LineItem) bool {
		return li.Product.ID == productID
	})
}

func (m *Manager) removeLocked(i int) notification {
	removed := m.items[i]
	m.items = slices.Delete(m.items, i, i+1)
	return m.notificationLocked([]LineItem{removed}, false)
}

func (m *Manager) countLocked() int {
	count := 0
	for _, li := range m.items {
		count += li.Quantity
	}
	return count
}

func (m *Manager) totalLocked() decimal.Decimal {
	total := decimal.Zero
	for _, li := range m.items {
		total = total.Add(li.TotalPrice())
	}
	return total
}

// notification captures everything listeners need so it can be delivered
// after the lock is released.
type notification struct {
	itemCount       int
	totalPrice      decimal.Decimal
	removed         []LineItem
	cleared         bool
	listeners       []UpdateListener
	actionListeners []ActionListener
}

func (m *Manager) notificationLocked(removed []LineItem, cleared bool) notification {
	return notification{
		itemCount:       m.countLocked(),
		totalPrice:      m.totalLocked(),
		removed:         removed,
		cleared:         cleared,
		listeners:       slices.Clone(m.listeners),
		actionListeners: slices.Clone(m.actionListeners),
	}
}

// publishLocked queues n and delivers the queue unless a delivery is already
// running. It is called with m.mu held and returns with it released.
func (m *Manager) publishLocked(n notification) {
	m.pending = append(m.pending, n)
	if m.delivering {
		m.mu.Unlock()
		return
	}
	m.delivering = true
	m.mu.Unlock()

	m.drain()
}

func (m *Manager) drain() {
	done := false
	defer func() {
		// a panicking listener must not leave the cart stuck in delivery
		if !done {
			m.mu.Lock()
			m.delivering = false
			m.mu.Unlock()
		}
	}()

	m.mu.Lock()
	for len(m.pending) > 0 {
		next := m.pending[0]
		m.pending[0] = notification{}
		m.pending = m.pending[1:]
		m.mu.Unlock()

		next.dispatch()

		m.mu.Lock()
	}
	m.pending = nil
	m.delivering = false
	m.mu.Unlock()
	done = true
}

// dispatch informs update listeners first, then action listeners when items
// were removed, each in registration order.
func (n notification) dispatch() {
	for _, l := range n.listeners {
		l.OnCartUpdated(n.itemCount, n.totalPrice)
	}
	if len(n.removed) == 0 {
		return
	}
	for _, l := range n.actionListeners {
		removed := slices.Clone(n.removed)
		if n.cleared {
			l.OnCartCleared(removed)
		} else {
			l.OnItemsRemoved(removed)
		}
	}
}
