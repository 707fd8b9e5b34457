package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/example/unasp-marketplace/internal/api/middleware"
	"github.com/example/unasp-marketplace/internal/domain/cart"
	"github.com/example/unasp-marketplace/internal/domain/product"
	"github.com/example/unasp-marketplace/internal/infrastructure/store"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Handlers struct {
	carts   *cart.Registry
	catalog product.Catalog
	history store.EventReader
	log     *zap.Logger
}

func NewHandlers(carts *cart.Registry, catalog product.Catalog, history store.EventReader, log *zap.Logger) *Handlers {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handlers{
		carts:   carts,
		catalog: catalog,
		history: history,
		log:     log,
	}
}

type cartItemResponse struct {
	ProductID  string          `json:"product_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	Stock      int             `json:"stock"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type cartResponse struct {
	Items      []cartItemResponse `json:"items"`
	ItemCount  int                `json:"item_count"`
	TotalPrice decimal.Decimal    `json:"total_price"`
}

type itemStatusResponse struct {
	ProductID string `json:"product_id"`
	InCart    bool   `json:"in_cart"`
	Quantity  int    `json:"quantity"`
}

type cartEventResponse struct {
	EventType string          `json:"event_type"`
	Version   int             `json:"version"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

type cartHistoryResponse struct {
	CartID string              `json:"cart_id"`
	Events []cartEventResponse `json:"events"`
}

type stockErrorResponse struct {
	Error     string `json:"error"`
	ProductID string `json:"product_id"`
	Stock     int    `json:"stock"`
	InCart    int    `json:"in_cart"`
}

func newCartResponse(m *cart.Manager) cartResponse {
	items := m.Items()
	resp := cartResponse{
		Items:      make([]cartItemResponse, len(items)),
		TotalPrice: decimal.Zero,
	}
	// Totals come from the same snapshot as the items.
	for i, li := range items {
		resp.Items[i] = cartItemResponse{
			ProductID:  li.Product.ID,
			Name:       li.Product.Name,
			Price:      li.Product.Price,
			Quantity:   li.Quantity,
			Stock:      li.Product.Stock,
			TotalPrice: li.TotalPrice(),
		}
		resp.ItemCount += li.Quantity
		resp.TotalPrice = resp.TotalPrice.Add(li.TotalPrice())
	}
	return resp
}

func (h *Handlers) cartFor(r *http.Request) *cart.Manager {
	return h.carts.ForUser(middleware.BuyerID(r.Context()))
}

// GetCart returns the caller's cart lines and totals.
func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, newCartResponse(h.cartFor(r)))
}

// AddToCart loads the product from the catalog and adds it to the cart.
// Quantity defaults to one when omitted.
func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"product_id"`
		Quantity  *int   `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.ProductID == "" {
		respondError(w, product.ErrInvalidProduct.Error(), http.StatusBadRequest)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity < 1 {
		respondError(w, "quantity must be positive", http.StatusBadRequest)
		return
	}

	p, err := h.catalog.GetProduct(r.Context(), req.ProductID)
	if errors.Is(err, product.ErrProductNotFound) {
		respondError(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error("failed to load product", zap.String("product_id", req.ProductID), zap.Error(err))
		respondError(w, "failed to load product", http.StatusInternalServerError)
		return
	}

	m := h.cartFor(r)
	if !m.AddToCart(p, quantity) {
		respondJSON(w, http.StatusConflict, stockErrorResponse{
			Error:     "insufficient stock",
			ProductID: p.ID,
			Stock:     p.Stock,
			InCart:    m.ItemQuantity(p.ID),
		})
		return
	}

	h.log.Debug("item added to cart",
		zap.String("user_id", middleware.BuyerID(r.Context())),
		zap.String("product_id", p.ID),
		zap.Int("quantity", quantity),
	)
	respondJSON(w, http.StatusOK, newCartResponse(m))
}

// GetCartItem reports whether a product is in the cart and how many units.
func (h *Handlers) GetCartItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	m := h.cartFor(r)
	quantity := m.ItemQuantity(productID)
	respondJSON(w, http.StatusOK, itemStatusResponse{
		ProductID: productID,
		InCart:    quantity > 0,
		Quantity:  quantity,
	})
}

// UpdateCartItem sets the quantity of a line; zero or less removes it.
func (h *Handlers) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	var req struct {
		Quantity *int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Quantity == nil {
		respondError(w, "quantity is required", http.StatusBadRequest)
		return
	}

	m := h.cartFor(r)
	if !m.UpdateQuantity(productID, *req.Quantity) {
		if !m.IsInCart(productID) {
			respondError(w, "item not in cart", http.StatusNotFound)
			return
		}
		stock := 0
		for _, li := range m.Items() {
			if li.Product.ID == productID {
				stock = li.Product.Stock
			}
		}
		respondJSON(w, http.StatusConflict, stockErrorResponse{
			Error:     "insufficient stock",
			ProductID: productID,
			Stock:     stock,
			InCart:    m.ItemQuantity(productID),
		})
		return
	}

	respondJSON(w, http.StatusOK, newCartResponse(m))
}

// RemoveCartItem drops a line. Removing an absent product succeeds.
func (h *Handlers) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	h.cartFor(r).RemoveFromCart(chi.URLParam(r, "productID"))
	w.WriteHeader(http.StatusNoContent)
}

// ClearCart empties the caller's cart.
func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.cartFor(r).ClearCart()
	w.WriteHeader(http.StatusNoContent)
}

// GetCartHistory lists the recorded events of the caller's cart, oldest first.
func (h *Handlers) GetCartHistory(w http.ResponseWriter, r *http.Request) {
	cartID := cart.GetCartID(middleware.BuyerID(r.Context()))
	events, err := h.history.GetEvents(r.Context(), cartID)
	if err != nil {
		h.log.Error("failed to load cart history", zap.String("cart_id", cartID), zap.Error(err))
		respondError(w, "failed to load cart history", http.StatusInternalServerError)
		return
	}

	resp := cartHistoryResponse{CartID: cartID, Events: make([]cartEventResponse, len(events))}
	for i, e := range events {
		resp.Events[i] = cartEventResponse{
			EventType: e.EventType,
			Version:   e.Version,
			Timestamp: e.Timestamp,
			Data:      e.Data,
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

// EndSession discards the caller's cart, typically on logout. The items are
// recorded as cleared.
func (h *Handlers) EndSession(w http.ResponseWriter, r *http.Request) {
	buyerID := middleware.BuyerID(r.Context())
	if h.carts.Drop(buyerID) {
		h.log.Info("cart session ended",
			zap.String("user_id", buyerID),
			zap.Int("open_carts", h.carts.Len()),
		)
	}
	w.WriteHeader(http.StatusNoContent)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, map[string]string{"error": message})
}
