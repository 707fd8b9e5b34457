package api

import (
	"net/http"

	"github.com/example/unasp-marketplace/internal/api/middleware"
	"github.com/example/unasp-marketplace/internal/auth"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Handlers *Handlers
	Tokens   *auth.TokenIssuer
	Logger   *zap.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/cart", func(r chi.Router) {
		r.Use(middleware.RequireBuyer(cfg.Tokens, log))

		r.Get("/", cfg.Handlers.GetCart)
		r.Delete("/", cfg.Handlers.ClearCart)
		r.Get("/history", cfg.Handlers.GetCartHistory)
		r.Delete("/session", cfg.Handlers.EndSession)
		r.Post("/items", cfg.Handlers.AddToCart)
		r.Get("/items/{productID}", cfg.Handlers.GetCartItem)
		r.Patch("/items/{productID}", cfg.Handlers.UpdateCartItem)
		r.Delete("/items/{productID}", cfg.Handlers.RemoveCartItem)
	})

	return r
}
