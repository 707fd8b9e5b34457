package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/example/unasp-marketplace/internal/auth"
	"go.uber.org/zap"
)

// AccessTokenCookie is checked before the Authorization header.
const AccessTokenCookie = "access_token"

type buyerKey struct{}

// RequireBuyer lets a request through only with a valid buyer token and puts
// the buyer in the request context.
func RequireBuyer(tokens *auth.TokenIssuer, log *zap.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := accessToken(r)
			if token == "" {
				writeUnauthorized(w, "missing access token")
				return
			}

			buyer, err := tokens.Verify(token)
			if err != nil {
				log.Debug("buyer token rejected", zap.String("path", r.URL.Path), zap.Error(err))
				writeUnauthorized(w, err.Error())
				return
			}

			next.ServeHTTP(w, r.WithContext(WithBuyer(r.Context(), buyer)))
		})
	}
}

func accessToken(r *http.Request) string {
	if c, err := r.Cookie(AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

func writeUnauthorized(w http.ResponseWriter, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": reason})
}

func WithBuyer(ctx context.Context, b auth.Buyer) context.Context {
	return context.WithValue(ctx, buyerKey{}, b)
}

// BuyerFrom returns the buyer RequireBuyer stored in ctx.
func BuyerFrom(ctx context.Context) (auth.Buyer, bool) {
	b, ok := ctx.Value(buyerKey{}).(auth.Buyer)
	return b, ok
}

// BuyerID returns the id of the buyer in ctx, or "" outside RequireBuyer.
func BuyerID(ctx context.Context) string {
	b, _ := BuyerFrom(ctx)
	return b.ID
}
