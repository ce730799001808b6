package http

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey int

const (
	clientIDKey ctxKey = iota
	tokenKey
)

// clientContext кладёт идентификатор клиента и bearer-токен в контекст запроса.
// Идентификатор корзины приходит в заголовке X-Client-ID.
func clientContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if clientID := r.Header.Get("X-Client-ID"); clientID != "" {
			ctx = context.WithValue(ctx, clientIDKey, clientID)
		}

		if token := bearerToken(r); token != "" {
			ctx = context.WithValue(ctx, tokenKey, token)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}

	return ""
}

func clientIDFromCtx(ctx context.Context) string {
	if clientID, ok := ctx.Value(clientIDKey).(string); ok {
		return clientID
	}

	return ""
}

func tokenFromCtx(ctx context.Context) string {
	if token, ok := ctx.Value(tokenKey).(string); ok {
		return token
	}

	return ""
}
