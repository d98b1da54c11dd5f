package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/gigconnect/payments/internal/handlers/render"
	"github.com/gigconnect/payments/internal/handlers/userctx"
)

// IdentityHeader carries the user id resolved by the gateway in front of
// this service. Authentication itself never happens here.
const IdentityHeader = "X-User-ID"

func IdentityMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := uuid.Parse(r.Header.Get(IdentityHeader))
			if err != nil {
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := userctx.NewContext(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
