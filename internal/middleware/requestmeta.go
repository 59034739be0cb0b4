// Package middleware holds the HTTP and Huma middlewares shared by the
// splash API.
package middleware

import (
	"net/http"

	"github.com/noonesark/splash/internal/clientip"
	"github.com/noonesark/splash/internal/handlers"
)

// RequestMeta adds client IP, user-agent, and referrer to the request
// context. It runs at the router level so the IP comes from the real
// connection and proxy headers; handlers never trust a client-supplied
// ip field.
func RequestMeta(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		meta := handlers.RequestMeta{
			ClientIP:  clientip.FromRequest(r),
			UserAgent: r.UserAgent(),
			Referrer:  r.Referer(),
		}

		next.ServeHTTP(w, r.WithContext(handlers.ContextWithRequestMeta(r.Context(), meta)))
	})
}
