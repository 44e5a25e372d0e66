package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/logger"
)

const (
	requestIDHeader    = "X-Request-Id"
	maxRequestIDLength = 128
)

// RequestID echoes a well-formed inbound X-Request-Id or mints a uuid, and
// binds it to the request logger.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := acceptRequestID(r.Header.Get(requestIDHeader))
			w.Header().Set(requestIDHeader, id)
			if logg != nil {
				r = r.WithContext(logg.WithRequestID(r.Context(), id))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func acceptRequestID(inbound string) string {
	inbound = strings.TrimSpace(inbound)
	if inbound == "" || len(inbound) > maxRequestIDLength {
		return uuid.NewString()
	}
	for _, c := range inbound {
		if c < 0x21 || c > 0x7e {
			return uuid.NewString()
		}
	}
	return inbound
}
