package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/daajin/poultrystore-backend/pkg/logger"
)

const (
	requestIDHeader = "X-Request-Id"
	// Inbound ids longer than this are replaced rather than truncated.
	maxRequestIDLen = 64
)

// RequestID tags every request with an id, honoring a well-formed inbound
// header so upstream proxies can correlate, and echoes it on the response.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := strings.TrimSpace(r.Header.Get(requestIDHeader))
			if reqID == "" || len(reqID) > maxRequestIDLen {
				reqID = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
