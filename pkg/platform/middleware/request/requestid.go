package request

import (
	"net/http"

	"github.com/google/uuid"

	"locreg/pkg/requestcontext"
)

// RequestIDHeader carries the correlation id in both directions.
const RequestIDHeader = "X-Request-ID"

// MaxRequestIDLength bounds caller-supplied ids.
const MaxRequestIDLength = 128

// RequestID propagates a caller-supplied X-Request-ID or mints a UUID when the
// header is absent or unsafe to log.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(RequestIDHeader)
		if !loggableID(reqID) {
			reqID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, reqID)
		next.ServeHTTP(w, r.WithContext(requestcontext.WithRequestID(r.Context(), reqID)))
	})
}

// loggableID accepts 1..MaxRequestIDLength bytes of [A-Za-z0-9._-].
func loggableID(v string) bool {
	if v == "" || len(v) > MaxRequestIDLength {
		return false
	}
	for i := 0; i < len(v); i++ {
		switch c := v[i]; {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '.', c == '_', c == '-':
		default:
			return false
		}
	}
	return true
}
