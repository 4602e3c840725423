package request

import (
	"net/http"
	"time"

	"locreg/pkg/requestcontext"
)

// PinTime stores one UTC instant per request so every event, log line and
// rate limit window evaluated while serving it agrees on "now".
func PinTime(now func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithTime(r.Context(), now().UTC())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
