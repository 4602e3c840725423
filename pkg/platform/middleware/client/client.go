// Package client labels each request with the software that sent it, for
// request logs. The label is coarse on purpose: browser family and OS, or
// the bot name.
package client

import (
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"locreg/pkg/requestcontext"
)

// MaxUserAgentLength bounds the header we are willing to parse.
const MaxUserAgentLength = 512

// Middleware stores the client label in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		label := Label(r.UserAgent())
		ctx := requestcontext.WithClient(r.Context(), label)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Label returns "Browser on OS", "bot:<name>" for crawlers, or the product
// token for API clients such as curl or Go's HTTP client.
func Label(userAgent string) string {
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		return "unknown"
	}
	if len(userAgent) > MaxUserAgentLength {
		userAgent = userAgent[:MaxUserAgentLength]
	}

	ua := useragent.New(userAgent)
	browser, _ := ua.Browser()
	if ua.Bot() {
		return "bot:" + strings.ToLower(browser)
	}

	os := ua.OS()
	if os == "" {
		// Non-browser clients carry only a product token.
		if browser == "" {
			return "unknown"
		}
		return strings.ToLower(browser)
	}
	if ua.Mobile() {
		if platform := ua.Platform(); platform != "" {
			return strings.TrimSpace(browser + " on " + platform)
		}
	}
	return strings.TrimSpace(browser + " on " + os)
}
