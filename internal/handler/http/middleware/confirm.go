package middleware

import (
	"net/http"
	"strings"

	"github.com/cmlabs-hris/overtime-backend-go/internal/handler/http/response"
)

// ConfirmHeader must be "true" on destructive requests.
const ConfirmHeader = "X-Confirm-Reset"

// RequireConfirmation rejects requests that do not explicitly confirm a reset,
// via the X-Confirm-Reset header or a confirm=true query parameter.
func RequireConfirmation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		confirmed := strings.EqualFold(r.Header.Get(ConfirmHeader), "true") ||
			strings.EqualFold(r.URL.Query().Get("confirm"), "true")
		if !confirmed {
			response.BadRequest(w, "Reset must be confirmed", map[string]string{
				"confirm": "set header " + ConfirmHeader + ": true or query confirm=true",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
