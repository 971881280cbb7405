package middleware

import (
	"io"
	"net/http"
)

// DefaultMaxBodyBytes caps request bodies, the largest form (signup) is well below it.
const DefaultMaxBodyBytes int64 = 1 << 20

// DrainAndCloseRequest caps the request body at maxBodyBytes, and drains and closes it once the handler is done.
func DrainAndCloseRequest(maxBodyBytes int64) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && maxBodyBytes > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
			}
			next.ServeHTTP(w, r)
			if r.Body != nil {
				_, _ = io.Copy(io.Discard, r.Body)
				_ = r.Body.Close()
			}
		})
	}
}
