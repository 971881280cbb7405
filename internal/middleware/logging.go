package middleware

import (
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// LogRequest logs every request with its response status at trace level, server errors at warn.
func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			resp := &responseWriter{w, http.StatusOK}
			next.ServeHTTP(resp, r)

			entry := log.WithFields(log.Fields{
				"method": r.Method,
				"path":   r.URL.Path,
				"status": resp.statusCode,
				"took":   time.Since(start).String(),
			})
			if resp.statusCode >= http.StatusInternalServerError {
				entry.Warnf(" ====> request failed [UA: %s]", r.Header.Get("User-Agent"))
				return
			}
			entry.Tracef(" ====> request [UA: %s]", r.Header.Get("User-Agent"))
		})
	}
}
