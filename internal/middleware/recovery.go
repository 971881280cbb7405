package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/2beens/fitgam/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// PanicRecovery turns a handler panic into a 500, recorded on the request span and counted.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(respWriter http.ResponseWriter, req *http.Request) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				panicErr := fmt.Errorf("panic serving %s %s: %v", req.Method, req.URL.Path, r)
				span := trace.SpanFromContext(req.Context())
				span.RecordError(panicErr)
				span.SetStatus(codes.Error, "panic")

				log.WithFields(log.Fields{
					"method": req.Method,
					"path":   req.URL.Path,
				}).Errorf("http: %s\n%s", panicErr, debug.Stack())
				if metricsManager != nil {
					metricsManager.CounterHandleRequestPanic.Inc()
				}
				http.Error(respWriter, "internal error", http.StatusInternalServerError)
			}()

			next.ServeHTTP(respWriter, req)
		})
	}
}
