package providers

import (
	"net/http"
	"time"
)

const unmatchedRoute = "unmatched"

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// MetricsMiddleware records every journal and shell request under its route
// pattern, so /api/2024/entries/17 counts as "GET /api/{year}/entries/{day}",
// and debug-logs it to the get or post log by method.
func MetricsMiddleware(metrics MetricsProviderInterface, logger Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		duration := time.Since(start)
		route := r.Pattern
		if route == "" {
			route = unmatchedRoute
		}
		metrics.IncRequestsTotal(route, sw.status)
		metrics.ObserveRequestDuration(route, duration)
		logger.Debugf(GetLogTypeByRequestType(r.Method), "%s %s [%s] %d %dB %s",
			r.Method, r.URL.Path, route, sw.status, sw.bytes, duration)
	})
}
