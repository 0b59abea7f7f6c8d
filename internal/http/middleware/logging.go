package middleware

import (
	"net/http"
	"time"

	"cropdesk/internal/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger writes one line per request once the handler returns.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		defer func() {
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			keyvals := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", chimw.GetReqID(r.Context()),
			}
			if status >= http.StatusInternalServerError {
				logger.Warn("request", keyvals...)
				return
			}
			logger.Info("request", keyvals...)
		}()

		next.ServeHTTP(ww, r)
	})
}
