package middleware

import (
	"net/http"
	"time"

	"bringlist/pkg/logger"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestLog writes one line per request through log.
func RequestLog(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				attrs := []any{
					"method", r.Method,
					"path", r.URL.Path,
					"status", status,
					"bytes", ww.BytesWritten(),
					"duration_ms", time.Since(started).Milliseconds(),
					"request_id", chimw.GetReqID(r.Context()),
				}
				if status >= http.StatusInternalServerError {
					log.Error("http: request", attrs...)
					return
				}
				log.Info("http: request", attrs...)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
