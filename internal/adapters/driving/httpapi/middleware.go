package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/bfreelanceseo/MapScraperPro/internal/logger"
)

// statusWriter captures the status code written by a handler.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// requestLogger logs one line per request through the package logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		id := middleware.GetReqID(r.Context())
		if sw.status >= http.StatusInternalServerError {
			logger.Warn("[%s] %s %s -> %d (%s)", id, r.Method, r.URL.Path, sw.status, time.Since(start))
			return
		}
		logger.Debug("[%s] %s %s -> %d (%s)", id, r.Method, r.URL.Path, sw.status, time.Since(start))
	})
}
