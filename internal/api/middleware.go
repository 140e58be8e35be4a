// internal/api/middleware.go
package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "eb2niw-assessor/internal/common/errors"
	"eb2niw-assessor/internal/common/logger"
	"eb2niw-assessor/internal/common/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int64
	wroteHeader bool
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (w *statusRecorder) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += int64(n)
	return n, err
}

// requestLogging logs every request once it has been served.
func requestLogging(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			fields := map[string]interface{}{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     rec.status,
				"bytes":      rec.bytes,
				"durationMs": time.Since(start).Milliseconds(),
				"client":     clientKey(r),
			}
			switch {
			case rec.status >= 500:
				log.Error("HTTP request failed", fields)
			case rec.status >= 400:
				log.Warn("HTTP request rejected", fields)
			default:
				log.Debug("HTTP request completed", fields)
			}
		})
	}
}

// cors answers preflight requests and tags responses for the configured origins.
// An origin of "*" allows any caller.
func cors(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[strings.TrimRight(o, "/")] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" || len(allowed) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Add("Vary", "Origin")
			if !allowed["*"] && !allowed[origin] {
				next.ServeHTTP(w, r)
				return
			}

			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Expose-Headers", "Retry-After, X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset")
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
				h.Set("Access-Control-Max-Age", "600")
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// instrument counts requests per route and status code.
func instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := newStatusRecorder(w)
		next.ServeHTTP(rec, r)
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
	})
}

// rateLimited rejects callers above limit requests per window with 429 and Retry-After.
// When the limiter is unreachable the request is let through.
func (s *Server) rateLimited(route string, limit int, next http.Handler) http.Handler {
	if s.limiter == nil || limit <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d, err := s.limiter.Allow(r.Context(), route, clientKey(r), limit)
		if err != nil {
			s.logger.Warn("rate limiter unavailable", map[string]interface{}{"route": route, "error": err.Error()})
			next.ServeHTTP(w, r)
			return
		}
		setRateLimitHeaders(w, d)
		if !d.Allowed {
			metrics.RateLimitedRequests.WithLabelValues(route).Inc()
			stdErr := apperrors.NewRateLimitedError(d.RetryAfter)
			w.Header().Set("Retry-After", strconv.Itoa(stdErr.Metadata["retryAfterSeconds"].(int)))
			s.writeError(w, stdErr)
			return
		}
		next.ServeHTTP(w, r)
	})
}
