package core

import (
	"crypto/subtle"
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	"walkwatch/internal/types"
)

// publicPaths are exempt from bearer auth and the caller throttle. The
// health probe must stay reachable for the load balancer, and the status
// page mirrors what the probe would see.
var publicPaths = map[string]bool{
	"/health": true,
	"/status": true,
}

// responseCapture wraps an http.ResponseWriter to observe the status code
// after the handler chain completes.
type responseCapture struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rc *responseCapture) WriteHeader(code int) {
	if !rc.written {
		rc.statusCode = code
		rc.written = true
	}
	rc.ResponseWriter.WriteHeader(code)
}

func (rc *responseCapture) Write(b []byte) (int, error) {
	if !rc.written {
		rc.statusCode = http.StatusOK
		rc.written = true
	}
	return rc.ResponseWriter.Write(b)
}

func (rc *responseCapture) Unwrap() http.ResponseWriter {
	return rc.ResponseWriter
}

// Recoverer catches panics, logs the stack, and answers with the standard
// 500 envelope. Must be outermost in the chain.
func (s *Server) Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				s.Logger.Error("panic recovered",
					"method", r.Method,
					"path", r.URL.Path,
					"panic", fmt.Sprintf("%v", rvr),
					"stack", string(debug.Stack()),
				)
				ErrorCode(w, r, types.ErrCodeInternalUnexpected, "an unexpected error occurred")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// RequestIDMiddleware propagates an inbound X-Request-Id or mints a new one,
// storing it in the context and echoing it on the response.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx := types.WithRequestID(r.Context(), requestID)
		w.Header().Set("X-Request-Id", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SecurityHeadersMiddleware sets conservative defaults on every response.
func SecurityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// RequestLogger logs method, path, status, and duration for every request.
// Authorization values never reach the log.
func (s *Server) RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rc := &responseCapture{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rc, r)

		s.Logger.InfoContext(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rc.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote", clientIP(r),
		)
	})
}

// MetricsMiddleware records request count and latency per route.
func (s *Server) MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Metrics == nil {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		rc := &responseCapture{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rc, r)
		s.Metrics.RecordRequest(r.Context(), r.URL.Path, rc.statusCode, time.Since(start))
	})
}

// MaxBodyMiddleware rejects oversized request bodies before any handler
// reads them. A declared Content-Length over the limit is rejected
// immediately; chunked bodies are capped by MaxBytesReader.
func (s *Server) MaxBodyMiddleware(next http.Handler) http.Handler {
	limit := s.Config.Webhook.MaxBodyBytes
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}
		if r.ContentLength > limit {
			ErrorCode(w, r, types.ErrCodePayloadTooLarge, "request body too large")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, limit)
		next.ServeHTTP(w, r)
	})
}

// BearerAuthMiddleware compares the Authorization bearer token against the
// configured webhook secret in constant time. Public paths pass through.
func (s *Server) BearerAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if publicPaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			ErrorCode(w, r, types.ErrCodeAuthTokenMissing, "Authorization header is required")
			return
		}

		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" {
			ErrorCode(w, r, types.ErrCodeAuthTokenInvalid, "invalid authorization token")
			return
		}

		secret := s.Config.Webhook.Secret.Unmask()
		if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			ErrorCode(w, r, types.ErrCodeAuthTokenInvalid, "invalid authorization token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ThrottleMiddleware applies the per-caller request throttle keyed by
// client IP. Store failures fail open inside the throttle itself.
func (s *Server) ThrottleMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if publicPaths[r.URL.Path] || s.Throttle == nil {
			next.ServeHTTP(w, r)
			return
		}
		if !s.Throttle.Allow(r.Context(), clientIP(r)) {
			ErrorCode(w, r, types.ErrCodeRateLimit, "too many requests, try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP resolves the caller identity, preferring the first hop of
// X-Forwarded-For when the service sits behind a proxy.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
