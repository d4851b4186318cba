// AngelaMos | 2026
// logger.go

package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ploteasy/ploteasy-api/internal/core"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	if s.status == 0 {
		s.status = http.StatusOK
	}
	n, err := s.ResponseWriter.Write(b)
	s.bytes += n
	return n, err
}

func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

func (s *statusRecorder) Status() int {
	if s.status == 0 {
		return http.StatusOK
	}
	return s.status
}

// Logger attaches a request scoped zap logger and writes one access log
// line per request with the client address masked.
func Logger(log *zap.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := GetRequestID(r.Context())

			reqLog := log.With(zap.String("request_id", requestID))
			ctx := core.ContextWithLogger(r.Context(), reqLog)

			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r.WithContext(ctx))

			fields := []zap.Field{
				zap.String("trace_id", core.TraceIDFromContext(r.Context())),
				zap.Int("status", rec.Status()),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Duration("latency", time.Since(start)),
				zap.Int("bytes", rec.bytes),
				zap.String("client_ip", core.MaskIP(ClientIP(r))),
			}
			if ua := r.UserAgent(); ua != "" {
				fields = append(fields, zap.String("user_agent", ua))
			}

			if rec.Status() >= http.StatusInternalServerError {
				reqLog.Error("request failed", fields...)
				return
			}
			reqLog.Info("request completed", fields...)
		})
	}
}
