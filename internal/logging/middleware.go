package logging

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// RequestLogger logs one line per request. Server errors log at error,
// client errors and requests slower than slow log at warn.
func RequestLogger(logger zerolog.Logger, slow time.Duration, skip ...string) func(http.Handler) http.Handler {
	if slow <= 0 {
		slow = 500 * time.Millisecond
	}
	skipped := make(map[string]struct{}, len(skip))
	for _, path := range skip {
		skipped[path] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skipped[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			if id := chimiddleware.GetReqID(r.Context()); id != "" {
				ww.Header().Set("X-Request-ID", id)
			}

			next.ServeHTTP(ww, r)

			elapsed := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			event := logger.Info()
			msg := "request completed"
			switch {
			case status >= 500:
				event = logger.Error()
				msg = "request failed"
			case status >= 400:
				event = logger.Warn()
				msg = "request error"
			case elapsed > slow:
				event = logger.Warn()
				msg = "slow request"
			}

			event.
				Str("request_id", chimiddleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Dur("duration", elapsed).
				Int("bytes", ww.BytesWritten()).
				Msg(msg)
		})
	}
}
