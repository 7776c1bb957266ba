package server

import (
	"context"
	"net/http"

	"github.com/bettersg/checkmate-agent/internal/util"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// RequestID assigns every request a fresh id, exposes it to handlers via the
// request context, and echoes it back in the X-Request-ID response header so
// callers can correlate a check with its logs.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := util.NewID()
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFromContext returns the id assigned by the RequestID middleware,
// or empty if the middleware did not run.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
