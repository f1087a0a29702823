package middleware

import (
	"net/http"

	wrap "github.com/distordia/nexgo/pkg/logger/wrapper"
	"github.com/distordia/nexgo/pkg/uuid"
)

const requestIDHeader = "X-Request-Id"

// RequestID attaches a request id to the context so every log line of
// the request carries it. An id supplied by the caller is kept.
func (a *Middleware) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.MustNew().String()
		}

		w.Header().Set(requestIDHeader, id)

		ctx := wrap.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
