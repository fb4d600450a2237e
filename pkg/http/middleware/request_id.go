package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/yurykabanov/organizer/pkg/appcontext"
)

const RequestIdHeader = "X-Request-Id"

// WithRequestId propagates the client's request id or assigns a new one.
func WithRequestId(next http.Handler, nextRequestId func() string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestId := r.Header.Get(RequestIdHeader)

		if requestId == "" {
			requestId = nextRequestId()
		}

		w.Header().Set(RequestIdHeader, requestId)
		next.ServeHTTP(w, r.WithContext(appcontext.WithRequestId(r.Context(), requestId)))
	})
}

func DefaultRequestIdProvider() string {
	return uuid.NewString()
}
