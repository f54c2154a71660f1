package middleware

import (
	"fmt"
	"net/http"
)

// tooLargeBody matches the API's error envelope.
const tooLargeBody = `{"error":{"code":"payload_too_large","message":"request body exceeds %d bytes"}}`

// NewMaxBodySizeHandler returns a middleware that limits request bodies to
// limit bytes. A declared Content-Length over the limit is rejected with 413
// before the next handler runs. Bodies of unknown length are wrapped in
// http.MaxBytesReader, so reads fail once the limit is crossed and the
// handler's decode error maps to 413.
func NewMaxBodySizeHandler(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				fmt.Fprintf(w, tooLargeBody, limit)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
