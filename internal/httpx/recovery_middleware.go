package httpx

import (
	"log"
	"net/http"
	"runtime/debug"
)

// RecoveryMiddleware turns a handler panic into a 500 envelope. Panics with
// http.ErrAbortHandler are re-raised so net/http can drop the connection.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw, ok := w.(*responseWriter)
		if !ok {
			rw = &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		}

		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			// Outside RequestIDMiddleware the ID is only on the response header.
			requestID := RequestIDFrom(r)
			if requestID == "" {
				requestID = rw.Header().Get(requestIDHeader)
			}
			log.Printf("http: panic method=%s path=%s request_id=%s error=%v stack=%s",
				r.Method, r.URL.Path, requestID, rec, debug.Stack())

			// Headers already on the wire cannot be replaced by the envelope.
			if rw.wroteHeader() {
				return
			}
			JSONError(rw, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		}()
		next.ServeHTTP(rw, r)
	})
}
