package middleware

import (
	"net/http"
	"strings"

	"roomly/pkg/logger"
)

func ContentTypeValidation(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requiresContentType(r.Method) {
				contentType := extractContentType(r.Header.Get("Content-Type"))

				if contentType != "application/json" {
					log.Warn("Invalid Content-Type header",
						"request_id", requestIDFrom(r.Context()),
						"content_type", contentType,
						"path", r.URL.Path,
						"method", r.Method,
					)

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusUnsupportedMediaType)
					_, _ = w.Write([]byte(`{"error":"Content-Type must be application/json"}`))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func requiresContentType(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch
}

func extractContentType(header string) string {
	if header == "" {
		return ""
	}

	parts := strings.Split(header, ";")
	return strings.TrimSpace(parts[0])
}

// MaxRequestSize caps the request body; oversized bodies surface as decode
// errors in the handlers.
func MaxRequestSize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
