package middleware

import "net/http"

const (
	// DefaultBodyLimit bounds JSON request bodies.
	DefaultBodyLimit = 1 << 20 // 1 MiB

	// UploadBodyLimit bounds multipart Parquet uploads.
	UploadBodyLimit = 64 << 20 // 64 MiB
)

// BodyLimit caps the request body at n bytes. Reads past the cap fail and
// handlers surface the resulting decode error as a validation failure.
func BodyLimit(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, n)
			next.ServeHTTP(w, r)
		})
	}
}
