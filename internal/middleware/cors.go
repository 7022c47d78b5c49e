package middleware

import (
	"net/http"
	"strings"
)

// CORS returns middleware that sets CORS headers for the configured origin.
// An empty allowedOrigin disables CORS entirely; "*" allows any origin
// without credentials.
func CORS(allowedOrigin string) func(http.Handler) http.Handler {
	allowed := strings.TrimSpace(allowedOrigin)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			applyCORSHeaders(w, r, allowed)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func applyCORSHeaders(w http.ResponseWriter, r *http.Request, allowed string) {
	if allowed == "" {
		return
	}

	h := w.Header()
	if allowed == "*" {
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Credentials", "false")
	} else {
		requestOrigin := r.Header.Get("Origin")
		if requestOrigin == "" || !strings.EqualFold(requestOrigin, allowed) {
			return
		}
		h.Set("Access-Control-Allow-Origin", requestOrigin)
		h.Set("Vary", "Origin")
		h.Set("Access-Control-Allow-Credentials", "true")
	}

	h.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Accept")
	h.Set("Access-Control-Max-Age", "3600")
}
