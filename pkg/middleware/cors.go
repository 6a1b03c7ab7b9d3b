package middleware

import (
	"net/http"
	"strconv"
)

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   string
	AllowedMethods   string
	AllowedHeaders   string
	AllowCredentials bool
	MaxAge           int
}

// DefaultCORSConfig allows any origin, method and header. Browser
// clients poll from arbitrary frontends, so the permissive default is
// the intended posture.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: "*",
		AllowedMethods: "*",
		AllowedHeaders: "*",
	}
}

// CORS answers preflight requests and stamps CORS headers on every
// response
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	// The header set never varies per request, so build it once
	static := map[string]string{
		"Access-Control-Allow-Origin":  config.AllowedOrigins,
		"Access-Control-Allow-Methods": config.AllowedMethods,
		"Access-Control-Allow-Headers": config.AllowedHeaders,
	}
	if config.AllowCredentials {
		static["Access-Control-Allow-Credentials"] = "true"
	}
	if config.MaxAge > 0 {
		static["Access-Control-Max-Age"] = strconv.Itoa(config.MaxAge)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := w.Header()
			for key, value := range static {
				header.Set(key, value)
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
