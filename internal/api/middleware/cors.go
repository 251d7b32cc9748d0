package middleware

import "net/http"

// CORS sets permissive cross-origin headers on every response and
// short-circuits preflight OPTIONS requests with an empty 200 before they
// reach authentication. The API is a bearer-token API consumed by browser
// frontends on arbitrary origins, so the wildcard is deliberate.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
