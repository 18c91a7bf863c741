package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/snapsplit/snapsplit/internal/auth"
)

// RequireAPIKey guards a handler behind a static bearer API key.
func RequireAPIKey(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.KeyMatches(bearerToken(r), apiKey) {
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAPIKeyOrShareToken guards a handler behind the API key, but also
// accepts a valid share token in the "t" query parameter whose split ID
// matches the requested path suffix. This is what makes share links work for
// people without the key.
func RequireAPIKeyOrShareToken(apiKey string, tokens *auth.ShareTokens, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.KeyMatches(bearerToken(r), apiKey) {
			next.ServeHTTP(w, r)
			return
		}

		if t := r.URL.Query().Get("t"); t != "" {
			splitID, err := tokens.Validate(t)
			if err == nil && strings.HasSuffix(r.URL.Path, "/"+splitID) {
				next.ServeHTTP(w, r)
				return
			}
			slog.Warn("share token rejected", "path", r.URL.Path, "error", err)
		}

		unauthorized(w)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "invalid or missing API key"})
}
