package app

import (
	"net/http"
	"strconv"

	"github.com/fintalk/fintalk/internal/config"
	"github.com/fintalk/fintalk/pkg/user"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Propagate X-User-Id header into context for downstream services.
	// Requests without the header act as the single default user.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			userId := user.DefaultUserId

			userIdHeader := req.Header.Get("X-User-Id")
			if userIdHeader != "" {
				parsed, err := strconv.Atoi(userIdHeader)
				if err != nil {
					log.Debugf("invalid X-User-Id header: %s", userIdHeader)
					http.Error(w, "invalid X-User-Id header", http.StatusBadRequest)
					return
				}
				userId = parsed
			}

			ctx := user.WithId(req.Context(), userId)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
}

// CORS allows the configured frontend origin and answers preflight requests
// before the router sees them. It wraps the router rather than registering as
// a mux middleware so that OPTIONS requests do not hit method matching.
func CORS(next http.Handler, origin string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-User-Id")
		w.Header().Set("Access-Control-Max-Age", "3600")

		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, req)
	})
}
