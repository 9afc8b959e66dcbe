package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jdholdren/murmur/internal/logger"
	"github.com/jdholdren/murmur/internal/murmur"
)

// Attaches the user from the path to every log line of the request.
func userContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logger.Ctx(r.Context(), slog.String("user_id", mux.Vars(r)["userID"]))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func pathUser(r *http.Request, key string) murmur.UserID {
	return murmur.UserID(mux.Vars(r)[key])
}
