// Package api serves the feed core over JSON HTTP.
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	lru "github.com/hashicorp/golang-lru/v2"

	murmurv1 "github.com/jdholdren/murmur/api/murmur/v1"
	"github.com/jdholdren/murmur/internal/murmur"
	"github.com/jdholdren/murmur/internal/serverutil"
	"github.com/jdholdren/murmur/internal/timeline"
)

// Clients tracked by the publish rate limiter.
const rateLimitKeys = 4096

type (
	// Server handles publishes, follow edges and feed reads for one core.
	Server struct {
		*http.Server

		core      *timeline.Service
		journal   murmur.Journal // nil when nothing is journaled
		feedCache *lru.Cache[murmur.UserID, cachedFeed]
		edges     followerLocks
		started   time.Time
	}

	ServerConfig struct {
		Port          int
		CorsOrigin    string
		PublishRate   float64 // Publishes per second per client
		PublishBurst  int
		FeedCacheSize int

		// Take the client address from X-Forwarded-For or X-Real-IP. Only safe
		// behind a proxy that sets them, since clients can forge both.
		TrustProxyHeaders bool
	}
)

func NewServer(config ServerConfig, core *timeline.Service, journal murmur.Journal) (*Server, error) {
	cache, err := lru.New[murmur.UserID, cachedFeed](config.FeedCacheSize)
	if err != nil {
		return nil, fmt.Errorf("error creating feed cache: %w", err)
	}
	limiter, err := serverutil.NewRateLimiter(config.PublishRate, config.PublishBurst, rateLimitKeys)
	if err != nil {
		return nil, fmt.Errorf("error creating rate limiter: %w", err)
	}

	r := serverutil.ErrRouter{Router: mux.NewRouter()}
	var handler http.Handler = r
	if config.TrustProxyHeaders {
		handler = handlers.ProxyHeaders(handler)
	}

	srvr := Server{
		core:      core,
		journal:   journal,
		feedCache: cache,
		started:   time.Now(),
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%d", config.Port),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			Handler: handlers.CORS(
				handlers.AllowedOrigins([]string{config.CorsOrigin}),
				handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
				handlers.AllowedHeaders([]string{"content-type"}),
			)(handler),
		},
	}

	r.Use(serverutil.AccessLogMiddleware) // Log everything
	r.HandleFuncE("/healthz", srvr.getHealth).Methods(http.MethodGet)

	users := serverutil.ErrRouter{Router: r.PathPrefix("/api/users/{userID}").Subrouter()}
	users.Use(userContextMiddleware)

	users.Handle("/items", limiter.Middleware(serverutil.HandlerFuncE(srvr.postItem))).Methods(http.MethodPost)
	users.HandleFuncE("/following", srvr.getFollowing).Methods(http.MethodGet)
	users.HandleFuncE("/following/{followeeID}", srvr.getFollowingOne).Methods(http.MethodGet)
	users.HandleFuncE("/following/{followeeID}", srvr.putFollowing).Methods(http.MethodPut)
	users.HandleFuncE("/following/{followeeID}", srvr.deleteFollowing).Methods(http.MethodDelete)
	users.HandleFuncE("/feed", srvr.getFeed).Methods(http.MethodGet)

	slog.Debug("configured api server", "port", config.Port, "journal", journal != nil, "trust_proxy_headers", config.TrustProxyHeaders)

	return &srvr, nil
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) error {
	return serverutil.WriteJSON(w, http.StatusOK, murmurv1.Health{
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
	})
}
