package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/equitylens/backend/internal/api/handlers"
	"github.com/equitylens/backend/pkg/database"
	"github.com/equitylens/backend/pkg/logger"
)

// NewRouter creates and configures the HTTP router
func NewRouter(scoreHandler *handlers.ScoreHandler, stream *ScoreStream, db *database.DB, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler(db)).Methods("GET")

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Score endpoints
	api.HandleFunc("/scores", scoreHandler.ListScores).Methods("GET")
	api.HandleFunc("/scores/rescore", scoreHandler.Rescore).Methods("POST")
	api.HandleFunc("/scores/{ticker}", scoreHandler.GetScore).Methods("GET")
	api.HandleFunc("/scores/{ticker}/history", scoreHandler.GetHistory).Methods("GET")

	// Quote endpoint
	api.HandleFunc("/quote/{ticker}", scoreHandler.GetQuote).Methods("GET")

	// Score stream
	if stream != nil {
		api.HandleFunc("/stream", stream.Handle).Methods("GET")
	}

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status, including database pool
// health when a database is configured.
func healthCheckHandler(db *database.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"status":  "ok",
			"service": "equitylens-api",
		}

		if db != nil {
			health, err := db.HealthCheck(r.Context())
			if err != nil {
				resp["status"] = "degraded"
				resp["database"] = "unreachable"
			} else {
				resp["database"] = health
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
