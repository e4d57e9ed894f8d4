package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	httputil "roomly/pkg/http"
	"roomly/pkg/logger"
)

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
	Cache    string `json:"cache,omitempty"`
}

type HealthHandler struct {
	mongoClient *mongo.Client
	redisClient *redis.Client
	log         *logger.Logger
}

func NewHealthHandler(mongoClient *mongo.Client, redisClient *redis.Client, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		mongoClient: mongoClient,
		redisClient: redisClient,
		log:         log,
	}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Health", "error", err)
	}
}

// Ready reports whether the service can take traffic. Mongo is mandatory; a
// dead cache degrades responses but does not fail readiness.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.mongoClient.Ping(ctx, nil); err != nil {
		h.log.Error("Database health check failed",
			"error", err,
			"path", r.URL.Path,
		)
		if writeErr := httputil.WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:   "unavailable",
			Database: "error",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Ready", "error", writeErr)
		}
		return
	}

	cacheStatus := "ok"
	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		h.log.Warn("Cache health check failed", "error", err)
		cacheStatus = "degraded"
	}

	if err := httputil.WriteJSON(w, http.StatusOK, HealthResponse{
		Status:   "ready",
		Database: "ok",
		Cache:    cacheStatus,
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Ready", "error", err)
	}
}

func (h *HealthHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
}
