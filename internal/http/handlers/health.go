package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/playfinity/playfinity-backend/internal/clients/gcp"
	"github.com/playfinity/playfinity-backend/internal/http/response"
	"github.com/playfinity/playfinity-backend/internal/pkg/logger"
	"github.com/playfinity/playfinity-backend/internal/services"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// StatusHandler reports which optional collaborators came up, plus a
// cache statistics snapshot.
type StatusHandler struct {
	log    *logger.Logger
	store  gcp.DocumentStore
	bucket gcp.BucketService
	cache  *services.PredictionCache

	visionAvailable     bool
	generationAvailable bool
	ocrAvailable        bool
}

func NewStatusHandler(log *logger.Logger, store gcp.DocumentStore, bucket gcp.BucketService, cache *services.PredictionCache, vision, generation, ocr bool) *StatusHandler {
	return &StatusHandler{
		log:                 log.With("handler", "StatusHandler"),
		store:               store,
		bucket:              bucket,
		cache:               cache,
		visionAvailable:     vision,
		generationAvailable: generation,
		ocrAvailable:        ocr,
	}
}

func (h *StatusHandler) Status(c *gin.Context) {
	storageVerified := false
	if h.bucket != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		storageVerified = h.bucket.Verify(ctx) == nil
		cancel()
	}

	payload := gin.H{
		"status":               "running",
		"firestore_available":  h.store != nil,
		"storage_available":    h.bucket != nil,
		"storage_verified":     storageVerified,
		"vision_available":     h.visionAvailable,
		"generation_available": h.generationAvailable,
		"ocr_available":        h.ocrAvailable,
	}
	if h.cache != nil && h.cache.Enabled() {
		payload["cache"] = h.cache.Statistics(c.Request.Context())
	}
	response.RespondOK(c, payload)
}
