package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/playfinity/playfinity-backend/internal/http/response"
	"github.com/playfinity/playfinity-backend/internal/pkg/logger"
	"github.com/playfinity/playfinity-backend/internal/services"
)

// CacheHandler exposes the prediction cache read side plus an explicit
// taxonomy generation endpoint.
type CacheHandler struct {
	log    *logger.Logger
	cache  *services.PredictionCache
	topics services.TopicGenerator
}

func NewCacheHandler(log *logger.Logger, cache *services.PredictionCache, topics services.TopicGenerator) *CacheHandler {
	return &CacheHandler{
		log:    log.With("handler", "CacheHandler"),
		cache:  cache,
		topics: topics,
	}
}

type relatedTopicsRequest struct {
	Subject     string   `json:"subject" binding:"required"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// RelatedTopics generates a domain taxonomy for an explicit subject.
// No cache side effects.
func (h *CacheHandler) RelatedTopics(c *gin.Context) {
	var req relatedTopicsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if h.topics == nil {
		response.RespondUnavailable(c, "topic generation")
		return
	}

	dt, fallback := h.topics.GenerateDomainTopics(c.Request.Context(), req.Description, req.Tags, req.Subject)
	response.RespondOK(c, gin.H{
		"success":       true,
		"subject":       req.Subject,
		"domain_topics": dt,
		"fallback":      fallback,
	})
}

// CachedTopics reads one cache entry and counts the access.
func (h *CacheHandler) CachedTopics(c *gin.Context) {
	topic := c.Param("topic")
	if !h.cache.Enabled() {
		response.RespondUnavailable(c, "prediction cache")
		return
	}

	entry, found := h.cache.Entry(c.Request.Context(), topic)
	if !found {
		response.RespondError(c, http.StatusNotFound, "entry_not_found", fmt.Errorf("no cached topics for %q", topic))
		return
	}
	h.cache.TouchAccess(c.Request.Context(), topic)

	response.RespondOK(c, gin.H{
		"success": true,
		"topic":   topic,
		"entry":   entry,
	})
}

func (h *CacheHandler) CacheStats(c *gin.Context) {
	if !h.cache.Enabled() {
		response.RespondUnavailable(c, "prediction cache")
		return
	}
	response.RespondOK(c, gin.H{
		"success": true,
		"stats":   h.cache.Statistics(c.Request.Context()),
	})
}

func (h *CacheHandler) ClearCache(c *gin.Context) {
	if !h.cache.Enabled() {
		response.RespondUnavailable(c, "prediction cache")
		return
	}
	deleted, err := h.cache.Clear(c.Request.Context())
	if err != nil {
		h.log.Error("Cache clear failed", "error", err.Error())
		response.RespondError(c, http.StatusInternalServerError, "clear_failed", err)
		return
	}
	response.RespondOK(c, gin.H{
		"success": true,
		"deleted": deleted,
	})
}
