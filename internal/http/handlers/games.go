package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/playfinity/playfinity-backend/internal/http/response"
	"github.com/playfinity/playfinity-backend/internal/pkg/logger"
	"github.com/playfinity/playfinity-backend/internal/services"
)

type GamesHandler struct {
	log  *logger.Logger
	svc  *services.GamesService
	gate *services.TopicGate
}

func NewGamesHandler(log *logger.Logger, svc *services.GamesService, gate *services.TopicGate) *GamesHandler {
	return &GamesHandler{
		log:  log.With("handler", "GamesHandler"),
		svc:  svc,
		gate: gate,
	}
}

type generateGamesRequest struct {
	Topic    string   `json:"topic" binding:"required"`
	AgeGroup string   `json:"age_group"`
	Domain   string   `json:"domain"`
	Tags     []string `json:"tags"`
}

// mapAgeGroup folds the client-facing display ranges onto the stored
// age-group id.
func mapAgeGroup(raw string) string {
	switch raw {
	case "", "7-11", "5-10":
		return "2"
	default:
		return raw
	}
}

// GenerateGames materializes the bundle for a pair. The envelope is
// always a success; degraded outcomes surface through source/error.
func (h *GamesHandler) GenerateGames(c *gin.Context) {
	var req generateGamesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	ageGroup := mapAgeGroup(req.AgeGroup)

	res := h.svc.Materialize(c.Request.Context(), req.Topic, ageGroup, req.Domain, req.Tags)

	payload := gin.H{
		"success":   true,
		"topic":     req.Topic,
		"age_group": ageGroup,
		"games":     res.Games,
		"images":    res.Images,
		"source":    res.Source,
		"saved":     res.Saved,
	}
	if res.Error != "" {
		payload["error"] = res.Error
	}
	response.RespondOK(c, payload)
}

type validateTopicRequest struct {
	Topic    string `json:"topic" binding:"required"`
	AgeGroup string `json:"age_group"`
}

// ValidateTopic reports whether a bundle already exists, returning it
// on a hit so clients skip the generate round-trip.
func (h *GamesHandler) ValidateTopic(c *gin.Context) {
	var req validateTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if !h.gate.Enabled() {
		response.RespondUnavailable(c, "topic validation")
		return
	}
	ageGroup := mapAgeGroup(req.AgeGroup)

	exists, bundle, err := h.gate.Exists(c.Request.Context(), req.Topic, ageGroup)
	if err != nil {
		h.log.Error("Topic validation failed", "topic", req.Topic, "error", err.Error())
		response.RespondError(c, http.StatusInternalServerError, "validation_failed", err)
		return
	}

	payload := gin.H{
		"success":   true,
		"topic":     req.Topic,
		"age_group": ageGroup,
		"exists":    exists,
	}
	if exists {
		payload["games"] = bundle
		payload["images"] = bundle.GalleryImages()
	}
	response.RespondOK(c, payload)
}

// GetImage looks up one published gallery image by prompt-order index.
func (h *GamesHandler) GetImage(c *gin.Context) {
	topic := c.Param("topic")
	ageGroup := mapAgeGroup(c.Param("ageGroup"))
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_index", fmt.Errorf("index must be a number"))
		return
	}
	if !h.gate.Enabled() {
		response.RespondUnavailable(c, "image lookup")
		return
	}

	exists, bundle, err := h.gate.Exists(c.Request.Context(), topic, ageGroup)
	if err != nil {
		response.RespondError(c, http.StatusInternalServerError, "lookup_failed", err)
		return
	}
	if !exists {
		response.RespondError(c, http.StatusNotFound, "topic_not_found", fmt.Errorf("no games stored for %q", topic))
		return
	}

	for _, ref := range bundle.GalleryImages() {
		if ref.Index == index {
			response.RespondOK(c, gin.H{"success": true, "image": ref})
			return
		}
	}
	response.RespondError(c, http.StatusNotFound, "image_not_found", fmt.Errorf("no image at index %d for %q", index, topic))
}
