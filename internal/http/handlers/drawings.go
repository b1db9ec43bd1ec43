package handlers

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/playfinity/playfinity-backend/internal/clients/gcp"
	"github.com/playfinity/playfinity-backend/internal/http/response"
	"github.com/playfinity/playfinity-backend/internal/pkg/logger"
	"github.com/playfinity/playfinity-backend/internal/pkg/topickey"
)

type DrawingHandler struct {
	log    *logger.Logger
	bucket gcp.BucketService
}

func NewDrawingHandler(log *logger.Logger, bucket gcp.BucketService) *DrawingHandler {
	return &DrawingHandler{
		log:    log.With("handler", "DrawingHandler"),
		bucket: bucket,
	}
}

type saveDrawingRequest struct {
	Image string `json:"image" binding:"required"`
	Topic string `json:"topic"`
}

// SaveDrawing persists a data-URL PNG from the drawing game and returns
// its public URL.
func (h *DrawingHandler) SaveDrawing(c *gin.Context) {
	if h.bucket == nil {
		response.RespondUnavailable(c, "drawing storage")
		return
	}

	var req saveDrawingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	data, err := decodeDataURLPNG(req.Image)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_image", err)
		return
	}

	topic := req.Topic
	if topic == "" {
		topic = "untitled"
	}
	key := fmt.Sprintf("drawings/%s/%s.png", topickey.Normalize(topic), uuid.NewString()[:8])

	if err := h.bucket.UploadBytes(c.Request.Context(), key, data); err != nil {
		h.log.Error("Drawing upload failed", "key", key, "error", err.Error())
		response.RespondError(c, http.StatusInternalServerError, "upload_failed", err)
		return
	}

	response.RespondOK(c, gin.H{
		"success": true,
		"url":     h.bucket.GetPublicURL(key),
	})
}

func decodeDataURLPNG(raw string) ([]byte, error) {
	payload := raw
	if strings.HasPrefix(raw, "data:") {
		idx := strings.Index(raw, ",")
		if idx < 0 {
			return nil, fmt.Errorf("malformed data URL")
		}
		header := raw[:idx]
		if !strings.Contains(header, "image/") {
			return nil, fmt.Errorf("data URL is not an image")
		}
		payload = raw[idx+1:]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode image payload: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image payload")
	}
	if len(data) > maxUploadBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", maxUploadBytes)
	}
	return data, nil
}
