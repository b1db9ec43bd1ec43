package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/playfinity/playfinity-backend/internal/http/response"
	"github.com/playfinity/playfinity-backend/internal/pkg/logger"
	"github.com/playfinity/playfinity-backend/internal/services"
)

// Uploads beyond this are rejected before any client call.
const maxUploadBytes = 10 << 20

type PredictHandler struct {
	log *logger.Logger
	svc *services.PredictionService
}

func NewPredictHandler(log *logger.Logger, svc *services.PredictionService) *PredictHandler {
	return &PredictHandler{
		log: log.With("handler", "PredictHandler"),
		svc: svc,
	}
}

// Predict accepts a multipart image under "file" (or "image") and
// returns the label, caption, and topic taxonomy.
func (h *PredictHandler) Predict(c *gin.Context) {
	data, mimeType, err := readUploadedImage(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_image", err)
		return
	}

	result, err := h.svc.Predict(c.Request.Context(), data, mimeType)
	if err != nil {
		if errors.Is(err, services.ErrVisionUnavailable) {
			response.RespondUnavailable(c, "image prediction")
			return
		}
		h.log.Error("Prediction failed", "error", err.Error())
		response.RespondError(c, http.StatusInternalServerError, "prediction_failed", err)
		return
	}

	response.RespondOK(c, gin.H{
		"success":       true,
		"label":         result.Label,
		"confidence":    result.Confidence,
		"description":   result.Description,
		"tags":          result.Tags,
		"topics":        result.Topics,
		"domain_topics": result.DomainTopics,
		"cached":        result.Cached,
	})
}

func readUploadedImage(c *gin.Context) ([]byte, string, error) {
	file, err := c.FormFile("file")
	if err != nil {
		file, err = c.FormFile("image")
	}
	if err != nil {
		return nil, "", fmt.Errorf("missing image file")
	}
	if file.Size > maxUploadBytes {
		return nil, "", fmt.Errorf("image exceeds %d bytes", maxUploadBytes)
	}

	src, err := file.Open()
	if err != nil {
		return nil, "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("empty image file")
	}
	if len(data) > maxUploadBytes {
		return nil, "", fmt.Errorf("image exceeds %d bytes", maxUploadBytes)
	}

	mimeType := file.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return data, mimeType, nil
}
