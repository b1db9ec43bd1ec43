package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/playfinity/playfinity-backend/internal/http/response"
	"github.com/playfinity/playfinity-backend/internal/pkg/logger"
	"github.com/playfinity/playfinity-backend/internal/services"
)

type LetterHandler struct {
	log *logger.Logger
	svc *services.LetterService
}

func NewLetterHandler(log *logger.Logger, svc *services.LetterService) *LetterHandler {
	return &LetterHandler{
		log: log.With("handler", "LetterHandler"),
		svc: svc,
	}
}

// CheckLetter accepts a multipart drawing plus the expected letter and
// reports whether they match.
func (h *LetterHandler) CheckLetter(c *gin.Context) {
	if !h.svc.Enabled() {
		response.RespondUnavailable(c, "letter recognition")
		return
	}

	expected := strings.TrimSpace(c.PostForm("expected_letter"))
	if expected == "" {
		expected = strings.TrimSpace(c.PostForm("letter"))
	}
	if expected == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_letter", fmt.Errorf("expected_letter is required"))
		return
	}

	data, _, err := readUploadedImage(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_image", err)
		return
	}

	result := h.svc.CheckLetter(c.Request.Context(), data, expected)
	response.RespondOK(c, result)
}
