package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/playfinity/playfinity-backend/internal/pkg/ctxutil"
	"github.com/playfinity/playfinity-backend/internal/pkg/logger"
)

// Caption produces a short plain-language description of an uploaded
// image, used alongside vision tags to pick the primary subject.
type Caption interface {
	DescribeImage(ctx context.Context, img []byte, mimeType string) (string, error)
}

type caption struct {
	log    *logger.Logger
	client Client
}

func NewCaption(log *logger.Logger, client Client) (Caption, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if client == nil {
		return nil, fmt.Errorf("openai client required")
	}
	return &caption{
		log:    log.With("service", "Caption"),
		client: client,
	}, nil
}

func (c *caption) DescribeImage(ctx context.Context, img []byte, mimeType string) (string, error) {
	if len(img) == 0 {
		return "", fmt.Errorf("image bytes required")
	}
	mimeType = strings.TrimSpace(mimeType)
	if mimeType == "" {
		mimeType = "image/png"
	}

	ctx = ctxutil.Default(ctx)
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	system := "You describe photos for a children's learning app. Answer with one short, friendly sentence about the main subject. No preamble."
	user := "What is the main subject of this image? One sentence."

	raw, err := c.client.GenerateTextWithImages(ctx, system, user, []ImageInput{
		{ImageURL: dataURL(mimeType, img), Detail: "low"},
	})
	if err != nil {
		return "", err
	}

	desc := strings.TrimSpace(raw)
	// Keep only the first line; some models add commentary.
	if i := strings.IndexByte(desc, '\n'); i >= 0 {
		desc = strings.TrimSpace(desc[:i])
	}
	if desc == "" {
		return "", fmt.Errorf("empty caption")
	}
	return desc, nil
}

func dataURL(mime string, b []byte) string {
	enc := base64.StdEncoding.EncodeToString(b)
	return fmt.Sprintf("data:%s;base64,%s", mime, enc)
}
