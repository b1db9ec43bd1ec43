package services

import (
	"context"
	"time"

	"github.com/playfinity/playfinity-backend/internal/clients/openai"
	"github.com/playfinity/playfinity-backend/internal/pkg/logger"
	"github.com/playfinity/playfinity-backend/internal/types"
)

// ImageSynthesizer renders one image per prompt, in prompt order.
// Synthesis is best effort: prompts that fail are skipped and the
// remaining images keep their original indices.
type ImageSynthesizer interface {
	Synthesize(ctx context.Context, prompts []string, topic string) []types.SynthesizedImage
}

type imageService struct {
	log    *logger.Logger
	client openai.Client
}

func NewImageSynthesizer(log *logger.Logger, client openai.Client) ImageSynthesizer {
	return &imageService{
		log:    log.With("service", "ImageSynthesizer"),
		client: client,
	}
}

func (is *imageService) Synthesize(ctx context.Context, prompts []string, topic string) []types.SynthesizedImage {
	if is.client == nil || len(prompts) == 0 {
		return nil
	}

	out := make([]types.SynthesizedImage, 0, len(prompts))
	for i, prompt := range prompts {
		genCtx, cancel := context.WithTimeout(ctx, 3*time.Minute)
		img, err := is.client.GenerateImage(genCtx, enhanceImagePrompt(prompt))
		cancel()
		if err != nil {
			is.log.Warn("Image synthesis failed", "topic", topic, "index", i, "error", err.Error())
			continue
		}
		out = append(out, types.SynthesizedImage{
			Index:  i,
			Prompt: prompt,
			Data:   img.Bytes,
		})
	}
	is.log.Info("Synthesized gallery images", "topic", topic, "requested", len(prompts), "produced", len(out))
	return out
}
