package gcp

import (
	"context"
	"fmt"
	"math"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"

	"github.com/playfinity/playfinity-backend/internal/pkg/ctxutil"
	"github.com/playfinity/playfinity-backend/internal/pkg/envutil"
	"github.com/playfinity/playfinity-backend/internal/pkg/logger"
	"github.com/playfinity/playfinity-backend/internal/types"
)

// Tagger labels an uploaded image. Confidence is reported on a 0-100
// scale rounded to one decimal so downstream merging is stable.
type Tagger interface {
	LabelImage(ctx context.Context, img []byte) ([]types.Tag, error)
	Close() error
}

type tagger struct {
	log    *logger.Logger
	client *vision.ImageAnnotatorClient

	maxLabels int
}

func NewTagger(log *logger.Logger) (Tagger, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	slog := log.With("service", "gcp.Tagger")

	ctx := context.Background()
	vClient, err := vision.NewImageAnnotatorClient(ctx, ClientOptionsFromEnv()...)
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}

	return &tagger{
		log:       slog,
		client:    vClient,
		maxLabels: envutil.Int("VISION_MAX_LABELS", 10),
	}, nil
}

func (t *tagger) Close() error {
	if t == nil || t.client == nil {
		return nil
	}
	return t.client.Close()
}

func (t *tagger) LabelImage(ctx context.Context, img []byte) ([]types.Tag, error) {
	if len(img) == 0 {
		return []types.Tag{}, nil
	}

	ctx = ctxutil.Default(ctx)
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	req := &visionpb.AnnotateImageRequest{
		Image: &visionpb.Image{Content: img},
		Features: []*visionpb.Feature{
			{Type: visionpb.Feature_LABEL_DETECTION, MaxResults: int32(t.maxLabels)},
		},
	}

	br := &visionpb.BatchAnnotateImagesRequest{Requests: []*visionpb.AnnotateImageRequest{req}}
	resp, err := t.client.BatchAnnotateImages(ctx, br)
	if err != nil {
		return nil, fmt.Errorf("vision BatchAnnotateImages: %w", err)
	}
	if resp == nil || len(resp.Responses) == 0 || resp.Responses[0] == nil {
		return []types.Tag{}, nil
	}

	r0 := resp.Responses[0]
	if r0.Error != nil && r0.Error.Message != "" {
		return nil, fmt.Errorf("vision annotate error: %s", r0.Error.Message)
	}

	tags := make([]types.Tag, 0, len(r0.LabelAnnotations))
	for _, ann := range r0.LabelAnnotations {
		if ann == nil || ann.Description == "" {
			continue
		}
		tags = append(tags, types.Tag{
			Name:       ann.Description,
			Confidence: roundConfidence(float64(ann.Score)),
		})
	}
	return tags, nil
}

// roundConfidence maps a 0-1 score onto 0-100 with one decimal.
func roundConfidence(score float64) float64 {
	return math.Round(score*1000) / 10
}
