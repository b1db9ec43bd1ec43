package services

import (
	"context"
	"errors"

	"github.com/playfinity/playfinity-backend/internal/clients/gcp"
	"github.com/playfinity/playfinity-backend/internal/clients/openai"
	"github.com/playfinity/playfinity-backend/internal/pkg/logger"
	"github.com/playfinity/playfinity-backend/internal/types"
)

// ErrVisionUnavailable is returned when no vision client is configured.
var ErrVisionUnavailable = errors.New("vision client unavailable")

// PredictionResult is the outcome of analyzing one uploaded image.
type PredictionResult struct {
	Label        string              `json:"label"`
	Confidence   float64             `json:"confidence"`
	Description  string              `json:"description"`
	Tags         []types.Tag         `json:"tags"`
	Topics       []string            `json:"topics"`
	DomainTopics *types.DomainTopics `json:"domain_topics,omitempty"`
	Cached       bool                `json:"cached"`
}

// PredictionService turns an uploaded image into a primary label plus
// an educational topic taxonomy, consulting the prediction cache before
// generating anything.
type PredictionService struct {
	log     *logger.Logger
	tagger  gcp.Tagger
	caption openai.Caption
	topics  TopicGenerator
	cache   *PredictionCache
}

func NewPredictionService(log *logger.Logger, tagger gcp.Tagger, caption openai.Caption, topics TopicGenerator, cache *PredictionCache) *PredictionService {
	return &PredictionService{
		log:     log.With("service", "PredictionService"),
		tagger:  tagger,
		caption: caption,
		topics:  topics,
		cache:   cache,
	}
}

// Predict labels the image, derives a description, and returns the
// topic taxonomy for its primary subject. A cache hit returns the
// stored taxonomy and bumps the access counter; a miss generates,
// saves, and returns fresh topics.
func (ps *PredictionService) Predict(ctx context.Context, img []byte, mimeType string) (PredictionResult, error) {
	if ps.tagger == nil {
		return PredictionResult{}, ErrVisionUnavailable
	}

	tags, err := ps.tagger.LabelImage(ctx, img)
	if err != nil {
		return PredictionResult{}, err
	}

	description := ""
	if ps.caption != nil {
		if d, err := ps.caption.DescribeImage(ctx, img, mimeType); err != nil {
			ps.log.Warn("Image description failed", "error", err.Error())
		} else {
			description = d
		}
	}

	label := PrimaryLabel(tags, description)
	confidence := 0.0
	for _, t := range tags {
		if t.Confidence > confidence {
			confidence = t.Confidence
		}
	}

	if ps.cache != nil && ps.cache.Enabled() {
		if entry := ps.cache.CheckHit(ctx, tags, description); entry != nil {
			ps.cache.TouchAccess(ctx, label)
			ps.log.Info("Prediction served from cache", "label", label)
			storedLabel := docString(entry, "primary_label")
			if storedLabel == "" {
				storedLabel = label
			}
			return PredictionResult{
				Label:        storedLabel,
				Confidence:   confidence,
				Description:  description,
				Tags:         tags,
				Topics:       docStrings(entry, "all_topics"),
				DomainTopics: entryDomainTopics(entry),
				Cached:       true,
			}, nil
		}
	}

	tagNames := make([]string, 0, len(tags))
	for _, t := range tags {
		tagNames = append(tagNames, t.Name)
	}

	var domainTopics *types.DomainTopics
	if ps.topics != nil {
		domainTopics, _ = ps.topics.GenerateDomainTopics(ctx, description, tagNames, label)
	}
	allTopics := flattenDomainTopics(domainTopics)

	if ps.cache != nil && ps.cache.Enabled() {
		ps.cache.Save(ctx, tags, description, label, allTopics, domainTopics)
	}

	return PredictionResult{
		Label:        label,
		Confidence:   confidence,
		Description:  description,
		Tags:         tags,
		Topics:       allTopics,
		DomainTopics: domainTopics,
		Cached:       false,
	}, nil
}

// RelatedTopics produces a flat topic list across the most confident
// tags, without touching the cache.
func (ps *PredictionService) RelatedTopics(ctx context.Context, tags []types.Tag, description string) []string {
	if ps.topics == nil {
		return []string{}
	}
	return ps.topics.TopicsFromTags(ctx, tags, description)
}

func flattenDomainTopics(dt *types.DomainTopics) []string {
	if dt == nil {
		return []string{}
	}
	var out []string
	for _, d := range dt.Domains {
		out = append(out, d.Topics...)
	}
	return uniqueStrings(out)
}

// entryDomainTopics rebuilds the typed taxonomy from a stored cache
// document, tolerating missing or malformed fields.
func entryDomainTopics(entry map[string]any) *types.DomainTopics {
	raw := docMap(entry, "domain_topics")
	if raw == nil {
		return nil
	}
	dt := &types.DomainTopics{
		PrimarySubject: docString(raw, "primary_subject"),
	}
	domains, ok := raw["domains"].([]any)
	if !ok {
		return dt
	}
	for _, item := range domains {
		dm, ok := item.(map[string]any)
		if !ok {
			continue
		}
		dt.Domains = append(dt.Domains, types.DomainGroup{
			Domain: docString(dm, "domain"),
			Topics: docStrings(dm, "topics"),
		})
	}
	return dt
}
