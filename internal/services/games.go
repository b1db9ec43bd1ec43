package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/playfinity/playfinity-backend/internal/clients/gcp"
	"github.com/playfinity/playfinity-backend/internal/pkg/logger"
	"github.com/playfinity/playfinity-backend/internal/pkg/topickey"
	"github.com/playfinity/playfinity-backend/internal/types"
)

// GamesService materializes game bundles for (topic, age group) pairs:
// check for an existing bundle, generate content, synthesize and
// publish gallery images, persist, then re-read the canonical stored
// form. Once any game document exists for a pair this path never
// regenerates it.
//
// Concurrent requests for the same pair are coalesced per process so
// only one generation runs; followers receive the leader's result.
type GamesService struct {
	log     *logger.Logger
	store   gcp.DocumentStore
	bucket  gcp.BucketService
	gate    *TopicGate
	content ContentGenerator
	images  ImageSynthesizer

	group     singleflight.Group
	now       func() time.Time
	newSuffix func() string
}

// NewGamesService wires the materializer. bucket and images may be nil;
// generation then proceeds without a gallery image set. A nil store
// disables persistence entirely.
func NewGamesService(log *logger.Logger, store gcp.DocumentStore, bucket gcp.BucketService, gate *TopicGate, content ContentGenerator, images ImageSynthesizer) *GamesService {
	return &GamesService{
		log:       log.With("service", "GamesService"),
		store:     store,
		bucket:    bucket,
		gate:      gate,
		content:   content,
		images:    images,
		now:       time.Now,
		newSuffix: func() string { return uuid.NewString()[:8] },
	}
}

// Materialize runs the full state machine for one pair. It always
// returns a usable result; failures surface as Source fallback with
// diagnostic text, never as an error.
func (gs *GamesService) Materialize(ctx context.Context, topic, ageGroup, domain string, tags []string) types.MaterializeResult {
	flightKey := topickey.Normalize(topic) + "|" + ageGroup
	v, _, _ := gs.group.Do(flightKey, func() (any, error) {
		return gs.materialize(ctx, topic, ageGroup, domain, tags), nil
	})
	return v.(types.MaterializeResult)
}

func (gs *GamesService) materialize(ctx context.Context, topic, ageGroup, domain string, tags []string) types.MaterializeResult {
	// Check: an existing bundle is terminal.
	exists, stored, err := gs.gate.Exists(ctx, topic, ageGroup)
	if err != nil {
		gs.log.Warn("Existence check failed, proceeding as miss", "topic", topic, "error", err.Error())
	}
	if exists {
		gs.log.Info("Returning existing games", "topic", topic, "age_group", ageGroup)
		return types.MaterializeResult{
			Games:  stored,
			Images: stored.GalleryImages(),
			Source: types.SourceExisting,
			Saved:  true,
		}
	}

	// Generate content.
	outcome := gs.content.GenerateGames(ctx, topic, ageGroup, tags, domain)
	source := types.SourceGenerated
	reason := ""
	if outcome.Fallback {
		source = types.SourceFallback
		reason = outcome.Reason
	}
	bundle := outcome.Bundle

	// Generate images, best effort.
	var synthesized []types.SynthesizedImage
	if gs.images != nil && len(bundle.Gallery.ImagePrompts) > 0 {
		synthesized = gs.images.Synthesize(ctx, bundle.Gallery.ImagePrompts, topic)
	}

	// Publish images before anything references them.
	published := gs.publishImages(ctx, topic, synthesized)

	if gs.store == nil {
		gs.log.Warn("Document store unavailable, returning unsaved bundle", "topic", topic)
		return types.MaterializeResult{
			Games:  bundleDocs(bundle, published, gs.nowString()),
			Images: published,
			Source: source,
			Error:  reason,
		}
	}

	// Persist: metadata first, gallery last, so no reader observes a
	// dangling reference.
	if err := gs.persist(ctx, topic, ageGroup, domain, tags, bundle, published); err != nil {
		gs.log.Error("Persisting games failed", "topic", topic, "age_group", ageGroup, "error", err.Error())
		return types.MaterializeResult{
			Games:  bundleDocs(bundle, published, gs.nowString()),
			Images: published,
			Source: types.SourceFallback,
			Error:  "persist failed: " + err.Error(),
		}
	}

	// Re-read so the caller sees exactly what is durably stored.
	_, reread, err := gs.gate.Exists(ctx, topic, ageGroup)
	if err != nil || reread == nil {
		if err != nil {
			gs.log.Warn("Re-read after persist failed", "topic", topic, "error", err.Error())
		}
		return types.MaterializeResult{
			Games:  bundleDocs(bundle, published, gs.nowString()),
			Images: published,
			Source: source,
			Saved:  true,
			Error:  reason,
		}
	}

	gs.log.Info("Materialized games", "topic", topic, "age_group", ageGroup, "source", source, "images", len(published))
	return types.MaterializeResult{
		Games:  reread,
		Images: reread.GalleryImages(),
		Source: source,
		Saved:  true,
		Error:  reason,
	}
}

// publishImages uploads each synthesized image and builds refs only for
// the uploads that succeeded, preserving original prompt-order indices.
func (gs *GamesService) publishImages(ctx context.Context, topic string, images []types.SynthesizedImage) []types.ImageRef {
	if gs.bucket == nil || len(images) == 0 {
		return []types.ImageRef{}
	}

	safeTopic := topickey.Normalize(topic)
	refs := make([]types.ImageRef, 0, len(images))
	for _, img := range images {
		if len(img.Data) == 0 {
			continue
		}
		filename := fmt.Sprintf("%s_image_%d", safeTopic, img.Index)
		objectKey := fmt.Sprintf("topics/%s/%s_%s.png", safeTopic, filename, gs.newSuffix())

		if err := gs.bucket.UploadBytes(ctx, objectKey, img.Data); err != nil {
			gs.log.Warn("Image upload failed, dropping from gallery", "topic", topic, "index", img.Index, "error", err.Error())
			continue
		}
		refs = append(refs, types.ImageRef{
			URL:      gs.bucket.GetPublicURL(objectKey),
			Prompt:   img.Prompt,
			Index:    img.Index,
			Filename: filename + ".png",
		})
	}
	gs.log.Info("Published gallery images", "topic", topic, "uploaded", len(refs), "of", len(images))
	return refs
}

func (gs *GamesService) persist(ctx context.Context, topic, ageGroup, domain string, tags []string, bundle types.GameBundle, refs []types.ImageRef) error {
	nowStr := gs.nowString()

	metadata := map[string]any{
		"topic":      topic,
		"age_group":  ageGroup,
		"domain":     domain,
		"tags":       tags,
		"created_at": nowStr,
	}
	if err := gs.store.Set(ctx, ageGroupPath(topic, ageGroup), metadata); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}

	docs := bundleDocs(bundle, refs, nowStr)
	for _, gt := range types.AllGameTypes {
		if gt == types.GameGallery {
			continue
		}
		if err := gs.store.Set(ctx, gamePath(topic, ageGroup, string(gt)), docs[string(gt)]); err != nil {
			return fmt.Errorf("write %s game: %w", gt, err)
		}
	}
	// Gallery goes last, and only with published refs.
	if err := gs.store.Set(ctx, gamePath(topic, ageGroup, string(types.GameGallery)), docs[string(types.GameGallery)]); err != nil {
		return fmt.Errorf("write gallery game: %w", err)
	}
	return nil
}

func (gs *GamesService) nowString() string {
	return gs.now().UTC().Format(time.RFC3339)
}

// bundleDocs converts the typed bundle into per-game documents, with
// the gallery's images field set to the published refs only.
func bundleDocs(bundle types.GameBundle, refs []types.ImageRef, nowStr string) types.StoredBundle {
	if refs == nil {
		refs = []types.ImageRef{}
	}
	bundle.Gallery.Images = refs

	out := types.StoredBundle{}
	sections := map[string]any{
		string(types.GameSpelling): bundle.Spelling,
		string(types.GameDrawing):  bundle.Drawing,
		string(types.GameGallery):  bundle.Gallery,
		string(types.GameQuiz):     bundle.Quiz,
	}
	for name, section := range sections {
		doc := map[string]any{}
		if raw, err := json.Marshal(section); err == nil {
			_ = json.Unmarshal(raw, &doc)
		}
		doc["created_at"] = nowStr
		doc["last_updated"] = nowStr
		out[name] = doc
	}
	return out
}
