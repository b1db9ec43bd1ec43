package services

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"time"

	"github.com/playfinity/playfinity-backend/internal/clients/gcp"
	rediscache "github.com/playfinity/playfinity-backend/internal/clients/redis"
	"github.com/playfinity/playfinity-backend/internal/pkg/logger"
	"github.com/playfinity/playfinity-backend/internal/pkg/topickey"
	"github.com/playfinity/playfinity-backend/internal/types"
)

const (
	maxExampleDescriptions = 10
	maxExampleTags         = 5
	descriptionSampleLen   = 200
	topRankings            = 5
)

// PredictionCache stores previously generated related-topics results
// keyed by normalized primary label. Writes merge into existing
// entries: created_at is write-once, descriptions accumulate without
// duplicates, and the access counter carries forward.
//
// A nil store disables the feature; every operation then degrades to a
// miss or no-op instead of failing.
type PredictionCache struct {
	log   *logger.Logger
	store gcp.DocumentStore
	hot   rediscache.EntryCache

	now func() time.Time
}

func NewPredictionCache(log *logger.Logger, store gcp.DocumentStore, hot rediscache.EntryCache) *PredictionCache {
	return &PredictionCache{
		log:   log.With("service", "PredictionCache"),
		store: store,
		hot:   hot,
		now:   time.Now,
	}
}

func (pc *PredictionCache) Enabled() bool {
	return pc != nil && pc.store != nil
}

// CheckHit derives the primary label from tags/description and returns
// the stored entry for it, or nil on a miss. Read-only; storage errors
// degrade to a miss.
func (pc *PredictionCache) CheckHit(ctx context.Context, tags []types.Tag, description string) map[string]any {
	if !pc.Enabled() || len(tags) == 0 {
		return nil
	}

	primaryLabel := PrimaryLabel(tags, description)
	key := topickey.Normalize(primaryLabel)

	if pc.hot != nil {
		if data, ok := pc.hot.GetEntry(ctx, key); ok {
			pc.log.Debug("Prediction cache hot hit", "key", key)
			return data
		}
	}

	data, found, err := pc.store.Get(ctx, predictionEntryPath(primaryLabel))
	if err != nil {
		pc.log.Warn("Prediction cache check failed", "key", key, "error", err.Error())
		return nil
	}
	if !found {
		pc.log.Debug("Prediction cache miss", "key", key)
		return nil
	}

	if pc.hot != nil {
		pc.hot.SetEntry(ctx, key, data)
	}
	pc.log.Info("Prediction cache hit",
		"key", key,
		"topic_count", docInt64(data, "topic_count"),
		"access_count", docInt64(data, "access_count"),
	)
	return data
}

// Save writes a prediction under the normalized primary label, merging
// into any existing entry. Empty tags or an unresolved label make the
// save a silent no-op returning false; so does any storage failure.
func (pc *PredictionCache) Save(ctx context.Context, tags []types.Tag, description, primaryLabel string, allTopics []string, domainTopics *types.DomainTopics) bool {
	if !pc.Enabled() || len(tags) == 0 || primaryLabel == "" {
		pc.log.Debug("Prediction cache save skipped: missing requirements")
		return false
	}

	key := topickey.Normalize(primaryLabel)
	path := predictionEntryPath(primaryLabel)
	nowStr := pc.now().UTC().Format(time.RFC3339)

	tagDocs := make([]map[string]any, 0, len(tags))
	tagNames := make([]string, 0, maxExampleTags)
	for i, t := range tags {
		tagDocs = append(tagDocs, map[string]any{"name": t.Name, "confidence": t.Confidence})
		if i < maxExampleTags {
			tagNames = append(tagNames, t.Name)
		}
	}

	descriptions := []string{}
	if description != "" {
		descriptions = append(descriptions, description)
	}

	data := map[string]any{
		"topic":              primaryLabel,
		"cache_key":          key,
		"primary_label":      primaryLabel,
		"description_sample": truncateRunes(description, descriptionSampleLen),
		"tags":               tagDocs,
		"all_topics":         allTopics,
		"topic_count":        len(allTopics),
		"created_at":         nowStr,
		"last_accessed":      nowStr,
		"access_count":       int64(1),
		"examples": map[string]any{
			"descriptions":     descriptions,
			"tag_combinations": tagNames,
		},
	}
	if domainTopics != nil {
		data["domain_topics"] = domainTopicsDoc(domainTopics)
		data["has_structured_domains"] = true
	} else {
		data["has_structured_domains"] = false
	}

	existing, found, err := pc.store.Get(ctx, path)
	if err != nil {
		pc.log.Warn("Prediction cache save: read failed", "key", key, "error", err.Error())
		return false
	}
	if found {
		merged := docStrings(docMap(existing, "examples"), "descriptions")
		if description != "" && !containsString(merged, description) {
			merged = append(merged, description)
		}
		if len(merged) > maxExampleDescriptions {
			merged = merged[len(merged)-maxExampleDescriptions:]
		}
		data["examples"].(map[string]any)["descriptions"] = merged
		data["access_count"] = docInt64(existing, "access_count") + 1
		if created := docString(existing, "created_at"); created != "" {
			data["created_at"] = created
		}
		pc.log.Info("Updating prediction cache entry", "key", key, "access_count", data["access_count"])
	} else {
		pc.log.Info("Creating prediction cache entry", "key", key, "topic_count", len(allTopics))
	}

	if err := pc.store.Set(ctx, path, data); err != nil {
		pc.log.Warn("Prediction cache save failed", "key", key, "error", err.Error())
		return false
	}
	if pc.hot != nil {
		pc.hot.SetEntry(ctx, key, data)
	}
	return true
}

// TouchAccess bumps the access counter and last-accessed timestamp on
// an existing entry. Missing entries and storage errors are no-ops.
func (pc *PredictionCache) TouchAccess(ctx context.Context, primaryLabel string) {
	if !pc.Enabled() || primaryLabel == "" {
		return
	}
	key := topickey.Normalize(primaryLabel)
	path := predictionEntryPath(primaryLabel)

	_, found, err := pc.store.Get(ctx, path)
	if err != nil || !found {
		if err != nil {
			pc.log.Warn("Cache access touch: read failed", "key", key, "error", err.Error())
		}
		return
	}

	err = pc.store.UpdateFields(ctx, path, map[string]any{
		"last_accessed": pc.now().UTC().Format(time.RFC3339),
		"access_count":  gcp.Increment(1),
	})
	if err != nil {
		pc.log.Warn("Cache access touch failed", "key", key, "error", err.Error())
		return
	}
	// Re-read and refresh the hot copy so a hit followed by a touch
	// stays warm; invalidate only when the re-read fails.
	if pc.hot != nil {
		if data, found, err := pc.store.Get(ctx, path); err == nil && found {
			pc.hot.SetEntry(ctx, key, data)
		} else {
			pc.hot.Invalidate(ctx, key)
		}
	}
}

// Entry returns the stored entry for a topic name, if any.
func (pc *PredictionCache) Entry(ctx context.Context, topic string) (map[string]any, bool) {
	if !pc.Enabled() {
		return nil, false
	}
	data, found, err := pc.store.Get(ctx, predictionEntryPath(topic))
	if err != nil {
		pc.log.Warn("Cache entry read failed", "topic", topic, "error", err.Error())
		return nil, false
	}
	return data, found
}

// Statistics aggregates across all entries. An empty or disabled cache
// yields zero counts and zero averages.
func (pc *PredictionCache) Statistics(ctx context.Context) types.CacheStats {
	stats := types.CacheStats{
		MostPopularTopics: []types.TopicSummary{},
		RecentTopics:      []types.TopicSummary{},
	}
	if !pc.Enabled() {
		return stats
	}

	docs, err := pc.store.List(ctx, predictionCacheCollection)
	if err != nil {
		pc.log.Warn("Cache statistics list failed", "error", err.Error())
		return stats
	}

	summaries := make([]types.TopicSummary, 0, len(docs))
	for _, doc := range docs {
		topicName := docString(doc.Data, "topic")
		if topicName == "" {
			topicName = doc.ID
		}
		s := types.TopicSummary{
			Topic:       topicName,
			AccessCount: docInt64(doc.Data, "access_count"),
			TopicCount:  int(docInt64(doc.Data, "topic_count")),
			CreatedAt:   docString(doc.Data, "created_at"),
		}
		stats.TotalCachedTopics++
		stats.TotalGeneratedTopics += s.TopicCount
		stats.TotalCacheHits += s.AccessCount
		summaries = append(summaries, s)
	}

	byAccess := make([]types.TopicSummary, len(summaries))
	copy(byAccess, summaries)
	sort.SliceStable(byAccess, func(i, j int) bool {
		return byAccess[i].AccessCount > byAccess[j].AccessCount
	})
	stats.MostPopularTopics = topN(byAccess, topRankings)

	byRecency := make([]types.TopicSummary, len(summaries))
	copy(byRecency, summaries)
	sort.SliceStable(byRecency, func(i, j int) bool {
		return byRecency[i].CreatedAt > byRecency[j].CreatedAt
	})
	stats.RecentTopics = topN(byRecency, topRankings)

	if stats.TotalCachedTopics > 0 {
		n := float64(stats.TotalCachedTopics)
		stats.AvgTopicsPerEntry = round2(float64(stats.TotalGeneratedTopics) / n)
		stats.AvgAccessPerTopic = round2(float64(stats.TotalCacheHits) / n)
	}
	return stats
}

// Clear deletes every cache entry and returns the count removed.
func (pc *PredictionCache) Clear(ctx context.Context) (int, error) {
	if !pc.Enabled() {
		return 0, nil
	}

	docs, err := pc.store.List(ctx, predictionCacheCollection)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, doc := range docs {
		if err := pc.store.Delete(ctx, predictionCacheCollection+"/"+doc.ID); err != nil {
			pc.log.Warn("Cache clear: delete failed", "id", doc.ID, "error", err.Error())
			continue
		}
		deleted++
	}
	if pc.hot != nil {
		pc.hot.InvalidateAll(ctx)
	}
	pc.log.Info("Prediction cache cleared", "deleted", deleted)
	return deleted, nil
}

func domainTopicsDoc(dt *types.DomainTopics) map[string]any {
	raw, err := json.Marshal(dt)
	if err != nil {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func topN(list []types.TopicSummary, n int) []types.TopicSummary {
	if len(list) > n {
		list = list[:n]
	}
	return list
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
