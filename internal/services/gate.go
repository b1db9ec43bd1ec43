package services

import (
	"context"

	"github.com/playfinity/playfinity-backend/internal/clients/gcp"
	"github.com/playfinity/playfinity-backend/internal/pkg/logger"
	"github.com/playfinity/playfinity-backend/internal/types"
)

// TopicGate is the shared read path deciding whether a (topic, age
// group) pair already has a materialized bundle. Pure read; both the
// validation endpoint and the materializer go through it.
type TopicGate struct {
	log   *logger.Logger
	store gcp.DocumentStore
}

func NewTopicGate(log *logger.Logger, store gcp.DocumentStore) *TopicGate {
	return &TopicGate{
		log:   log.With("service", "TopicGate"),
		store: store,
	}
}

func (tg *TopicGate) Enabled() bool {
	return tg != nil && tg.store != nil
}

// Exists reads every game document under the pair's path. Zero
// documents means (false, nil).
func (tg *TopicGate) Exists(ctx context.Context, topic, ageGroup string) (bool, types.StoredBundle, error) {
	if !tg.Enabled() {
		return false, nil, nil
	}

	docs, err := tg.store.List(ctx, gamesCollectionPath(topic, ageGroup))
	if err != nil {
		return false, nil, err
	}
	if len(docs) == 0 {
		tg.log.Debug("No stored games", "topic", topic, "age_group", ageGroup)
		return false, nil, nil
	}

	bundle := types.StoredBundle{}
	for _, doc := range docs {
		bundle[doc.ID] = doc.Data
	}
	tg.log.Debug("Found stored games", "topic", topic, "age_group", ageGroup, "games", len(bundle))
	return true, bundle, nil
}
