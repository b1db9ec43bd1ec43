package services

import (
	"fmt"

	"github.com/playfinity/playfinity-backend/internal/pkg/topickey"
)

// Document store layout. Both the materializer and the prediction cache
// address records through topickey.Normalize so "Dog!!" and "dog" land
// on the same documents.
const predictionCacheCollection = "prediction_cache"

func predictionEntryPath(primaryLabel string) string {
	return fmt.Sprintf("%s/%s", predictionCacheCollection, topickey.Normalize(primaryLabel))
}

func ageGroupPath(topic, ageGroup string) string {
	return fmt.Sprintf("topics/%s/agegrps/%s", topickey.Normalize(topic), ageGroup)
}

func gamesCollectionPath(topic, ageGroup string) string {
	return fmt.Sprintf("%s/games", ageGroupPath(topic, ageGroup))
}

func gamePath(topic, ageGroup, gameType string) string {
	return fmt.Sprintf("%s/games/%s", ageGroupPath(topic, ageGroup), gameType)
}
