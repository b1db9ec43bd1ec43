package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/playfinity/playfinity-backend/internal/types"
)

func dogTags() []types.Tag {
	return []types.Tag{
		{Name: "dog", Confidence: 95.5},
		{Name: "animal", Confidence: 88.2},
	}
}

func TestPredictGeneratesAndCaches(t *testing.T) {
	store := newFakeStore()
	cache := newTestCache(t, store, nil)
	topics := &fakeTopics{domains: &types.DomainTopics{
		PrimarySubject: "Dog",
		Domains: []types.DomainGroup{
			{Domain: "Biology", Topics: []string{"Dog Breeds", "Dog Senses"}},
			{Domain: "History", Topics: []string{"Dog Breeds", "Working Dogs"}},
		},
	}}

	ps := NewPredictionService(testLogger(t), &fakeTagger{tags: dogTags()}, &fakeCaption{description: "a happy dog"}, topics, cache)
	res, err := ps.Predict(context.Background(), []byte("img"), "image/png")
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}

	if res.Cached {
		t.Fatalf("first prediction must not be cached")
	}
	if res.Label != "Dog" {
		t.Fatalf("label = %q, want Dog", res.Label)
	}
	if res.Confidence != 95.5 {
		t.Fatalf("confidence = %v, want 95.5", res.Confidence)
	}
	want := []string{"Dog Breeds", "Dog Senses", "Working Dogs"}
	if len(res.Topics) != len(want) {
		t.Fatalf("topics = %v, want %v", res.Topics, want)
	}
	for i := range want {
		if res.Topics[i] != want[i] {
			t.Fatalf("topics = %v, want %v", res.Topics, want)
		}
	}
	if _, ok := store.docs["prediction_cache/dog"]; !ok {
		t.Fatalf("prediction not saved to cache")
	}
}

func TestPredictSecondCallHitsCache(t *testing.T) {
	store := newFakeStore()
	cache := newTestCache(t, store, nil)
	topics := &fakeTopics{domains: &types.DomainTopics{
		PrimarySubject: "Dog",
		Domains:        []types.DomainGroup{{Domain: "Biology", Topics: []string{"Dog Breeds"}}},
	}}

	ps := NewPredictionService(testLogger(t), &fakeTagger{tags: dogTags()}, &fakeCaption{description: "a dog"}, topics, cache)
	if _, err := ps.Predict(context.Background(), []byte("img"), "image/png"); err != nil {
		t.Fatalf("first Predict: %v", err)
	}

	res, err := ps.Predict(context.Background(), []byte("img2"), "image/png")
	if err != nil {
		t.Fatalf("second Predict: %v", err)
	}
	if !res.Cached {
		t.Fatalf("second prediction should hit the cache")
	}
	if len(res.Topics) != 1 || res.Topics[0] != "Dog Breeds" {
		t.Fatalf("cached topics = %v", res.Topics)
	}
	if res.DomainTopics == nil || res.DomainTopics.PrimarySubject != "Dog" {
		t.Fatalf("cached taxonomy = %+v", res.DomainTopics)
	}

	// The hit bumps the access counter on the stored entry.
	if got := docInt64(store.docs["prediction_cache/dog"], "access_count"); got < 1 {
		t.Fatalf("access_count = %d", got)
	}
	if len(store.updates) != 1 {
		t.Fatalf("expected one access touch, got %d", len(store.updates))
	}
}

func TestPredictWithoutVision(t *testing.T) {
	ps := NewPredictionService(testLogger(t), nil, nil, nil, nil)
	if _, err := ps.Predict(context.Background(), []byte("img"), "image/png"); !errors.Is(err, ErrVisionUnavailable) {
		t.Fatalf("err = %v, want ErrVisionUnavailable", err)
	}
}

func TestPredictVisionFailureSurfaces(t *testing.T) {
	ps := NewPredictionService(testLogger(t), &fakeTagger{err: fmt.Errorf("vision down")}, nil, nil, nil)
	if _, err := ps.Predict(context.Background(), []byte("img"), "image/png"); err == nil {
		t.Fatalf("vision errors must surface")
	}
}

func TestPredictCaptionFailureTolerated(t *testing.T) {
	ps := NewPredictionService(testLogger(t), &fakeTagger{tags: dogTags()}, &fakeCaption{err: fmt.Errorf("caption down")}, &fakeTopics{}, nil)
	res, err := ps.Predict(context.Background(), []byte("img"), "image/png")
	if err != nil {
		t.Fatalf("caption failures must not fail the prediction: %v", err)
	}
	if res.Description != "" {
		t.Fatalf("description = %q, want empty", res.Description)
	}
	if res.Label != "Dog" {
		t.Fatalf("label = %q", res.Label)
	}
}

func TestRelatedTopics(t *testing.T) {
	ps := NewPredictionService(testLogger(t), &fakeTagger{}, nil, &fakeTopics{topics: []string{"A", "B"}}, nil)
	topics := ps.RelatedTopics(context.Background(), dogTags(), "a dog")
	if len(topics) != 2 {
		t.Fatalf("topics = %v", topics)
	}

	none := NewPredictionService(testLogger(t), &fakeTagger{}, nil, nil, nil)
	if topics := none.RelatedTopics(context.Background(), dogTags(), ""); len(topics) != 0 {
		t.Fatalf("nil generator must yield empty list, got %v", topics)
	}
}
