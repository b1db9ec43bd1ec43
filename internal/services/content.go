package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/playfinity/playfinity-backend/internal/clients/openai"
	"github.com/playfinity/playfinity-backend/internal/pkg/jsonx"
	"github.com/playfinity/playfinity-backend/internal/pkg/logger"
	"github.com/playfinity/playfinity-backend/internal/types"
)

// GenerationOutcome is the explicit result of a bundle generation
// attempt. Fallback true means the model output was unusable (or the
// generator is disabled) and Bundle carries templated content; Reason
// says why.
type GenerationOutcome struct {
	Bundle   types.GameBundle
	Fallback bool
	Reason   string
}

// ContentGenerator produces the four-part game bundle for a topic.
type ContentGenerator interface {
	GenerateGames(ctx context.Context, topic, ageGroup string, tags []string, domain string) GenerationOutcome
}

type contentService struct {
	log    *logger.Logger
	client openai.Client
}

// NewContentGenerator builds the model-backed generator. A nil client
// yields a generator that always falls back.
func NewContentGenerator(log *logger.Logger, client openai.Client) ContentGenerator {
	return &contentService{
		log:    log.With("service", "ContentGenerator"),
		client: client,
	}
}

func (cs *contentService) GenerateGames(ctx context.Context, topic, ageGroup string, tags []string, domain string) GenerationOutcome {
	if cs.client == nil {
		return GenerationOutcome{
			Bundle:   FallbackBundle(topic, ageGroup),
			Fallback: true,
			Reason:   "content generator not configured",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	system := "You create educational games for children. Respond with JSON only."
	raw, err := cs.client.GenerateText(ctx, system, buildGamePrompt(topic, ageGroup, tags, domain))
	if err != nil {
		cs.log.Warn("Game generation failed", "topic", topic, "error", err.Error())
		return GenerationOutcome{
			Bundle:   FallbackBundle(topic, ageGroup),
			Fallback: true,
			Reason:   "generation error: " + err.Error(),
		}
	}

	bundle, err := parseBundle(raw)
	if err != nil {
		cs.log.Warn("Game generation produced unusable output", "topic", topic, "error", err.Error())
		return GenerationOutcome{
			Bundle:   FallbackBundle(topic, ageGroup),
			Fallback: true,
			Reason:   "unusable model output: " + err.Error(),
		}
	}

	cs.log.Info("Generated game bundle", "topic", topic, "age_group", ageGroup, "image_prompts", len(bundle.Gallery.ImagePrompts))
	return GenerationOutcome{Bundle: bundle}
}

// parseBundle recovers a validated bundle from free-text model output.
// Every required game key must be present.
func parseBundle(raw string) (types.GameBundle, error) {
	var bundle types.GameBundle

	obj, err := jsonx.ExtractObject(raw)
	if err != nil {
		return bundle, err
	}
	for _, gt := range types.AllGameTypes {
		if _, ok := obj[string(gt)]; !ok {
			return bundle, &missingGameError{game: string(gt)}
		}
	}

	encoded, err := json.Marshal(obj)
	if err != nil {
		return bundle, err
	}
	if err := json.Unmarshal(encoded, &bundle); err != nil {
		return bundle, err
	}
	if err := bundle.Validate(); err != nil {
		return bundle, err
	}
	return bundle, nil
}

type missingGameError struct {
	game string
}

func (e *missingGameError) Error() string {
	return "bundle missing required game: " + e.game
}

// FallbackBundle builds deterministic templated content from the topic
// alone, so callers always have a complete bundle regardless of
// generator reliability.
func FallbackBundle(topic, ageGroup string) types.GameBundle {
	word := fallbackWord(topic)
	return types.GameBundle{
		Spelling: types.SpellingGame{
			Word:         word,
			Instructions: "Spell the word related to " + topic,
		},
		Drawing: types.DrawingGame{
			Word:         word,
			Instructions: "Draw each letter of the word related to " + topic,
		},
		Gallery: types.GalleryGame{
			Images:       []types.ImageRef{},
			Instructions: "Explore images related to " + topic,
		},
		Quiz: types.QuizGame{
			Questions: []types.QuizQuestion{
				{
					Question:      "What is the main characteristic of " + topic + "?",
					Options:       []string{"Option A", "Option B", "Option C", "Option D"},
					CorrectAnswer: "Option A",
				},
			},
			Instructions: "Answer questions about " + topic,
		},
	}
}

// fallbackWord uppercases the topic and keeps at most 8 letters.
func fallbackWord(topic string) string {
	word := strings.ToUpper(strings.TrimSpace(topic))
	r := []rune(word)
	if len(r) > 8 {
		word = string(r[:8])
	}
	if word == "" {
		word = "LEARN"
	}
	return word
}
