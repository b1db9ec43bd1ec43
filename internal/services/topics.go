package services

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/playfinity/playfinity-backend/internal/clients/openai"
	"github.com/playfinity/playfinity-backend/internal/pkg/jsonx"
	"github.com/playfinity/playfinity-backend/internal/pkg/logger"
	"github.com/playfinity/playfinity-backend/internal/types"
)

const maxTagSubjects = 5

// TopicGenerator produces educational domain/topic taxonomies for a
// detected subject.
type TopicGenerator interface {
	// GenerateDomainTopics returns the structured taxonomy for one
	// subject. The bool reports whether fallback content was used.
	GenerateDomainTopics(ctx context.Context, description string, tags []string, primaryLabel string) (*types.DomainTopics, bool)

	// TopicsFromTags generates topics for every significant detected
	// tag and returns the deduplicated flat list in generation order.
	TopicsFromTags(ctx context.Context, tags []types.Tag, description string) []string
}

type topicService struct {
	log    *logger.Logger
	client openai.Client
}

func NewTopicGenerator(log *logger.Logger, client openai.Client) TopicGenerator {
	return &topicService{
		log:    log.With("service", "TopicGenerator"),
		client: client,
	}
}

func (ts *topicService) GenerateDomainTopics(ctx context.Context, description string, tags []string, primaryLabel string) (*types.DomainTopics, bool) {
	mainSubject := primaryLabel
	if mainSubject == "" {
		if len(tags) > 0 {
			mainSubject = tags[0]
		} else {
			mainSubject = "the subject"
		}
	}

	if ts.client == nil {
		return FallbackDomains(mainSubject), true
	}

	ctx, cancel := context.WithTimeout(ctx, 90*time.Second)
	defer cancel()

	system := "You are an educational expert for children. Respond with JSON only."
	raw, err := ts.client.GenerateText(ctx, system, buildDomainPrompt(mainSubject, description, tags))
	if err != nil {
		ts.log.Warn("Domain topic generation failed", "subject", mainSubject, "error", err.Error())
		return FallbackDomains(mainSubject), true
	}

	dt, err := parseDomainTopics(raw)
	if err != nil {
		ts.log.Warn("Domain topic output unusable", "subject", mainSubject, "error", err.Error())
		return FallbackDomains(mainSubject), true
	}
	if dt.PrimarySubject == "" {
		dt.PrimarySubject = mainSubject
	}
	ts.log.Info("Generated domain topics", "subject", mainSubject, "domains", len(dt.Domains))
	return dt, false
}

func parseDomainTopics(raw string) (*types.DomainTopics, error) {
	obj, err := jsonx.ExtractObject(raw)
	if err != nil {
		return nil, err
	}
	if _, ok := obj["domains"]; !ok {
		return nil, &missingGameError{game: "domains"}
	}

	encoded, err := json.Marshal(obj)
	if err != nil {
		return nil, err
	}
	var dt types.DomainTopics
	if err := json.Unmarshal(encoded, &dt); err != nil {
		return nil, err
	}
	if len(dt.Domains) == 0 {
		return nil, &missingGameError{game: "domains"}
	}
	return &dt, nil
}

func (ts *topicService) TopicsFromTags(ctx context.Context, tags []types.Tag, description string) []string {
	if len(tags) == 0 || ts.client == nil {
		return []string{}
	}

	sorted := make([]types.Tag, len(tags))
	copy(sorted, tags)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})
	if len(sorted) > maxTagSubjects {
		sorted = sorted[:maxTagSubjects]
	}

	allTopics := []string{}
	processed := map[string]struct{}{}
	for _, tag := range sorted {
		subject := titleCase(tag.Name)
		if len(subject) <= 2 {
			continue
		}
		if _, done := processed[subject]; done {
			continue
		}
		processed[subject] = struct{}{}

		dt, fallback := ts.GenerateDomainTopics(ctx, description, []string{subject}, subject)
		if fallback {
			continue
		}
		for _, domain := range dt.Domains {
			allTopics = append(allTopics, domain.Topics...)
		}
	}

	return uniqueStrings(allTopics)
}

// FallbackDomains templates a small taxonomy when generation is
// unavailable.
func FallbackDomains(primarySubject string) *types.DomainTopics {
	return &types.DomainTopics{
		PrimarySubject: primarySubject,
		Domains: []types.DomainGroup{
			{
				Domain: "Science",
				Topics: []string{primarySubject + " Properties", "How " + primarySubject + " Works"},
			},
			{
				Domain: "Nature",
				Topics: []string{primarySubject + " in Environment", primarySubject + " Lifecycle"},
			},
			{
				Domain: "Learning",
				Topics: []string{"Fun Facts about " + primarySubject, primarySubject + " Exploration"},
			},
		},
	}
}

func uniqueStrings(list []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(list))
	for _, s := range list {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
