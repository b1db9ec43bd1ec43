package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/playfinity/playfinity-backend/internal/clients/azure"
	"github.com/playfinity/playfinity-backend/internal/clients/gcp"
	"github.com/playfinity/playfinity-backend/internal/clients/openai"
	"github.com/playfinity/playfinity-backend/internal/pkg/logger"
	"github.com/playfinity/playfinity-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

// fakeStore is an in-memory DocumentStore keyed by full slash path.
type fakeStore struct {
	docs    map[string]map[string]any
	updates []map[string]any

	failGet    bool
	failSet    bool
	failPaths  map[string]bool
	setOrder   []string
	listCalled int
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: map[string]map[string]any{}, failPaths: map[string]bool{}}
}

func (f *fakeStore) Get(_ context.Context, path string) (map[string]any, bool, error) {
	if f.failGet {
		return nil, false, fmt.Errorf("get failed")
	}
	doc, ok := f.docs[path]
	return doc, ok, nil
}

func (f *fakeStore) Set(_ context.Context, path string, data map[string]any) error {
	if f.failSet || f.failPaths[path] {
		return fmt.Errorf("set failed")
	}
	f.docs[path] = data
	f.setOrder = append(f.setOrder, path)
	return nil
}

func (f *fakeStore) UpdateFields(_ context.Context, path string, fields map[string]any) error {
	doc, ok := f.docs[path]
	if !ok {
		return fmt.Errorf("no document at %s", path)
	}
	f.updates = append(f.updates, fields)
	for k, v := range fields {
		// Server-side transforms (counter increments) are opaque here;
		// only plain values are merged.
		switch v.(type) {
		case string, bool, int, int64, float64, []string, []any:
			doc[k] = v
		}
	}
	return nil
}

func (f *fakeStore) List(_ context.Context, collectionPath string) ([]gcp.Document, error) {
	f.listCalled++
	if f.failGet {
		return nil, fmt.Errorf("list failed")
	}
	var out []gcp.Document
	prefix := collectionPath + "/"
	for path, data := range f.docs {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		rest := strings.TrimPrefix(path, prefix)
		if strings.Contains(rest, "/") {
			continue
		}
		out = append(out, gcp.Document{ID: rest, Data: data})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) Delete(_ context.Context, path string) error {
	delete(f.docs, path)
	return nil
}

func (f *fakeStore) Close() error { return nil }

// fakeHot is an in-memory EntryCache recording invalidations.
type fakeHot struct {
	entries        map[string]map[string]any
	invalidated    []string
	invalidatedAll int
}

func newFakeHot() *fakeHot {
	return &fakeHot{entries: map[string]map[string]any{}}
}

func (f *fakeHot) GetEntry(_ context.Context, key string) (map[string]any, bool) {
	e, ok := f.entries[key]
	return e, ok
}

func (f *fakeHot) SetEntry(_ context.Context, key string, data map[string]any) {
	f.entries[key] = data
}

func (f *fakeHot) Invalidate(_ context.Context, key string) {
	delete(f.entries, key)
	f.invalidated = append(f.invalidated, key)
}

func (f *fakeHot) InvalidateAll(_ context.Context) {
	f.entries = map[string]map[string]any{}
	f.invalidatedAll++
}

func (f *fakeHot) Close() error { return nil }

// fakeBucket records uploads and can fail selected keys.
type fakeBucket struct {
	uploads  map[string][]byte
	failSubs []string
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{uploads: map[string][]byte{}}
}

func (f *fakeBucket) UploadBytes(_ context.Context, key string, data []byte) error {
	for _, sub := range f.failSubs {
		if strings.Contains(key, sub) {
			return fmt.Errorf("upload failed for %s", key)
		}
	}
	f.uploads[key] = data
	return nil
}

func (f *fakeBucket) GetPublicURL(key string) string {
	return "https://cdn.test/" + key
}

func (f *fakeBucket) Verify(context.Context) error { return nil }
func (f *fakeBucket) Close() error                 { return nil }

// fakeContent returns a canned outcome and counts calls.
type fakeContent struct {
	outcome GenerationOutcome
	calls   int
}

func (f *fakeContent) GenerateGames(_ context.Context, topic, ageGroup string, _ []string, _ string) GenerationOutcome {
	f.calls++
	if f.outcome.Bundle.Spelling.Word == "" && !f.outcome.Fallback {
		return GenerationOutcome{Bundle: FallbackBundle(topic, ageGroup)}
	}
	return f.outcome
}

// fakeImages yields one synthesized image per prompt, skipping indices
// in skip.
type fakeImages struct {
	skip map[int]bool
}

func (f *fakeImages) Synthesize(_ context.Context, prompts []string, _ string) []types.SynthesizedImage {
	var out []types.SynthesizedImage
	for i, p := range prompts {
		if f.skip[i] {
			continue
		}
		out = append(out, types.SynthesizedImage{Index: i, Prompt: p, Data: []byte{0x89, byte(i)}})
	}
	return out
}

// fakeTagger returns fixed tags.
type fakeTagger struct {
	tags []types.Tag
	err  error
}

func (f *fakeTagger) LabelImage(context.Context, []byte) ([]types.Tag, error) {
	return f.tags, f.err
}

func (f *fakeTagger) Close() error { return nil }

// fakeCaption returns a fixed description.
type fakeCaption struct {
	description string
	err         error
}

func (f *fakeCaption) DescribeImage(context.Context, []byte, string) (string, error) {
	return f.description, f.err
}

// fakeTopics returns a fixed taxonomy.
type fakeTopics struct {
	domains  *types.DomainTopics
	fallback bool
	topics   []string
}

func (f *fakeTopics) GenerateDomainTopics(_ context.Context, _ string, _ []string, primaryLabel string) (*types.DomainTopics, bool) {
	if f.domains == nil {
		return FallbackDomains(primaryLabel), true
	}
	return f.domains, f.fallback
}

func (f *fakeTopics) TopicsFromTags(context.Context, []types.Tag, string) []string {
	return f.topics
}

// fakeModel scripts the model client: GenerateText replies come from
// textOut in order, image generation can fail on selected calls.
type fakeModel struct {
	textOut   []string
	textErr   error
	textCalls int

	imagePrompts []string
	imageFail    map[int]bool
	imageCalls   int
}

func (f *fakeModel) GenerateText(context.Context, string, string) (string, error) {
	f.textCalls++
	if f.textErr != nil {
		return "", f.textErr
	}
	if len(f.textOut) == 0 {
		return "", fmt.Errorf("no scripted reply")
	}
	out := f.textOut[0]
	if len(f.textOut) > 1 {
		f.textOut = f.textOut[1:]
	}
	return out, nil
}

func (f *fakeModel) GenerateTextWithImages(ctx context.Context, system, user string, _ []openai.ImageInput) (string, error) {
	return f.GenerateText(ctx, system, user)
}

func (f *fakeModel) GenerateImage(_ context.Context, prompt string) (openai.ImageGeneration, error) {
	call := f.imageCalls
	f.imageCalls++
	f.imagePrompts = append(f.imagePrompts, prompt)
	if f.imageFail[call] {
		return openai.ImageGeneration{}, fmt.Errorf("image generation failed")
	}
	return openai.ImageGeneration{Bytes: []byte{0x89, byte(call)}, MimeType: "image/png"}, nil
}

// fakeReader returns canned recognized text.
type fakeReader struct {
	result *azure.ReadResult
	err    error
}

func (f *fakeReader) RecognizeText(context.Context, []byte) (*azure.ReadResult, error) {
	return f.result, f.err
}
