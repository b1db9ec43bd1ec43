package types

import "fmt"

type GameType string

const (
	GameSpelling GameType = "spelling"
	GameDrawing  GameType = "drawing"
	GameGallery  GameType = "gallery"
	GameQuiz     GameType = "quiz"
)

// AllGameTypes lists every game a complete bundle carries, in the
// order they are persisted.
var AllGameTypes = []GameType{GameSpelling, GameDrawing, GameGallery, GameQuiz}

type SpellingGame struct {
	Word         string `json:"word"`
	Instructions string `json:"instructions"`
}

type DrawingGame struct {
	Word         string `json:"word"`
	Instructions string `json:"instructions"`
}

type GalleryGame struct {
	ImagePrompts []string   `json:"image_prompts,omitempty"`
	Images       []ImageRef `json:"images"`
	Instructions string     `json:"instructions"`
}

type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

type QuizGame struct {
	Questions    []QuizQuestion `json:"questions"`
	Instructions string         `json:"instructions"`
}

// GameBundle is one complete four-part bundle for a (topic, age group)
// pair, validated before anything is persisted.
type GameBundle struct {
	Spelling SpellingGame `json:"spelling"`
	Drawing  DrawingGame  `json:"drawing"`
	Gallery  GalleryGame  `json:"gallery"`
	Quiz     QuizGame     `json:"quiz"`
}

// Validate rejects bundles missing required content for any game.
func (b *GameBundle) Validate() error {
	if b.Spelling.Word == "" {
		return fmt.Errorf("spelling game has no word")
	}
	if b.Drawing.Word == "" {
		return fmt.Errorf("drawing game has no word")
	}
	if b.Gallery.Instructions == "" {
		return fmt.Errorf("gallery game has no instructions")
	}
	if len(b.Quiz.Questions) == 0 {
		return fmt.Errorf("quiz game has no questions")
	}
	for i, q := range b.Quiz.Questions {
		if q.Question == "" {
			return fmt.Errorf("quiz question %d is empty", i)
		}
		if len(q.Options) == 0 {
			return fmt.Errorf("quiz question %d has no options", i)
		}
	}
	return nil
}

// StoredBundle is the re-read persisted form, keyed by game type.
type StoredBundle map[string]map[string]any

// GalleryImages pulls the published ImageRef list out of a stored
// bundle, tolerating missing or oddly shaped gallery docs.
func (sb StoredBundle) GalleryImages() []ImageRef {
	gallery, ok := sb[string(GameGallery)]
	if !ok {
		return nil
	}
	raw, ok := gallery["images"].([]any)
	if !ok {
		return nil
	}
	refs := make([]ImageRef, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		ref := ImageRef{}
		if s, ok := m["url"].(string); ok {
			ref.URL = s
		}
		if s, ok := m["prompt"].(string); ok {
			ref.Prompt = s
		}
		if s, ok := m["filename"].(string); ok {
			ref.Filename = s
		}
		switch n := m["index"].(type) {
		case int:
			ref.Index = n
		case int64:
			ref.Index = int(n)
		case float64:
			ref.Index = int(n)
		}
		refs = append(refs, ref)
	}
	return refs
}
