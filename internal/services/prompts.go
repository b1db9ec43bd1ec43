package services

import (
	"fmt"
	"strings"
)

// buildGamePrompt asks for the four-part bundle as JSON. The gallery
// section must describe a sequential visual story so the generated
// images read as stages of a process.
func buildGamePrompt(topic, ageGroup string, tags []string, domain string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an educational game creator for children aged %s.\n", ageGroup)
	fmt.Fprintf(&b, "Create educational games for the topic: %q\n", topic)
	if domain != "" {
		fmt.Fprintf(&b, "The games must be focused on the educational domain of *%s*.\n", domain)
	}
	if len(tags) > 0 {
		fmt.Fprintf(&b, "Ensure the game content incorporates the following keywords or concepts: *%s*.\n", strings.Join(tags, ", "))
	}

	fmt.Fprintf(&b, `
For the gallery game, create 4 *SEQUENTIAL* image prompts that show a process, stages, or related aspects of the topic in logical order. Think of it as telling a visual story.

Examples:
- If topic is "germination": [seed, sprouting seed, seedling, young plant]
- If topic is "butterfly": [egg, caterpillar, chrysalis, butterfly]
- If topic is "cooking": [ingredients, mixing, cooking, finished dish]

Generate games in this *EXACT JSON* format:

{
  "spelling": {
    "word": "SINGLE_WORD_RELATED_TO_TOPIC_MAX_8_LETTERS",
    "instructions": "Spell the word related to %[1]s"
  },
  "drawing": {
    "word": "SAME_WORD_AS_SPELLING_GAME",
    "instructions": "Draw each letter of the word"
  },
  "gallery": {
    "image_prompts": [
      "Stage 1: [first stage of %[1]s process]",
      "Stage 2: [second stage of %[1]s process]",
      "Stage 3: [third stage of %[1]s process]",
      "Stage 4: [final stage of %[1]s process]"
    ],
    "instructions": "Explore the %[1]s process step by step"
  },
  "quiz": {
    "questions": [
      {
        "question": "What happens first in %[1]s?",
        "options": ["Stage 1", "Stage 2", "Stage 3", "Stage 4"],
        "correct_answer": "Stage 1"
      },
      {
        "question": "What comes after the first stage of %[1]s?",
        "options": ["Stage 2", "Stage 3", "Stage 4", "Nothing"],
        "correct_answer": "Stage 2"
      },
      {
        "question": "What is the final result of %[1]s?",
        "options": ["Beginning", "Middle", "End result", "Nothing"],
        "correct_answer": "End result"
      }
    ],
    "instructions": "Answer questions about the %[1]s process"
  }
}

*IMPORTANT*: Replace [first stage], [second stage], etc. with actual specific stages relevant to the topic. Make the image prompts describe a clear sequence or process related to %[1]s.

Return *ONLY* the JSON, nothing else.
`, topic)

	return b.String()
}

func buildDomainPrompt(mainSubject, description string, tags []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an educational expert for children. The main subject identified from an image is %q.\n\n", mainSubject)
	fmt.Fprintf(&b, "Your task is to generate educational domains and specific learning topics that are directly related to %q. Each domain should contain topics that help children learn about different aspects of %q.\n\n", mainSubject, mainSubject)
	fmt.Fprintf(&b, "Context:\n- Primary subject: %q\n- Description: %q\n- Related tags: %q\n\n", mainSubject, description, strings.Join(tags, ", "))
	fmt.Fprintf(&b, `For each domain, suggest 2-3 specific, educational topics that are:
1. Directly related to %[1]q
2. Age-appropriate for children
3. Educational and engaging
4. Clickable and specific (not too broad)

Return the response in this *EXACT JSON* format:

{
  "primary_subject": %[1]q,
  "domains": [
    {
      "domain": "Domain Name 1",
      "topics": ["Topic 1a related to %[1]s", "Topic 1b related to %[1]s"]
    },
    {
      "domain": "Domain Name 2",
      "topics": ["Topic 2a related to %[1]s", "Topic 2b related to %[1]s"]
    },
    {
      "domain": "Domain Name 3",
      "topics": ["Topic 3a related to %[1]s", "Topic 3b related to %[1]s"]
    }
  ]
}

Generate 3-4 relevant educational domains with specific topics all connected to %[1]q.
`, mainSubject)

	return b.String()
}

// enhanceImagePrompt steers the synthesizer toward simple, friendly
// illustrations suitable for young children.
func enhanceImagePrompt(prompt string) string {
	return fmt.Sprintf(
		"child-friendly educational illustration, simple colorful drawing, %s, cartoon style, bright colors, clear details, no text, suitable for children",
		strings.TrimSpace(prompt),
	)
}
