package caption

import (
	"fmt"
	"strings"

	"captionstudio/internal/platform/instagram"
)

// structurerSystemPrompt drives the second model call, which normalizes the
// free-form generation output into the fixed three-field shape.
const structurerSystemPrompt = "Parse the given caption variations into a structured format with short, medium, and long versions."

// captionSchema is the strict output schema for the structurer pass.
func captionSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"shortCaption":  map[string]any{"type": "string"},
			"mediumCaption": map[string]any{"type": "string"},
			"longCaption":   map[string]any{"type": "string"},
		},
		"required":             []string{"shortCaption", "mediumCaption", "longCaption"},
		"additionalProperties": false,
	}
}

// identityPhrase maps the provider's gender field to the phrasing used in
// the prompt. The mapping is total: anything outside female/male, including
// an absent value, reads as "person".
func identityPhrase(gender string) string {
	switch gender {
	case "female":
		return "woman"
	case "male":
		return "man"
	default:
		return "person"
	}
}

// buildGenerationPrompt assembles the free-form generation prompt from the
// account profile and its recent captions. The layout demand at the end is
// advisory only; the structurer pass is what actually enforces shape.
func buildGenerationPrompt(profile *instagram.Profile, recentCaptions []string) string {
	bio := profile.Biography
	if bio == "" {
		bio = "N/A"
	}
	category := profile.Category
	if category == "" {
		category = "Personal"
	}

	var numbered strings.Builder
	for i, c := range recentCaptions {
		fmt.Fprintf(&numbered, "%d. %s\n", i+1, c)
	}

	return fmt.Sprintf(`Generate 3 variations of an Instagram caption for this image: a short version (1-2 lines), a medium version (2-3 lines), and a long version (3-4 lines).

Account owner details:
- Name: %s
- Gender/Identity: Account owned by a %s
- Bio: %s
- Account type: %s
- Typical engagement: %d followers

Their recent captions for inspiration:
%s
Instructions:
1. Study their previous captions for:
   - Writing style and tone
   - Emoji usage patterns
   - Hashtag preferences
   - Common themes or phrases
2. Generate captions that match their voice while staying unique
3. Ensure the captions align with their identity and personal brand
4. Include relevant hashtags in their style
5. Keep it natural and engaging

Format the response exactly like this:
SHORT:
[short caption]

MEDIUM:
[medium caption]

LONG:
[long caption]`,
		profile.FullName,
		identityPhrase(profile.Gender),
		bio,
		category,
		profile.FollowerCount,
		numbered.String(),
	)
}
