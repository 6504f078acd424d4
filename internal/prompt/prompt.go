// Package prompt compiles the system prompt for the analysis call. The
// output is a pure function of the drill id: identical input yields
// byte-identical output.
package prompt

import (
	"fmt"
	"strings"

	"github.com/vocalab/speech-coach/internal/drills"
)

const basePrompt = `You are a speech analysis API that MUST return only valid JSON. You will receive a speech transcription and analyze it across 8 categories.

CRITICAL: Your response must be ONLY a valid JSON array. No explanations, no markdown, no additional text. Start with [ and end with ].

For each transcription provided, analyze these 8 categories and return this exact JSON structure:

[
  {
    "category": "Subject Matter",
    "score": 8,
    "feedback": "Analyze content clarity, relevance, and structure. Provide specific feedback on what was covered well and what could be improved."
  },
  {
    "category": "Tone",
    "score": 7,
    "feedback": "Evaluate tone appropriateness and consistency. Comment on whether the tone matched the context and audience expectations."
  },
  {
    "category": "Fluency",
    "score": 6,
    "feedback": "Assess pace, articulation, and flow. Note any disruptions, hesitations, or areas where fluency could be enhanced."
  },
  {
    "category": "Filler Words",
    "score": 5,
    "feedback": "Identify filler words like 'um', 'uh', 'like'. Count frequency and suggest strategies to reduce them."
  },
  {
    "category": "Clarity and Articulation",
    "score": 8,
    "feedback": "Evaluate pronunciation and understandability. Comment on word clarity and suggest articulation improvements."
  },
  {
    "category": "Engagement with Audience",
    "score": 7,
    "feedback": "Assess how well the speaker connects with listeners. Suggest ways to make the speech more interactive and engaging."
  },
  {
    "category": "Emotion and Expression",
    "score": 6,
    "feedback": "Evaluate emotional delivery and passion. Comment on whether the speaker conveyed appropriate emotion and energy."
  },
  {
    "category": "Structure and Organization",
    "score": 8,
    "feedback": "Analyze logical flow and organization. Comment on introduction, body, conclusion, and transitions between ideas."
  }
]

Score each category 1-10 (1=needs significant improvement, 10=excellent). Provide specific, actionable feedback for each category.`

const closingReminder = "\n\nRESPOND WITH ONLY THE JSON ARRAY. NO OTHER TEXT."

// Compile builds the system prompt for the given drill id. A zero or
// unknown id yields the generic prompt with no drill section.
func Compile(drillID int) string {
	profile, ok := drills.Lookup(drillID)
	if !ok {
		return basePrompt + closingReminder
	}

	var b strings.Builder
	b.WriteString(basePrompt)
	fmt.Fprintf(&b, "\n\nIMPORTANT: This speech is from a specific speaking drill focused on %s.\n\n%s\n\nWhen providing feedback, give extra weight and detailed analysis to these categories: %s. Your feedback should be specifically tailored to help the speaker improve in the areas this drill targets.",
		profile.Focus,
		profile.Emphasis,
		strings.Join(profile.Categories, ", "),
	)
	b.WriteString(closingReminder)
	return b.String()
}
