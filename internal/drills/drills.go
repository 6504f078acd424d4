// Package drills holds the static drill profile table. The table is built
// once at process start and never mutated, so concurrent reads need no
// synchronization.
package drills

import "sort"

// Profile describes the coaching focus of one speaking drill.
type Profile struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	Focus      string   `json:"focus"`
	Emphasis   string   `json:"emphasis"`
	Categories []string `json:"categories"`
}

var profiles = map[int]Profile{
	1: {
		ID:       1,
		Name:     "Pen Drill",
		Focus:    "articulation, consonant clarity, and precision",
		Emphasis: "Pay special attention to consonant articulation and clarity. The speaker should demonstrate clear, precise consonant sounds. Look for improvements in speech precision and articulation quality.",
		Categories: []string{"Clarity and Articulation", "Fluency"},
	},
	2: {
		ID:       2,
		Name:     "Over-Enunciation",
		Focus:    "enunciation, precision, and deliberate speech patterns",
		Emphasis: "Focus on enunciation quality and precision. The speaker should demonstrate exaggerated but clear consonant and vowel sounds. Evaluate how well they maintain clarity while being deliberate.",
		Categories: []string{"Clarity and Articulation", "Fluency"},
	},
	3: {
		ID:       3,
		Name:     "Tongue Twisters",
		Focus:    "speed, pronunciation accuracy, and articulation under pressure",
		Emphasis: "Evaluate speed control and pronunciation accuracy. The speaker should maintain clarity even at faster speeds. Look for precision in difficult sound combinations and overall articulation quality.",
		Categories: []string{"Clarity and Articulation", "Fluency", "Filler Words"},
	},
	4: {
		ID:       4,
		Name:     "Breath Control",
		Focus:    "breathing patterns, sustained delivery, and vocal stamina",
		Emphasis: "Pay special attention to breathing patterns and sustained speech delivery. The speaker should demonstrate controlled breathing that supports longer phrases without running out of air. Evaluate vocal stamina and volume consistency.",
		Categories: []string{"Fluency", "Tone"},
	},
	5: {
		ID:       5,
		Name:     "Vocal Warm-ups",
		Focus:    "vocal quality, range, and preparation",
		Emphasis: "Focus on vocal quality and range. The speaker should demonstrate good vocal health and flexibility. Evaluate voice clarity, range, and overall vocal preparation.",
		Categories: []string{"Tone", "Clarity and Articulation"},
	},
	6: {
		ID:       6,
		Name:     "Pitch Variation",
		Focus:    "pitch variation, expressiveness, and engagement",
		Emphasis: "Evaluate pitch variation and expressiveness. The speaker should demonstrate natural pitch changes that add interest and emotion. Look for monotone delivery and assess how pitch variation enhances engagement.",
		Categories: []string{"Emotion and Expression", "Engagement with Audience", "Tone"},
	},
	7: {
		ID:       7,
		Name:     "Speed Control",
		Focus:    "pace, timing, and comprehension-friendly delivery",
		Emphasis: "Focus on speaking pace and timing. The speaker should demonstrate controlled pacing that allows for comprehension. Evaluate whether the pace is too fast, too slow, or optimal. Look for strategic pauses.",
		Categories: []string{"Fluency", "Clarity and Articulation"},
	},
	8: {
		ID:       8,
		Name:     "Consonant Clusters",
		Focus:    "consonant precision, difficult sound combinations, and articulation accuracy",
		Emphasis: "Pay special attention to consonant clusters and difficult sound combinations. The speaker should demonstrate clear articulation of challenging consonant sequences. Evaluate precision in consonant pronunciation.",
		Categories: []string{"Clarity and Articulation", "Fluency"},
	},
	9: {
		ID:       9,
		Name:     "Vowel Clarity",
		Focus:    "vowel pronunciation, clarity, and distinct vowel sounds",
		Emphasis: "Focus on vowel clarity and distinct pronunciation. The speaker should demonstrate clear, well-formed vowel sounds. Evaluate whether vowels are distinct and understandable.",
		Categories: []string{"Clarity and Articulation", "Fluency"},
	},
	10: {
		ID:       10,
		Name:     "Public Speaking Prep",
		Focus:    "overall presentation quality, confidence, structure, and audience engagement",
		Emphasis: "Evaluate the speech as a complete presentation. Focus on structure, confidence, audience engagement, and overall delivery quality. This is a comprehensive assessment of public speaking skills.",
		Categories: []string{"Structure and Organization", "Engagement with Audience", "Tone", "Emotion and Expression"},
	},
}

// Lookup returns the profile for the given drill id.
func Lookup(id int) (Profile, bool) {
	p, ok := profiles[id]
	return p, ok
}

// All returns every profile ordered by id.
func All() []Profile {
	out := make([]Profile, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
