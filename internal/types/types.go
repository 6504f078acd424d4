package types

import "time"

// BackendKind identifies a transcription backend. The set is closed:
// an unrecognized kind is rejected, never defaulted.
type BackendKind string

const (
	BackendWhisper     BackendKind = "WHISPER"
	BackendGoogleAsync BackendKind = "GOOGLE_ASYNC"
)

// CanonicalCategories lists the eight feedback dimensions in canonical order.
// Every AnalysisResult contains exactly these categories, in this order.
var CanonicalCategories = []string{
	"Subject Matter",
	"Tone",
	"Fluency",
	"Filler Words",
	"Clarity and Articulation",
	"Engagement with Audience",
	"Emotion and Expression",
	"Structure and Organization",
}

// IsCanonicalCategory reports whether name is one of the eight categories.
func IsCanonicalCategory(name string) bool {
	for _, c := range CanonicalCategories {
		if c == name {
			return true
		}
	}
	return false
}

// AudioArtifact is the in-memory audio payload produced by one ingestion
// call. It lives for the duration of a single request.
type AudioArtifact struct {
	Data       []byte
	MIMEType   string
	Size       int64
	ReceivedAt time.Time
}

// FeedbackItem is one scored category of the analysis output.
type FeedbackItem struct {
	Category string `json:"category"`
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// AnalysisResult holds exactly eight FeedbackItems, one per canonical
// category, in canonical order.
type AnalysisResult []FeedbackItem
