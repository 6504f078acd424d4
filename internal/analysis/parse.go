package analysis

import (
	"encoding/json"
	"io"
	"math"
	"strings"

	"github.com/vocalab/speech-coach/internal/types"
)

// rawItem mirrors one element of the model's reply before validation. Score
// stays a json.Number so integral floats like 8.0 can be accepted while
// 8.5 and "eight" are rejected.
type rawItem struct {
	Category string      `json:"category"`
	Score    json.Number `json:"score"`
	Feedback string      `json:"feedback"`
}

// parseResult validates the model's reply against the output contract:
// a JSON array containing exactly the eight canonical categories, each with
// an integer score in [1,10] and non-empty feedback. Items may arrive in any
// order; the result is normalized to canonical order.
func parseResult(raw string) (types.AnalysisResult, error) {
	cleaned := stripFences(raw)

	dec := json.NewDecoder(strings.NewReader(cleaned))
	dec.UseNumber()

	var items []rawItem
	if err := dec.Decode(&items); err != nil {
		return nil, formatErr(raw, "response is not a JSON array: %v", err)
	}
	// The array must be the whole reply; a second value or trailing prose
	// after it violates the contract just as leading prose does.
	if err := dec.Decode(new(json.RawMessage)); err != io.EOF {
		return nil, formatErr(raw, "trailing content after the JSON array")
	}

	byCategory := make(map[string]types.FeedbackItem, len(types.CanonicalCategories))
	for _, item := range items {
		if !types.IsCanonicalCategory(item.Category) {
			return nil, formatErr(raw, "unrecognized category %q", item.Category)
		}
		if _, dup := byCategory[item.Category]; dup {
			return nil, formatErr(raw, "duplicate category %q", item.Category)
		}

		score, ok := integerScore(item.Score)
		if !ok {
			return nil, formatErr(raw, "category %q has non-integer score %q", item.Category, item.Score.String())
		}
		if score < 1 || score > 10 {
			return nil, formatErr(raw, "category %q score %d outside [1,10]", item.Category, score)
		}
		if strings.TrimSpace(item.Feedback) == "" {
			return nil, formatErr(raw, "category %q has empty feedback", item.Category)
		}

		byCategory[item.Category] = types.FeedbackItem{
			Category: item.Category,
			Score:    score,
			Feedback: item.Feedback,
		}
	}

	result := make(types.AnalysisResult, 0, len(types.CanonicalCategories))
	for _, category := range types.CanonicalCategories {
		item, ok := byCategory[category]
		if !ok {
			return nil, formatErr(raw, "missing category %q", category)
		}
		result = append(result, item)
	}
	return result, nil
}

// integerScore coerces a JSON number to an int, accepting integral floats.
func integerScore(n json.Number) (int, bool) {
	if i, err := n.Int64(); err == nil {
		return int(i), true
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// stripFences removes a surrounding markdown code fence if the model wrapped
// its reply in one despite the instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop a language tag such as "json" on the opening fence line.
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		firstLine := strings.TrimSpace(s[:i])
		if firstLine == "" || !strings.ContainsAny(firstLine, "[{") {
			s = s[i+1:]
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
