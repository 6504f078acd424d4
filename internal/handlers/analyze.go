package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/vocalab/speech-coach/internal/apperr"
	"github.com/vocalab/speech-coach/internal/prompt"
	"github.com/vocalab/speech-coach/internal/types"
)

// Analyzer runs the language-model analysis over a transcript.
type Analyzer interface {
	Analyze(ctx context.Context, transcript, systemPrompt string) (types.AnalysisResult, error)
}

// AnalyzeHandler serves POST /analyze.
type AnalyzeHandler struct {
	analyzer Analyzer
	timeout  time.Duration
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(analyzer Analyzer, timeout time.Duration) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer, timeout: timeout}
}

type analyzeRequest struct {
	Transcription *string `json:"transcription"`
	DrillID       *int    `json:"drillId"`
}

// Handle compiles the drill-aware system prompt and returns the validated
// analysis for the submitted transcript.
func (h *AnalyzeHandler) Handle(c *fiber.Ctx) error {
	switch c.Method() {
	case fiber.MethodPost:
	case fiber.MethodOptions:
		return c.SendStatus(fiber.StatusNoContent)
	default:
		return methodNotAllowed(c)
	}

	var req analyzeRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return respondError(c, apperr.InvalidInput("Missing or invalid transcription"))
	}
	if req.Transcription == nil {
		return respondError(c, apperr.InvalidInput("Missing or invalid transcription"))
	}

	drillID := 0
	if req.DrillID != nil {
		drillID = *req.DrillID
	}
	systemPrompt := prompt.Compile(drillID)

	log.Debug().Int("drill_id", drillID).Int("transcript_chars", len(*req.Transcription)).Msg("analyzing transcription")

	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	result, err := h.analyzer.Analyze(ctx, *req.Transcription, systemPrompt)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"analysis": result})
}
