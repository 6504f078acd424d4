package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/vocalab/speech-coach/internal/ingest"
	"github.com/vocalab/speech-coach/internal/types"
)

// Transcriber converts an audio artifact to plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio *types.AudioArtifact) (string, error)
}

// TranscribeHandler serves POST /transcribe.
type TranscribeHandler struct {
	transcriber Transcriber
	timeout     time.Duration
}

// NewTranscribeHandler creates a new transcribe handler.
func NewTranscribeHandler(transcriber Transcriber, timeout time.Duration) *TranscribeHandler {
	return &TranscribeHandler{transcriber: transcriber, timeout: timeout}
}

// Handle ingests the streamed multipart body, transcribes the audio, and
// returns the transcript.
func (h *TranscribeHandler) Handle(c *fiber.Ctx) error {
	switch c.Method() {
	case fiber.MethodPost:
	case fiber.MethodOptions:
		return c.SendStatus(fiber.StatusNoContent)
	default:
		return methodNotAllowed(c)
	}

	artifact, err := ingest.ReadAudio(c.Get(fiber.HeaderContentType), c.Context().RequestBodyStream())
	if err != nil {
		return respondError(c, err)
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), h.timeout)
	defer cancel()

	text, err := h.transcriber.Transcribe(ctx, artifact)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"transcription": text})
}
