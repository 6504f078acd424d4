package handlers

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vocalab/speech-coach/internal/apperr"
	"github.com/vocalab/speech-coach/internal/types"
)

// endSignal is the text frame a client sends to finish an audio stream.
const endSignal = "END"

// StreamHandler serves GET /ws/transcribe: binary audio frames accumulate
// until the client sends END, then the buffered audio is transcribed and the
// result written back on the same socket.
type StreamHandler struct {
	transcriber Transcriber
	timeout     time.Duration
}

// NewStreamHandler creates a new stream handler.
func NewStreamHandler(transcriber Transcriber, timeout time.Duration) *StreamHandler {
	return &StreamHandler{transcriber: transcriber, timeout: timeout}
}

// Handle processes one WebSocket session.
func (h *StreamHandler) Handle(c *websocket.Conn) {
	defer c.Close()

	var (
		buffer    bytes.Buffer
		mimeType  = "audio/webm"
		sessionID = uuid.New().String()
	)

	log.Info().Str("session", sessionID).Msg("stream session established")

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			// Client went away mid-upload; the partial buffer is discarded
			// with the session.
			log.Debug().Str("session", sessionID).Err(err).Msg("stream read ended")
			return
		}

		if messageType == websocket.TextMessage {
			text := string(message)
			if text == endSignal {
				break
			}
			// A text frame other than END declares the audio MIME type.
			if strings.HasPrefix(text, "audio/") {
				mimeType = text
			}
			continue
		}

		if messageType == websocket.BinaryMessage {
			buffer.Write(message)
		}
	}

	if buffer.Len() == 0 {
		h.writeError(c, sessionID, apperr.NoAudioProvided())
		return
	}

	artifact := &types.AudioArtifact{
		Data:       buffer.Bytes(),
		MIMEType:   mimeType,
		Size:       int64(buffer.Len()),
		ReceivedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	text, err := h.transcriber.Transcribe(ctx, artifact)
	if err != nil {
		h.writeError(c, sessionID, err)
		return
	}

	log.Info().Str("session", sessionID).Int64("audio_bytes", artifact.Size).Msg("stream transcribed")
	if err := c.WriteJSON(map[string]string{"transcription": text}); err != nil {
		log.Warn().Str("session", sessionID).Err(err).Msg("failed to write stream result")
	}
}

func (h *StreamHandler) writeError(c *websocket.Conn, sessionID string, err error) {
	ae := apperr.From(err)
	log.Error().Str("session", sessionID).Str("code", ae.Code).Err(err).Msg("stream transcription failed")

	details := ""
	if cause := ae.Unwrap(); cause != nil {
		details = cause.Error()
	}
	if werr := c.WriteJSON(map[string]string{
		"error":   ae.Message,
		"details": details,
		"code":    ae.Code,
	}); werr != nil {
		log.Warn().Str("session", sessionID).Err(werr).Msg("failed to write stream error")
	}
}
