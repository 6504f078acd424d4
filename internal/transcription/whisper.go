package transcription

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"

	"github.com/vocalab/speech-coach/internal/apperr"
	"github.com/vocalab/speech-coach/internal/types"
)

// AudioTranscriber is the slice of the OpenAI client the Whisper backend
// depends on.
type AudioTranscriber interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
}

// WhisperBackend transcribes audio through the OpenAI Whisper API. Each call
// writes the artifact to a uniquely named temp file scoped strictly to that
// call; the file is removed on every exit path.
type WhisperBackend struct {
	client  AudioTranscriber
	model   string
	tempDir string
}

// NewWhisperBackend creates a Whisper backend. An empty model defaults to
// whisper-1; an empty tempDir defaults to the OS temp directory.
func NewWhisperBackend(client AudioTranscriber, model, tempDir string) *WhisperBackend {
	if model == "" {
		model = openai.Whisper1
	}
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &WhisperBackend{client: client, model: model, tempDir: tempDir}
}

// Kind returns the backend kind.
func (b *WhisperBackend) Kind() types.BackendKind { return types.BackendWhisper }

// Transcribe sends the artifact to the Whisper API and returns the text.
func (b *WhisperBackend) Transcribe(ctx context.Context, audio *types.AudioArtifact) (string, error) {
	tempPath := filepath.Join(b.tempDir, fmt.Sprintf("audio-%s%s", uuid.New().String(), extensionForMIME(audio.MIMEType)))

	// Registered before the write so a partially written file is still
	// removed when the write itself fails.
	defer func() {
		if err := os.Remove(tempPath); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", tempPath).Msg("failed to remove temp audio file")
		}
	}()

	if err := os.WriteFile(tempPath, audio.Data, 0600); err != nil {
		return "", apperr.Internal(fmt.Errorf("write temp audio file: %w", err))
	}

	resp, err := b.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    b.model,
		FilePath: tempPath,
		Format:   openai.AudioResponseFormatText,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", apperr.Timeout("transcription")
		}
		return "", apperr.TranscriptionUpstream(err)
	}

	return strings.TrimSpace(resp.Text), nil
}

// extensionForMIME maps the declared audio MIME type to a file extension so
// the Whisper API can sniff the container format.
func extensionForMIME(mimeType string) string {
	// Strip parameters such as "; codecs=opus".
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}
	switch strings.TrimSpace(strings.ToLower(mimeType)) {
	case "audio/wav", "audio/x-wav", "audio/wave":
		return ".wav"
	case "audio/mpeg", "audio/mp3":
		return ".mp3"
	case "audio/mp4", "audio/m4a", "audio/x-m4a":
		return ".m4a"
	case "audio/ogg", "application/ogg":
		return ".ogg"
	case "audio/flac", "audio/x-flac":
		return ".flac"
	default:
		// Browser recorders send audio/webm; it is also the safest default.
		return ".webm"
	}
}
