// Package transcription converts raw audio bytes to plain text, polymorphic
// over the configured backend kind.
package transcription

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"

	"github.com/vocalab/speech-coach/internal/apperr"
	"github.com/vocalab/speech-coach/internal/types"
)

// MinAudioBytes is the minimum viable-audio floor. Payloads below it are
// rejected before any backend is contacted.
const MinAudioBytes = 100

// Backend is the capability interface a transcription variant implements.
type Backend interface {
	Kind() types.BackendKind
	Transcribe(ctx context.Context, audio *types.AudioArtifact) (string, error)
}

// FactoryConfig carries the inputs needed to construct any backend.
type FactoryConfig struct {
	OpenAI *openai.Client

	WhisperModel string
	TempDir      string

	GoogleCredentialsFile string
	GoogleBucket          string
	GoogleLanguageCode    string
	GooglePollInterval    time.Duration
}

// New builds the backend for the given kind. The kind set is closed: an
// unrecognized kind is a hard error, never a silent default.
func New(ctx context.Context, kind types.BackendKind, cfg FactoryConfig) (Backend, error) {
	switch kind {
	case types.BackendWhisper:
		return NewWhisperBackend(cfg.OpenAI, cfg.WhisperModel, cfg.TempDir), nil
	case types.BackendGoogleAsync:
		return NewGoogleBackend(ctx, GoogleConfig{
			CredentialsFile: cfg.GoogleCredentialsFile,
			Bucket:          cfg.GoogleBucket,
			LanguageCode:    cfg.GoogleLanguageCode,
			PollInterval:    cfg.GooglePollInterval,
		})
	default:
		return nil, apperr.UnsupportedBackend(string(kind))
	}
}

// Service wraps a backend with the invariants every variant shares: the
// minimum-size floor, whitespace trimming, and a non-empty transcript on
// success.
type Service struct {
	backend Backend
}

// NewService creates a transcription service over the given backend.
func NewService(backend Backend) *Service {
	return &Service{backend: backend}
}

// Transcribe converts the artifact to plain text via the configured backend.
func (s *Service) Transcribe(ctx context.Context, audio *types.AudioArtifact) (string, error) {
	if audio == nil || audio.Size < MinAudioBytes {
		var size int64
		if audio != nil {
			size = audio.Size
		}
		return "", apperr.InvalidAudio(size)
	}

	text, err := s.backend.Transcribe(ctx, audio)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperr.TranscriptionUpstream(errEmptyTranscript)
	}

	log.Debug().
		Str("backend", string(s.backend.Kind())).
		Int64("audio_bytes", audio.Size).
		Int("transcript_chars", len(text)).
		Msg("transcription completed")
	return text, nil
}

var errEmptyTranscript = errors.New("backend returned an empty transcript")
