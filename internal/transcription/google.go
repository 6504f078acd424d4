package transcription

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	speech "google.golang.org/api/speech/v1"
	gstorage "google.golang.org/api/storage/v1"

	"github.com/vocalab/speech-coach/internal/apperr"
	"github.com/vocalab/speech-coach/internal/types"
)

const defaultPollInterval = 2 * time.Second

// GoogleConfig holds configuration for the asynchronous Google backend.
type GoogleConfig struct {
	// CredentialsFile is a service-account JSON key. Empty means application
	// default credentials.
	CredentialsFile string
	// Bucket is the staging bucket for long-running recognition input.
	Bucket string
	// LanguageCode defaults to en-US.
	LanguageCode string
	// PollInterval is the wait between operation status checks.
	PollInterval time.Duration
}

// GoogleBackend transcribes audio with Google Cloud Speech-to-Text
// long-running jobs. The artifact is staged in a bucket, the job submitted
// and polled to completion, and the staging object deleted on every exit
// path.
type GoogleBackend struct {
	speech       *speech.Service
	storage      *gstorage.Service
	bucket       string
	languageCode string
	pollInterval time.Duration
}

// NewGoogleBackend creates the backend and its authenticated API clients.
func NewGoogleBackend(ctx context.Context, cfg GoogleConfig) (*GoogleBackend, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("google backend requires a staging bucket")
	}
	if cfg.LanguageCode == "" {
		cfg.LanguageCode = "en-US"
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}

	client, err := newGoogleHTTPClient(ctx, cfg.CredentialsFile)
	if err != nil {
		return nil, err
	}

	speechSvc, err := speech.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("create speech service: %w", err)
	}
	storageSvc, err := gstorage.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("create storage service: %w", err)
	}

	return &GoogleBackend{
		speech:       speechSvc,
		storage:      storageSvc,
		bucket:       cfg.Bucket,
		languageCode: cfg.LanguageCode,
		pollInterval: cfg.PollInterval,
	}, nil
}

func newGoogleHTTPClient(ctx context.Context, credentialsFile string) (*http.Client, error) {
	if credentialsFile == "" {
		client, err := google.DefaultClient(ctx, speech.CloudPlatformScope)
		if err != nil {
			return nil, fmt.Errorf("google default credentials: %w", err)
		}
		return client, nil
	}

	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read google credentials: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, data, speech.CloudPlatformScope)
	if err != nil {
		return nil, fmt.Errorf("parse google credentials: %w", err)
	}
	return oauth2.NewClient(ctx, creds.TokenSource), nil
}

// Kind returns the backend kind.
func (b *GoogleBackend) Kind() types.BackendKind { return types.BackendGoogleAsync }

// Transcribe stages the artifact, runs a long-running recognition job, and
// concatenates the per-segment top alternatives in order.
func (b *GoogleBackend) Transcribe(ctx context.Context, audio *types.AudioArtifact) (string, error) {
	objectName := fmt.Sprintf("audio-%s.wav", uuid.New().String())

	_, err := b.storage.Objects.Insert(b.bucket, &gstorage.Object{Name: objectName}).
		Media(bytes.NewReader(audio.Data)).
		Context(ctx).
		Do()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", apperr.Timeout("transcription")
		}
		return "", apperr.TranscriptionUpstream(fmt.Errorf("stage audio object: %w", err))
	}
	// The staging object must not outlive this call, including on
	// cancellation, so the delete runs on a fresh context.
	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := b.storage.Objects.Delete(b.bucket, objectName).Context(cleanupCtx).Do(); err != nil {
			log.Warn().Err(err).Str("object", objectName).Msg("failed to delete staging object")
		}
	}()

	op, err := b.speech.Speech.Longrunningrecognize(&speech.LongRunningRecognizeRequest{
		Audio: &speech.RecognitionAudio{
			Uri: fmt.Sprintf("gs://%s/%s", b.bucket, objectName),
		},
		Config: &speech.RecognitionConfig{
			Encoding:                   "LINEAR16",
			LanguageCode:               b.languageCode,
			EnableAutomaticPunctuation: true,
		},
	}).Context(ctx).Do()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", apperr.Timeout("transcription")
		}
		return "", apperr.TranscriptionUpstream(fmt.Errorf("submit recognition job: %w", err))
	}

	for !op.Done {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return "", apperr.Timeout("transcription")
			}
			return "", apperr.TranscriptionUpstream(ctx.Err())
		case <-time.After(b.pollInterval):
		}

		op, err = b.speech.Operations.Get(op.Name).Context(ctx).Do()
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return "", apperr.Timeout("transcription")
			}
			return "", apperr.TranscriptionUpstream(fmt.Errorf("poll recognition job: %w", err))
		}
	}

	if op.Error != nil {
		return "", apperr.TranscriptionUpstream(fmt.Errorf("recognition job failed: %s", op.Error.Message))
	}

	var resp speech.LongRunningRecognizeResponse
	if err := json.Unmarshal(op.Response, &resp); err != nil {
		return "", apperr.TranscriptionUpstream(fmt.Errorf("decode recognition response: %w", err))
	}

	var parts []string
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			parts = append(parts, result.Alternatives[0].Transcript)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " ")), nil
}
