// Package ingest parses a streamed multipart request body into a single
// in-memory audio artifact.
package ingest

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vocalab/speech-coach/internal/apperr"
	"github.com/vocalab/speech-coach/internal/types"
)

const defaultMIMEType = "application/octet-stream"

// ReadAudio consumes a multipart body incrementally and returns an
// AudioArtifact built from the first file part. Additional file parts are
// drained rather than rejected, to tolerate clients that send extras.
// Non-file form fields are skipped.
//
// The content type is checked before any parsing begins; a body with no
// file part fails with NO_AUDIO, broken framing with MALFORMED_UPLOAD.
func ReadAudio(contentType string, body io.Reader) (*types.AudioArtifact, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		return nil, apperr.UnsupportedContentType(contentType)
	}
	boundary, ok := params["boundary"]
	if !ok || boundary == "" {
		return nil, apperr.MalformedUpload(errors.New("missing multipart boundary"))
	}

	reader := multipart.NewReader(body, boundary)

	var (
		buf      bytes.Buffer
		mimeType string
		received bool
	)

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperr.MalformedUpload(err)
		}

		// Plain form fields carry no filename; skip their bytes.
		if part.FileName() == "" {
			if err := drain(part); err != nil {
				return nil, apperr.MalformedUpload(err)
			}
			continue
		}

		if received {
			log.Debug().Str("part", part.FormName()).Msg("draining extra file part")
			if err := drain(part); err != nil {
				return nil, apperr.MalformedUpload(err)
			}
			continue
		}

		if _, err := io.Copy(&buf, part); err != nil {
			part.Close()
			return nil, apperr.MalformedUpload(err)
		}
		part.Close()

		mimeType = part.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = defaultMIMEType
		}
		received = true
	}

	if !received || buf.Len() == 0 {
		return nil, apperr.NoAudioProvided()
	}

	data := buf.Bytes()
	return &types.AudioArtifact{
		Data:       data,
		MIMEType:   mimeType,
		Size:       int64(len(data)),
		ReceivedAt: time.Now(),
	}, nil
}

// drain discards the remainder of a skipped part. Broken framing inside the
// part surfaces here rather than on the next NextPart call.
func drain(part *multipart.Part) error {
	_, err := io.Copy(io.Discard, part)
	part.Close()
	return err
}
