// Package apperr provides the error taxonomy shared by every pipeline
// component. Each layer classifies a failure before it crosses a component
// boundary, so the HTTP boundary can pick the status code deterministically.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the coarse failure class from the pipeline's error taxonomy.
type Kind int

const (
	// KindInput covers malformed or missing request data.
	KindInput Kind = iota
	// KindUpstream covers transcription or model service failures.
	KindUpstream
	// KindFormat covers model responses that break the strict output contract.
	KindFormat
	// KindTimeout covers bounded-wait expiry on a remote call.
	KindTimeout
	// KindInternal covers ephemeral resource and other in-process failures.
	KindInternal
)

// Error codes, stable across releases.
const (
	CodeUnsupportedContentType = "UNSUPPORTED_CONTENT_TYPE"
	CodeNoAudio                = "NO_AUDIO"
	CodeMalformedUpload        = "MALFORMED_UPLOAD"
	CodeInvalidAudio           = "INVALID_AUDIO"
	CodeUnsupportedBackend     = "UNSUPPORTED_BACKEND"
	CodeTranscriptionUpstream  = "TRANSCRIPTION_UPSTREAM"
	CodeEmptyTranscript        = "EMPTY_TRANSCRIPT"
	CodeAnalysisUpstream       = "ANALYSIS_UPSTREAM"
	CodeAnalysisFormat         = "ANALYSIS_FORMAT"
	CodeInvalidInput           = "INVALID_INPUT"
	CodeTimeout                = "TIMEOUT"
	CodeInternal               = "INTERNAL"
)

// Error is the unified pipeline error type.
type Error struct {
	// Code is a machine-readable error code.
	Code string
	// Kind is the taxonomy class of the failure.
	Kind Kind
	// Message is a human-readable summary surfaced to the caller.
	Message string
	// Status is the HTTP status the boundary must respond with.
	Status int
	// Retryable indicates whether a caller may reasonably retry.
	Retryable bool
	// Details carries additional diagnostic context.
	Details map[string]any
	// Cause is the underlying error, if any.
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Cause }

// WithDetail attaches a single diagnostic key-value pair.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// From classifies err as an *Error, wrapping unclassified errors as internal.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}

// IsCode reports whether err is an *Error carrying the given code.
func IsCode(err error, code string) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Code == code
}

// --- Ingestion ---

// UnsupportedContentType reports a request whose declared content type is
// not multipart form data.
func UnsupportedContentType(received string) *Error {
	return &Error{
		Code: CodeUnsupportedContentType, Kind: KindInput,
		Message: "Content-Type must be multipart/form-data",
		Status: http.StatusBadRequest,
		Details: map[string]any{"received": received},
	}
}

// NoAudioProvided reports a multipart body that carried no audio bytes.
func NoAudioProvided() *Error {
	return &Error{
		Code: CodeNoAudio, Kind: KindInput,
		Message: "No audio file provided",
		Status: http.StatusBadRequest,
	}
}

// MalformedUpload reports broken multipart framing.
func MalformedUpload(cause error) *Error {
	return &Error{
		Code: CodeMalformedUpload, Kind: KindInput,
		Message: "Malformed multipart upload",
		Status: http.StatusBadRequest,
		Cause: cause,
	}
}

// InvalidInput reports a missing or wrongly typed request field.
func InvalidInput(message string) *Error {
	return &Error{
		Code: CodeInvalidInput, Kind: KindInput,
		Message: message,
		Status: http.StatusBadRequest,
	}
}

// --- Transcription ---

// InvalidAudio reports audio content too short to be real audio.
func InvalidAudio(size int64) *Error {
	return &Error{
		Code: CodeInvalidAudio, Kind: KindInput,
		Message: "Invalid audio content",
		Status: http.StatusInternalServerError,
		Details: map[string]any{"size_bytes": size},
	}
}

// UnsupportedBackend reports an unrecognized transcription backend kind.
func UnsupportedBackend(kind string) *Error {
	return &Error{
		Code: CodeUnsupportedBackend, Kind: KindInput,
		Message: "Unsupported transcription service",
		Status: http.StatusInternalServerError,
		Details: map[string]any{"kind": kind},
	}
}

// TranscriptionUpstream reports a transcription service failure.
func TranscriptionUpstream(cause error) *Error {
	return &Error{
		Code: CodeTranscriptionUpstream, Kind: KindUpstream,
		Message: "Transcription failed",
		Status: http.StatusInternalServerError,
		Retryable: true,
		Cause: cause,
	}
}

// --- Analysis ---

// EmptyTranscript reports an analysis call with no transcript text.
func EmptyTranscript() *Error {
	return &Error{
		Code: CodeEmptyTranscript, Kind: KindInput,
		Message: "No transcription provided for analysis",
		Status: http.StatusBadRequest,
	}
}

// AnalysisUpstream reports a language-model service failure.
func AnalysisUpstream(cause error) *Error {
	return &Error{
		Code: CodeAnalysisUpstream, Kind: KindUpstream,
		Message: "Failed to analyze transcription",
		Status: http.StatusInternalServerError,
		Retryable: true,
		Cause: cause,
	}
}

// AnalysisFormat reports a model response that violates the strict output
// contract. The raw response is attached for diagnosis and the error is
// never retryable: a malformed reply is not transient.
func AnalysisFormat(reason, raw string) *Error {
	return &Error{
		Code: CodeAnalysisFormat, Kind: KindFormat,
		Message: "Analysis response violated the output contract",
		Status: http.StatusInternalServerError,
		Details: map[string]any{"reason": reason, "raw_response": raw},
	}
}

// --- Cross-cutting ---

// Timeout reports bounded-wait expiry on a remote call.
func Timeout(operation string) *Error {
	return &Error{
		Code: CodeTimeout, Kind: KindTimeout,
		Message: fmt.Sprintf("The %s call took too long", operation),
		Status: http.StatusInternalServerError,
		Retryable: true,
		Details: map[string]any{"operation": operation},
	}
}

// Internal reports an in-process failure such as ephemeral resource I/O.
func Internal(cause error) *Error {
	return &Error{
		Code: CodeInternal, Kind: KindInternal,
		Message: "Internal error",
		Status: http.StatusInternalServerError,
		Cause: cause,
	}
}
