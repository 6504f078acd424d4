package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/vocalab/speech-coach/internal/apperr"
	"github.com/vocalab/speech-coach/internal/types"
)

// stubTranscriber is a test double for the Transcriber interface.
type stubTranscriber struct {
	text    string
	err     error
	invoked bool
}

func (s *stubTranscriber) Transcribe(ctx context.Context, audio *types.AudioArtifact) (string, error) {
	s.invoked = true
	return s.text, s.err
}

// stubAnalyzer is a test double for the Analyzer interface.
type stubAnalyzer struct {
	result        types.AnalysisResult
	err           error
	invoked       bool
	gotTranscript string
	gotPrompt     string
}

func (s *stubAnalyzer) Analyze(ctx context.Context, transcript, systemPrompt string) (types.AnalysisResult, error) {
	s.invoked = true
	s.gotTranscript = transcript
	s.gotPrompt = systemPrompt
	return s.result, s.err
}

func fullResult() types.AnalysisResult {
	result := make(types.AnalysisResult, 0, len(types.CanonicalCategories))
	for i, category := range types.CanonicalCategories {
		result = append(result, types.FeedbackItem{
			Category: category,
			Score:    (i % 10) + 1,
			Feedback: fmt.Sprintf("feedback for %s", category),
		})
	}
	return result
}

func newApp(transcriber Transcriber, analyzer Analyzer) *fiber.App {
	app := fiber.New(fiber.Config{StreamRequestBody: true})
	app.All("/transcribe", NewTranscribeHandler(transcriber, time.Second).Handle)
	app.All("/analyze", NewAnalyzeHandler(analyzer, time.Second).Handle)
	app.Get("/drills", ListDrills)
	return app
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("decode response %q: %v", data, err)
	}
	return body
}

func multipartBody(t *testing.T, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("audio", "recording.webm")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

func TestTranscribeSuccess(t *testing.T) {
	transcriber := &stubTranscriber{text: "hello from the drill"}
	app := newApp(transcriber, &stubAnalyzer{})

	body, contentType := multipartBody(t, bytes.Repeat([]byte{0xAA}, 512))
	req := httptest.NewRequest(http.MethodPost, "/transcribe", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	got := decodeBody(t, resp)
	if got["transcription"] != "hello from the drill" {
		t.Errorf("transcription = %v", got["transcription"])
	}
}

func TestTranscribeWrongContentType(t *testing.T) {
	transcriber := &stubTranscriber{text: "never"}
	app := newApp(transcriber, &stubAnalyzer{})

	req := httptest.NewRequest(http.MethodPost, "/transcribe", strings.NewReader(`{"audio":"x"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if transcriber.invoked {
		t.Error("transcriber invoked despite wrong content type")
	}
	got := decodeBody(t, resp)
	if got["code"] != apperr.CodeUnsupportedContentType {
		t.Errorf("code = %v, want %s", got["code"], apperr.CodeUnsupportedContentType)
	}
}

func TestTranscribeNoFilePart(t *testing.T) {
	app := newApp(&stubTranscriber{}, &stubAnalyzer{})

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("name", "no audio here"); err != nil {
		t.Fatal(err)
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/transcribe", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	got := decodeBody(t, resp)
	if got["code"] != apperr.CodeNoAudio {
		t.Errorf("code = %v, want %s", got["code"], apperr.CodeNoAudio)
	}
}

func TestTranscribeUpstreamFailureIs500(t *testing.T) {
	transcriber := &stubTranscriber{err: apperr.TranscriptionUpstream(fmt.Errorf("whisper down"))}
	app := newApp(transcriber, &stubAnalyzer{})

	body, contentType := multipartBody(t, bytes.Repeat([]byte{0xAA}, 512))
	req := httptest.NewRequest(http.MethodPost, "/transcribe", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	got := decodeBody(t, resp)
	if got["details"] != "whisper down" {
		t.Errorf("details = %v, want provider message", got["details"])
	}
}

func TestTranscribeMethodNotAllowed(t *testing.T) {
	app := newApp(&stubTranscriber{}, &stubAnalyzer{})

	req := httptest.NewRequest(http.MethodGet, "/transcribe", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", resp.StatusCode)
	}
	got := decodeBody(t, resp)
	if got["receivedMethod"] != http.MethodGet {
		t.Errorf("receivedMethod = %v, want GET", got["receivedMethod"])
	}
}

func TestAnalyzeSuccessWithDrill(t *testing.T) {
	analyzer := &stubAnalyzer{result: fullResult()}
	app := newApp(&stubTranscriber{}, analyzer)

	payload := `{"transcription": "today I practiced holding a pen between my teeth", "drillId": 1}`
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	got := decodeBody(t, resp)
	items, ok := got["analysis"].([]any)
	if !ok {
		t.Fatalf("analysis is %T, want array", got["analysis"])
	}
	if len(items) != len(types.CanonicalCategories) {
		t.Fatalf("len(analysis) = %d, want %d", len(items), len(types.CanonicalCategories))
	}

	var clarity map[string]any
	for _, raw := range items {
		item := raw.(map[string]any)
		if item["category"] == "Clarity and Articulation" {
			clarity = item
		}
	}
	if clarity == nil {
		t.Fatal("analysis missing Clarity and Articulation item")
	}
	if feedback, _ := clarity["feedback"].(string); feedback == "" {
		t.Error("Clarity and Articulation feedback is empty")
	}

	// The Pen Drill section must reach the analyzer via the compiled prompt.
	if !strings.Contains(analyzer.gotPrompt, "consonant articulation and clarity") {
		t.Error("compiled prompt missing Pen Drill emphasis")
	}
}

func TestAnalyzeInvalidBodies(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"wrong type", `{"transcription": 123}`},
		{"missing field", `{"drillId": 1}`},
		{"not json", `transcription=hi`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			analyzer := &stubAnalyzer{result: fullResult()}
			app := newApp(&stubTranscriber{}, analyzer)

			req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(tc.payload))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
			if analyzer.invoked {
				t.Error("analyzer invoked despite invalid body")
			}
		})
	}
}

func TestAnalyzeFormatFailureIs500(t *testing.T) {
	analyzer := &stubAnalyzer{err: apperr.AnalysisFormat("not an array", "oops")}
	app := newApp(&stubTranscriber{}, analyzer)

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"transcription": "hi there"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	got := decodeBody(t, resp)
	if got["code"] != apperr.CodeAnalysisFormat {
		t.Errorf("code = %v, want %s", got["code"], apperr.CodeAnalysisFormat)
	}
}

func TestAnalyzeMethodNotAllowed(t *testing.T) {
	app := newApp(&stubTranscriber{}, &stubAnalyzer{})

	req := httptest.NewRequest(http.MethodDelete, "/analyze", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", resp.StatusCode)
	}
	got := decodeBody(t, resp)
	if got["receivedMethod"] != http.MethodDelete {
		t.Errorf("receivedMethod = %v, want DELETE", got["receivedMethod"])
	}
}

func TestListDrills(t *testing.T) {
	app := newApp(&stubTranscriber{}, &stubAnalyzer{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/drills", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	got := decodeBody(t, resp)
	list, ok := got["drills"].([]any)
	if !ok || len(list) != 10 {
		t.Fatalf("drills = %v, want 10 profiles", got["drills"])
	}
}
