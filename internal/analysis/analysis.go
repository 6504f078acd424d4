// Package analysis sends a transcript and a compiled system prompt to the
// language model and validates the reply into the canonical feedback
// structure. A reply that breaks the contract is rejected whole; partial
// results are never returned.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"

	"github.com/vocalab/speech-coach/internal/apperr"
	"github.com/vocalab/speech-coach/internal/types"
)

// ChatCompleter is the slice of the OpenAI client the orchestrator depends on.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Orchestrator runs the analysis call. Stateless; safe for concurrent use.
type Orchestrator struct {
	client ChatCompleter
	model  string
}

// NewOrchestrator creates an orchestrator. An empty model defaults to gpt-4.
func NewOrchestrator(client ChatCompleter, model string) *Orchestrator {
	if model == "" {
		model = openai.GPT4
	}
	return &Orchestrator{client: client, model: model}
}

// Analyze sends the prompt as instruction context and the transcript as
// subject content, then parses the reply into an AnalysisResult.
func (o *Orchestrator) Analyze(ctx context.Context, transcript, systemPrompt string) (types.AnalysisResult, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return nil, apperr.EmptyTranscript()
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: transcript},
		},
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperr.Timeout("analysis")
		}
		return nil, apperr.AnalysisUpstream(err)
	}
	if len(resp.Choices) == 0 {
		return nil, apperr.AnalysisUpstream(errors.New("model returned no choices"))
	}

	raw := resp.Choices[0].Message.Content
	result, err := parseResult(raw)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("model", o.model).
		Int("transcript_chars", len(transcript)).
		Msg("analysis completed")
	return result, nil
}

func formatErr(raw, format string, args ...any) error {
	return apperr.AnalysisFormat(fmt.Sprintf(format, args...), raw)
}
