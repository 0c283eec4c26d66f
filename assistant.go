// Package souschef turns a chat history into a recipe reply. It guarantees a
// system prompt leads every conversation sent to the model and appends the
// model's answer to the history it was given.
package souschef

import (
	"context"
	"errors"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Completer is the subset of openai.Client the assistant needs. Keeping it an
// interface lets tests substitute a fake without a network.
type Completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

var (
	// ErrNoChoices means the provider answered with zero choices.
	ErrNoChoices = errors.New("completion returned no choices")
	// ErrEmptyReply means the top choice had no content after trimming.
	ErrEmptyReply = errors.New("completion returned an empty reply")
)

// Assistant invokes a chat completion model over a caller-owned conversation.
// It holds no conversation state of its own; every call receives the full
// history and returns it extended by one assistant message.
type Assistant struct {
	Client Completer
	Model  string
	// Prompt is prepended to conversations that do not open with a system
	// message. Override it in tests to run with an alternate persona.
	Prompt string
}

// NewAssistant returns an Assistant with the package defaults filled in.
// An empty model selects DefaultModel.
func NewAssistant(client Completer, model string) *Assistant {
	if model == "" {
		model = DefaultModel
	}
	return &Assistant{
		Client: client,
		Model:  model,
		Prompt: SystemPrompt,
	}
}

// EnsureSystemPrompt returns history with a system message guaranteed first.
// A history that already opens with a system message is returned as-is, so
// callers can carry a custom persona through unchanged. Roles are trusted as
// given; only position 0 is inspected.
func EnsureSystemPrompt(history []openai.ChatCompletionMessage, prompt string) []openai.ChatCompletionMessage {
	if len(history) > 0 && history[0].Role == openai.ChatMessageRoleSystem {
		return history
	}
	msgs := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	msgs = append(msgs, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: prompt,
	})
	return append(msgs, history...)
}

// Respond sends the full history to the model and returns it with the
// model's reply appended as a trailing assistant message. The call blocks for
// the whole round trip; cancellation and timeouts belong to ctx. Provider
// errors are returned to the caller untouched; there is no retry and no
// fallback reply.
func (a *Assistant) Respond(ctx context.Context, history []openai.ChatCompletionMessage) ([]openai.ChatCompletionMessage, error) {
	msgs := EnsureSystemPrompt(history, a.Prompt)

	resp, err := a.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    a.Model,
		Messages: msgs,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, ErrNoChoices
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		return nil, ErrEmptyReply
	}

	out := make([]openai.ChatCompletionMessage, len(msgs), len(msgs)+1)
	copy(out, msgs)
	return append(out, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleAssistant,
		Content: reply,
	}), nil
}
