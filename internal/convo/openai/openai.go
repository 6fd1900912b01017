// Package openai implements convo.Responder on the OpenAI chat completions API.
package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/nadzzz/jarvisd/internal/convo"
)

const systemPrompt = `You are Jarvis, a helpful voice assistant.
Respond concisely and naturally. Keep responses brief and conversational,
suitable for being read aloud. Plain text only, no markdown.`

// Responder answers free-form prompts through the chat completions API.
type Responder struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

// Options configures a Responder.
type Options struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// New creates an OpenAI responder.
func New(opts Options) *Responder {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Responder{
		client:  openai.NewClient(option.WithAPIKey(opts.APIKey)),
		model:   opts.Model,
		timeout: timeout,
	}
}

// Generate asks the model for a reply to the prompt. Failures and empty
// completions report convo.ErrUnavailable.
func (r *Responder) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModel(r.model),
	})
	if err != nil {
		return "", fmt.Errorf("%w: chat completion: %v", convo.ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", convo.ErrUnavailable)
	}

	text := cleanForVoice(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: empty completion", convo.ErrUnavailable)
	}

	slog.Debug("conversational reply generated", "length", len(text))
	return text, nil
}

// cleanForVoice strips markdown markers and collapses whitespace so the
// reply reads naturally through the speech synthesizer.
func cleanForVoice(text string) string {
	replacer := strings.NewReplacer("*", "", "#", "", "`", "")
	return strings.Join(strings.Fields(replacer.Replace(text)), " ")
}
