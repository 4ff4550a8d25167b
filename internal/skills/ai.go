package skills

import (
	"context"
	"fmt"
	"net/http"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const aiPersona = "You are Forte, a small helpful voice assistant. " +
	"Answer briefly, in one or two spoken sentences, plain text only."

// AI answers utterances no rule claimed, through any OpenAI-compatible
// chat completion endpoint (OpenRouter by default).
type AI struct {
	client openai.Client
	model  string
}

// NewAI builds the fallback responder. httpClient may be nil.
func NewAI(apiKey, baseURL, model string, httpClient *http.Client) *AI {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}
	return &AI{client: openai.NewClient(opts...), model: model}
}

func (a *AI) Reply(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(aiPersona),
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModel(a.model),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("empty message content")
	}
	return content, nil
}
