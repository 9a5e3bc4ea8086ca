package groq

import (
	"fmt"

	"tavola-hq/menugate/pkg/providers"
)

// chatRequest is Groq's OpenAI-compatible chat completion request.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is Groq's OpenAI-compatible chat completion response.
type chatResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// buildRequest wraps a prompt in a single-turn user message.
func buildRequest(prompt, model string) *chatRequest {
	return &chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	}
}

// extractText pulls the reply text out of the first choice.
func extractText(resp *chatResponse) (string, error) {
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: response contains no choices", providers.ErrNoContent)
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("%w: response choice contains no content", providers.ErrNoContent)
	}
	return content, nil
}
