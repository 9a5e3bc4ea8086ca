package anthropic

import (
	"fmt"
	"strings"

	"tavola-hq/menugate/pkg/providers"
)

// messagesRequest is the Anthropic Messages API request envelope.
type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messagesResponse is the Anthropic Messages API response envelope.
type messagesResponse struct {
	ID         string         `json:"id"`
	Model      string         `json:"model"`
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Usage      usage          `json:"usage"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// buildRequest wraps a prompt in a single-turn user message.
func buildRequest(prompt, model string) *messagesRequest {
	return &messagesRequest{
		Model:     model,
		MaxTokens: defaultMaxTokens,
		Messages: []message{
			{Role: "user", Content: prompt},
		},
	}
}

// extractText concatenates the text blocks of the response content.
func extractText(resp *messagesResponse) (string, error) {
	if len(resp.Content) == 0 {
		return "", fmt.Errorf("%w: response contains no content blocks", providers.ErrNoContent)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: response contains no text blocks", providers.ErrNoContent)
	}
	return sb.String(), nil
}
