package google

import (
	"fmt"
	"strings"

	"tavola-hq/menugate/pkg/providers"
)

// generateRequest is the Gemini generateContent request envelope.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// generateResponse is the Gemini generateContent response envelope.
type generateResponse struct {
	Candidates    []candidate   `json:"candidates"`
	UsageMetadata usageMetadata `json:"usageMetadata"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

type usageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// buildRequest wraps a prompt in a single user content turn.
func buildRequest(prompt string) *generateRequest {
	return &generateRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: prompt}}},
		},
	}
}

// extractText concatenates the text parts of the first candidate.
func extractText(resp *generateResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: response contains no candidates", providers.ErrNoContent)
	}

	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: candidate contains no text parts", providers.ErrNoContent)
	}
	return sb.String(), nil
}

// isInvalidKeyBody reports whether a Gemini 400 body describes a rejected
// API key rather than a malformed request.
func isInvalidKeyBody(body string) bool {
	lower := strings.ToLower(body)
	return strings.Contains(lower, "api key not valid") ||
		strings.Contains(lower, "api_key_invalid")
}
