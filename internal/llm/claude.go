package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"
)

type ClaudeClient struct {
	client *anthropic.Client
	model  anthropic.Model
}

func NewClaudeClient(apiKey string, model string, baseURL string) *ClaudeClient {
	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	m := anthropic.Model(model)
	if model == "" {
		m = anthropic.ModelClaude3Dot5HaikuLatest
	}
	return &ClaudeClient{
		client: anthropic.NewClient(apiKey, opts...),
		model:  m,
	}
}

// Generate returns the concatenated text blocks of the reply.
func (c *ClaudeClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:  c.model,
		System: jsonInstruction,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(prompt),
		},
		MaxTokens: maxReplyTokens,
	})
	if err != nil {
		return "", fmt.Errorf("claude create message (%s): %w", c.model, err)
	}

	var b strings.Builder
	for i := range resp.Content {
		if resp.Content[i].Type == anthropic.MessagesContentTypeText {
			b.WriteString(resp.Content[i].GetText())
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("claude create message (%s): no text content", c.model)
	}
	return b.String(), nil
}
