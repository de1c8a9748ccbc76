package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/keshon/ainnie/pkg/httpfetch"
)

const pollinationsURL = "https://text.pollinations.ai/openai"

type PollinationsProvider struct {
	URL    string
	client *httpfetch.Client
}

func NewPollinationsProvider(client *httpfetch.Client) *PollinationsProvider {
	return &PollinationsProvider{URL: pollinationsURL, client: client}
}

func (p *PollinationsProvider) Generate(ctx context.Context, messages []Message) (string, error) {
	payload := map[string]any{
		"model":       "openai",
		"messages":    messages,
		"temperature": 1,
		"private":     true,
	}

	body, err := p.client.PostJSON(ctx, p.URL, payload)
	if err != nil {
		return "", fmt.Errorf("pollinations: %w", err)
	}

	reply, err := firstChoice(body)
	if err != nil {
		return "", fmt.Errorf("pollinations: %w", err)
	}
	if isGarbageResponse(reply) {
		return "", errors.New("pollinations returned garbage")
	}
	return reply, nil
}

type completion struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func firstChoice(body []byte) (string, error) {
	var parsed completion
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal: %w body=%s", err, truncate(body))
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("empty choices")
	}
	return cleanReply(parsed.Choices[0].Message.Content), nil
}
