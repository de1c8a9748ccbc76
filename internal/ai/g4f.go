package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/keshon/ainnie/pkg/httpfetch"
)

type G4FProvider struct {
	BaseURL string
	Model   string
	client  *httpfetch.Client
}

// NewG4FProvider parses engines such as
//
//	g4f:gpt-oss-120b
//	g4f:groq/qwen/qwen3-32b
//	g4f:ollama/gpt-oss:20b
func NewG4FProvider(engine string, client *httpfetch.Client) *G4FProvider {
	target := "gpt-oss-120b"
	if _, after, ok := strings.Cut(engine, ":"); ok && after != "" {
		target = after
	}

	p := &G4FProvider{client: client}
	switch {
	case strings.HasPrefix(target, "groq/"):
		p.BaseURL = "https://g4f.dev/api/groq"
		p.Model = strings.TrimPrefix(target, "groq/")
	case strings.HasPrefix(target, "ollama/"):
		p.BaseURL = "https://g4f.dev/api/ollama"
		p.Model = strings.TrimPrefix(target, "ollama/")
	default:
		p.BaseURL = "https://g4f.dev/api/gpt-oss-120b"
		p.Model = target
	}
	return p
}

func (p *G4FProvider) Generate(ctx context.Context, messages []Message) (string, error) {
	body, err := p.client.PostJSON(ctx, p.BaseURL+"/chat/completions", map[string]any{
		"model":    p.Model,
		"messages": messages,
	})
	if err != nil {
		return "", fmt.Errorf("g4f: %w", err)
	}

	reply, err := firstChoice(body)
	if err != nil {
		return "", fmt.Errorf("g4f: %w", err)
	}
	if reply == "" {
		return "", fmt.Errorf("g4f: empty reply")
	}
	return reply, nil
}
