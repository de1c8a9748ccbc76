// Package ai talks to chat-completion endpoints and keeps the conversational
// persona the bot answers mentions with.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/keshon/ainnie/pkg/httpfetch"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Provider interface {
	Generate(ctx context.Context, messages []Message) (string, error)
}

// NewProvider builds the provider named by engine. A comma separated list
// yields a MultiProvider trying each engine in order.
//
//	pollinations
//	g4f:gpt-oss-120b
//	pollinations,g4f:groq/qwen/qwen3-32b
func NewProvider(engine string, client *httpfetch.Client) (Provider, error) {
	var providers []Provider
	for _, name := range strings.Split(engine, ",") {
		name = strings.TrimSpace(name)
		switch {
		case name == "" || name == "pollinations":
			providers = append(providers, NewPollinationsProvider(client))
		case name == "g4f" || strings.HasPrefix(name, "g4f:"):
			providers = append(providers, NewG4FProvider(name, client))
		default:
			return nil, fmt.Errorf("unsupported AI_PROVIDER: %s", name)
		}
	}
	if len(providers) == 1 {
		return providers[0], nil
	}
	return &MultiProvider{Providers: providers}, nil
}

// MultiProvider returns the first successful answer of its providers.
type MultiProvider struct {
	Providers []Provider
}

func (m *MultiProvider) Generate(ctx context.Context, messages []Message) (string, error) {
	var errs []error
	for _, p := range m.Providers {
		reply, err := p.Generate(ctx, messages)
		if err == nil {
			return reply, nil
		}
		errs = append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	return "", errors.Join(errs...)
}
