package ai

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultPersona is used when no persona file is configured.
const DefaultPersona = "You are Ainnie, a cheerful and slightly sarcastic chat bot on a Discord server. " +
	"Answer in one or two short sentences, in the language you were spoken to."

const historyTurns = 6

// Responder answers free-form text in the bot's persona and remembers the
// last few exchanges per conversation.
type Responder struct {
	provider Provider
	persona  string
	limiter  *Limiter
	now      func() time.Time

	mu      sync.Mutex
	history map[string][]Message
}

func NewResponder(p Provider, persona string) *Responder {
	if strings.TrimSpace(persona) == "" {
		persona = DefaultPersona
	}
	return &Responder{
		provider: p,
		persona:  strings.TrimSpace(persona),
		limiter:  DefaultLimiter(),
		now:      time.Now,
		history:  make(map[string][]Message),
	}
}

// WithLimiter replaces the call budget. A nil limiter disables limiting.
func (r *Responder) WithLimiter(l *Limiter) *Responder {
	r.limiter = l
	return r
}

// LoadPersona reads the persona prompt at path, falling back to
// DefaultPersona when the file does not exist.
func LoadPersona(path string) (string, error) {
	if path == "" {
		return DefaultPersona, nil
	}
	body, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info().Str("path", path).Msg("Persona file not found, using the default persona")
		return DefaultPersona, nil
	}
	if err != nil {
		return "", fmt.Errorf("read persona: %w", err)
	}
	return string(body), nil
}

// Respond answers text written by author in the conversation identified by
// key. It returns ErrRateLimited without calling the provider when the call
// budget is spent.
func (r *Responder) Respond(ctx context.Context, key, author, text string) (string, error) {
	if r.limiter != nil {
		if !r.limiter.AllowAndRecord(key, r.now()) {
			return "", ErrRateLimited
		}
	}

	user := Message{Role: "user", Content: fmt.Sprintf("User %s: %s", author, text)}

	r.mu.Lock()
	messages := make([]Message, 0, len(r.history[key])+2)
	messages = append(messages, Message{Role: "system", Content: r.persona})
	messages = append(messages, r.history[key]...)
	messages = append(messages, user)
	r.mu.Unlock()

	reply, err := r.provider.Generate(ctx, messages)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	h := append(r.history[key], user, Message{Role: "assistant", Content: reply})
	if len(h) > historyTurns*2 {
		h = h[len(h)-historyTurns*2:]
	}
	r.history[key] = h
	r.mu.Unlock()

	return reply, nil
}

// Forget drops the remembered exchanges of a conversation.
func (r *Responder) Forget(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.history, key)
}
