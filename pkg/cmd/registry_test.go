package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCommand struct {
	name string
	runs int
}

func (s *stubCommand) Name() string        { return s.name }
func (s *stubCommand) Description() string { return "stub " + s.name }
func (s *stubCommand) Run(ctx context.Context, inv *Invocation) error {
	s.runs++
	return nil
}

func TestRegistryLookupIsCaseInsensitive(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubCommand{name: "xkcd"})
	r.Register(&stubCommand{name: "8ball"})

	require.NotNil(t, r.Get("XKCD"))
	require.NotNil(t, r.Get("8Ball"))
	assert.Nil(t, r.Get("xkcd2"))
	assert.Equal(t, []string{"8ball", "xkcd"}, r.Names())
}

func TestWrapAndRoot(t *testing.T) {
	inner := &stubCommand{name: "dot"}
	var order []string

	mw := func(tag string) Middleware {
		return func(c Command) Command {
			return Wrap(c, func(ctx context.Context, inv *Invocation) error {
				order = append(order, tag)
				return c.Run(ctx, inv)
			})
		}
	}

	c := Apply(inner, mw("inner"), mw("outer"))
	require.NoError(t, c.Run(context.Background(), &Invocation{}))

	assert.Equal(t, []string{"outer", "inner"}, order)
	assert.Equal(t, 1, inner.runs)
	assert.Equal(t, "dot", c.Name())
	assert.Same(t, inner, Root(c))
}
