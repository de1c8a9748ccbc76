package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		params   []Param
		tokens   []string
		values   map[string]string
		leftover []string
		missing  []string
	}{
		{
			name:     "no params keeps every token",
			tokens:   []string{"a", "b"},
			values:   map[string]string{},
			leftover: []string{"a", "b"},
		},
		{
			name:     "tokens consumed left to right",
			params:   []Param{Required("first"), Required("second")},
			tokens:   []string{"x", "y", "z"},
			values:   map[string]string{"first": "x", "second": "y"},
			leftover: []string{"z"},
		},
		{
			name:     "default used when tokens run out",
			params:   []Param{Optional("range", "50")},
			values:   map[string]string{"range": "50"},
			leftover: []string{},
		},
		{
			name:     "token wins over default",
			params:   []Param{Optional("sides", "6")},
			tokens:   []string{"20"},
			values:   map[string]string{"sides": "20"},
			leftover: []string{},
		},
		{
			name:     "required param without token is missing",
			params:   []Param{Required("phrase")},
			values:   map[string]string{},
			leftover: []string{},
			missing:  []string{"phrase"},
		},
		{
			name:     "mixed params",
			params:   []Param{Required("seconds"), Optional("mode", "once"), Required("note")},
			tokens:   []string{"10"},
			values:   map[string]string{"seconds": "10", "mode": "once"},
			leftover: []string{},
			missing:  []string{"note"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := Bind(tt.params, tt.tokens)
			assert.Equal(t, tt.values, b.Values)
			assert.Equal(t, tt.leftover, b.Leftover)
			assert.Equal(t, tt.missing, b.Missing)
			assert.Equal(t, len(tt.missing) == 0, b.Complete())
		})
	}
}

func TestBindDoesNotAliasTokens(t *testing.T) {
	tokens := []string{"a", "b", "c"}
	b := Bind([]Param{Required("x")}, tokens)
	require.Equal(t, []string{"b", "c"}, b.Leftover)

	b.Leftover[0] = "changed"
	assert.Equal(t, "b", tokens[1])
}

func TestUsage(t *testing.T) {
	t.Parallel()

	t.Run("generated from params", func(t *testing.T) {
		got := Usage("!", "clean", "", []Param{Required("channel"), Optional("range", "50")})
		assert.Equal(t, "Usage: !clean channel [range=50]", got)
	})

	t.Run("doc lines trimmed and prefix substituted", func(t *testing.T) {
		doc := `
			Usage:
				{command_prefix}roll #

			Rolls a die.
		`
		got := Usage("?", "roll", doc, nil)
		assert.Equal(t, "Usage:\n?roll #\n\nRolls a die.", got)
	})
}
