package cmd

import (
	"fmt"
	"strings"
)

// Param is a positional, user-supplied argument of a command.
type Param struct {
	Name       string
	Default    string
	HasDefault bool
}

// Required declares a positional parameter without a default.
func Required(name string) Param {
	return Param{Name: name}
}

// Optional declares a positional parameter with a default value.
func Optional(name, def string) Param {
	return Param{Name: name, Default: def, HasDefault: true}
}

// String renders the parameter the way it appears in generated usage lines.
func (p Param) String() string {
	if p.HasDefault {
		return fmt.Sprintf("[%s=%s]", p.Name, p.Default)
	}
	return p.Name
}

// Binding is the result of matching argument tokens against declared params.
type Binding struct {
	Values   map[string]string
	Leftover []string
	Missing  []string
}

// Complete reports whether every required parameter received a value.
func (b Binding) Complete() bool {
	return len(b.Missing) == 0
}

// Bind consumes tokens left to right, one per declared parameter. A parameter
// with no token left takes its default; without a default it is reported as
// missing. Tokens not consumed by any parameter end up in Leftover.
func Bind(params []Param, tokens []string) Binding {
	b := Binding{Values: make(map[string]string, len(params))}

	rest := tokens
	for _, p := range params {
		if len(rest) > 0 {
			b.Values[p.Name] = rest[0]
			rest = rest[1:]
			continue
		}
		if p.HasDefault {
			b.Values[p.Name] = p.Default
			continue
		}
		b.Missing = append(b.Missing, p.Name)
	}

	b.Leftover = append([]string{}, rest...)
	return b
}

// PrefixPlaceholder is substituted with the configured command prefix in usage text.
const PrefixPlaceholder = "{command_prefix}"

// Usage renders the usage block for a command. When doc is empty a one-line
// usage is generated from the parameter list. Every line is trimmed.
func Usage(prefix, name, doc string, params []Param) string {
	if strings.TrimSpace(doc) == "" {
		parts := []string{"Usage:", prefix + name}
		for _, p := range params {
			parts = append(parts, p.String())
		}
		return strings.Join(parts, " ")
	}

	lines := strings.Split(strings.TrimSpace(doc), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.ReplaceAll(strings.Join(lines, "\n"), PrefixPlaceholder, prefix)
}
