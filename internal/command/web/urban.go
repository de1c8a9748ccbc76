package web

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/keshon/ainnie/internal/command"
	"github.com/keshon/ainnie/pkg/cmd"
)

const (
	urbanMeaningLimit = 1000
	urbanMissing      = "Either the page doesn't exist, or you typed it in wrong. Please try again."
)

// Definition is one Urban Dictionary entry.
type Definition struct {
	Meaning     string
	Example     string
	Contributor string
}

// ParseUrban extracts the first definition of a define.php page. It reports
// false when the page has none.
func ParseUrban(body []byte) (Definition, bool) {
	doc, err := parseHTML(body)
	if err != nil {
		return Definition{}, false
	}

	var d Definition
	for class, dst := range map[string]*string{
		"meaning":     &d.Meaning,
		"example":     &d.Example,
		"contributor": &d.Contributor,
	} {
		n := findByClass(doc, class)
		if n == nil {
			return Definition{}, false
		}
		*dst = strings.Trim(textOf(n), "\n")
	}

	if r := []rune(d.Meaning); len(r) >= urbanMeaningLimit {
		d.Meaning = string(r[:urbanMeaningLimit]) + "..."
	}
	return d, true
}

func (f *fetcher) registerUrban(reg *cmd.Registry, mws ...cmd.Middleware) {
	command.Register(reg, command.Definition{
		Name:        "urban",
		Description: "Finds a phrase in urban dictionary",
		Usage: `
			Usage:
				{command_prefix}urban (phrase)

			Finds a phrase in urban dictionary
		`,
		Params: []cmd.Param{cmd.Required("phrase")},
		Handler: func(ctx context.Context, req *command.Request) (*command.Reply, error) {
			query := req.Rest("phrase")

			body, err := f.client.Get(ctx, f.src.Urban+"/define.php?term="+url.QueryEscape(query))
			if notFound(err) {
				return command.Say(urbanMissing, replyExpire), nil
			}
			if err != nil {
				return nil, command.NewExtractionError("Urban Dictionary is not answering right now.", err, replyExpire)
			}

			d, ok := ParseUrban(body)
			if !ok {
				return command.Say(urbanMissing, replyExpire), nil
			}
			return command.Say(fmt.Sprintf(":mag:**%s**: \n%s\n\n**Example**: \n%s\n\n**~%s**",
				query, d.Meaning, d.Example, d.Contributor), replyExpire), nil
		},
	}, mws...)
}
