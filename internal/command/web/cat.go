package web

import (
	"context"
	"encoding/xml"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/keshon/ainnie/internal/command"
	"github.com/keshon/ainnie/pkg/cmd"
)

const noCats = "I couldn't get any cat gifs"

type catResponse struct {
	URLs []string `xml:"data>images>image>url"`
}

// ParseCat returns the first image URL of a thecatapi XML response.
func ParseCat(body []byte) (string, bool) {
	var r catResponse
	if err := xml.Unmarshal(body, &r); err != nil || len(r.URLs) == 0 {
		return "", false
	}
	u := strings.TrimSpace(r.URLs[0])
	return u, u != ""
}

func (f *fetcher) registerCat(reg *cmd.Registry, mws ...cmd.Middleware) {
	command.Register(reg, command.Definition{
		Name:        "cat",
		Description: "Makes Ainnie send a cat picture",
		Usage: `
			Usage:
				{command_prefix}cat

			Makes Ainnie send a cat picture
		`,
		Handler: func(ctx context.Context, req *command.Request) (*command.Reply, error) {
			body, err := f.client.Get(ctx, f.src.Cat+"/api/images/get?format=xml&results_per_page=1")
			if err != nil {
				log.Warn().Err(err).Msg("Cat fetch failed")
				return command.Say(noCats, replyExpire), nil
			}
			u, ok := ParseCat(body)
			if !ok {
				return command.Say(noCats, replyExpire), nil
			}
			return command.Say("Nyaa〜\n"+u, replyExpire), nil
		},
	}, mws...)
}
