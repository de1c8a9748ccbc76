package web

import (
	"context"
	"strings"

	"github.com/keshon/ainnie/internal/command"
	"github.com/keshon/ainnie/pkg/cmd"
)

func (f *fetcher) registerPenguin(reg *cmd.Registry, mws ...cmd.Middleware) {
	command.Register(reg, command.Definition{
		Name:        "penguin",
		Description: "Sends Penguins",
		Usage: `
			Usage:
				{command_prefix}penguin

			Sends Penguins
		`,
		Handler: func(ctx context.Context, req *command.Request) (*command.Reply, error) {
			body, err := f.client.Get(ctx, f.src.Penguin+"/")
			if err != nil {
				return nil, command.NewExtractionError("The penguins are hiding.", err, replyExpire)
			}
			doc, err := parseHTML(body)
			if err != nil {
				return nil, command.NewExtractionError("The penguins are hiding.", err, replyExpire)
			}
			return command.Say("Pingu pingu!\n"+strings.TrimSpace(textOf(doc)), replyExpire), nil
		},
	}, mws...)
}
