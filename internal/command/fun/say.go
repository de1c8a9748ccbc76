package fun

import (
	"context"

	"github.com/keshon/ainnie/internal/command"
	"github.com/keshon/ainnie/pkg/cmd"
)

func registerSay(reg *cmd.Registry, mws ...cmd.Middleware) {
	command.Register(reg, command.Definition{
		Name:        "say",
		Description: "Makes Ainnie say something",
		Usage: `
			Usage:
				{command_prefix}say (message)

			Makes Ainnie say something
		`,
		Params: []cmd.Param{cmd.Required("text")},
		Handler: func(ctx context.Context, req *command.Request) (*command.Reply, error) {
			return command.Say(req.Rest("text"), replyExpire), nil
		},
	}, mws...)
}
