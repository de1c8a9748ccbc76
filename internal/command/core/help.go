package core

import (
	"context"
	"strings"
	"time"

	"github.com/keshon/ainnie/internal/command"
	"github.com/keshon/ainnie/pkg/cmd"
)

func registerHelp(reg *cmd.Registry, mws ...cmd.Middleware) {
	command.Register(reg, command.Definition{
		Name:        "help",
		Description: "Prints a help message",
		Usage: `
			Usage:
				{command_prefix}help [command]

			Prints a help message.
			If a command is specified, it prints a help message for that command.
			Otherwise, it lists the available commands.
		`,
		Params:  []cmd.Param{cmd.Optional("command", "")},
		Handler: runHelp,
	}, mws...)
}

func runHelp(ctx context.Context, req *command.Request) (*command.Reply, error) {
	if name := req.Arg("command"); name != "" {
		def, ok := command.Lookup(req.Registry.Get(strings.ToLower(name)))
		if !ok {
			return command.Say("No such command", 10*time.Second), nil
		}
		return command.Say("```\n"+def.UsageText(req.Prefix)+"\n```", time.Minute), nil
	}

	var names []string
	for _, n := range req.Registry.Names() {
		if n != "help" {
			names = append(names, req.Prefix+n)
		}
	}

	return &command.Reply{
		Content:     "my commands are\n```" + strings.Join(names, ", ") + "\n\n@me to talk to me!```",
		Mention:     true,
		DeleteAfter: time.Minute,
	}, nil
}
