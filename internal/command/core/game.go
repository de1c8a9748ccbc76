package core

import (
	"context"
	"strings"
	"time"

	"github.com/keshon/ainnie/internal/command"
	"github.com/keshon/ainnie/pkg/cmd"
)

func registerGame(reg *cmd.Registry, mws ...cmd.Middleware) {
	command.Register(reg, command.Definition{
		Name:        "game",
		Description: "Makes Ainnie play a game",
		Usage: `
			Usage:
				{command_prefix}game (message)

			Makes Ainnie play a game
			Ainnie removes her game if there is no message specified
		`,
		Handler: func(ctx context.Context, req *command.Request) (*command.Reply, error) {
			name := strings.Join(req.Leftover, " ")
			if err := req.Platform.SetGame(name); err != nil {
				return nil, command.NewCommandError("Unable to change my game: "+err.Error(), 20*time.Second)
			}
			if name == "" {
				return command.Say("I am no longer playing", 20*time.Second), nil
			}
			return command.Say("I am now playing "+name, 20*time.Second), nil
		},
	}, mws...)
}
