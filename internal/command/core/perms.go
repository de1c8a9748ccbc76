package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/keshon/ainnie/internal/command"
	"github.com/keshon/ainnie/internal/platform"
	"github.com/keshon/ainnie/pkg/cmd"
)

func registerPerms(reg *cmd.Registry, mws ...cmd.Middleware) {
	command.Register(reg, command.Definition{
		Name:        "perms",
		Description: "Sends the user a list of their permissions",
		Usage: `
			Usage:
				{command_prefix}perms

			Sends the user a list of their permissions.
		`,
		Needs:   command.NeedPermissions | command.NeedGuild,
		Handler: runPerms,
	}, mws...)
}

func runPerms(ctx context.Context, req *command.Request) (*command.Reply, error) {
	if req.Permissions == nil {
		return nil, command.NewCommandError("I can't work out your permissions.", 20*time.Second)
	}

	where := "private messages"
	if req.Guild != nil {
		where = req.Guild.Name
	}

	lines := []string{fmt.Sprintf("Command permissions in %s\n", where), "```"}
	lines = append(lines, req.Permissions.Lines()...)
	lines = append(lines, "```")

	dm, err := req.Platform.DMChannel(req.AuthorID)
	if err != nil {
		return nil, command.NewCommandError("I can't message you privately.", 20*time.Second)
	}
	if _, err := platform.SafeSend(req.Platform, dm.ID, strings.Join(lines, "\n")); err != nil {
		return nil, command.NewCommandError("I can't message you privately.", 20*time.Second)
	}

	return command.Say(":mailbox_with_mail:", 20*time.Second), nil
}
