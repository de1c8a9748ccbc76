// Package admin holds the owner-only commands that change the bot itself.
package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/ainnie/internal/command"
	"github.com/keshon/ainnie/internal/middleware"
	"github.com/keshon/ainnie/internal/platform"
	"github.com/keshon/ainnie/pkg/cmd"
	"github.com/keshon/ainnie/pkg/httpfetch"
)

const replyExpire = 20 * time.Second

type admin struct {
	client      *httpfetch.Client
	invitePerms int64
}

// Register adds every command of the package to reg. All of them are
// restricted to the owner.
func Register(reg *cmd.Registry, client *httpfetch.Client, invitePerms int64, mws ...cmd.Middleware) {
	a := &admin{client: client, invitePerms: invitePerms}
	owner := ownerOnly(mws)

	command.Register(reg, command.Definition{
		Name:        "setname",
		Description: "Changes the bot's username",
		Usage: `
			Usage:
				{command_prefix}setname name

			Changes the bot's username.
			Note: This operation is limited by discord to twice per hour.
		`,
		Params:  []cmd.Param{cmd.Required("name")},
		Handler: a.setName,
	}, owner...)

	command.Register(reg, command.Definition{
		Name:        "setnick",
		Description: "Changes the bot's nickname",
		Usage: `
			Usage:
				{command_prefix}setnick nick

			Changes the bot's nickname.
		`,
		Params:  []cmd.Param{cmd.Required("nick")},
		Handler: a.setNick,
	}, ownerOnly(mws, middleware.WithBotPermission(discordgo.PermissionChangeNickname))...)

	command.Register(reg, command.Definition{
		Name:        "setavatar",
		Description: "Changes the bot's avatar",
		Usage: `
			Usage:
				{command_prefix}setavatar [url]

			Changes the bot's avatar.
			Attaching a file and leaving the url parameter blank also works.
		`,
		Params:  []cmd.Param{cmd.Optional("url", "")},
		Needs:   command.NeedMessage,
		Handler: a.setAvatar,
	}, owner...)

	command.Register(reg, command.Definition{
		Name:        "joinserver",
		Description: "Sends the bot's invite link",
		Usage: `
			Usage:
				{command_prefix}joinserver

			Sends the link to add the bot to a server.
		`,
		AllowDM: true,
		Handler: a.joinServer,
	}, owner...)

	command.Register(reg, command.Definition{
		Name:        "restart",
		Description: "Restarts the bot",
		Usage: `
			Usage:
				{command_prefix}restart

			Reconnects the bot and reloads its configuration.
		`,
		Handler: signalHandler(command.ErrRestart),
	}, owner...)

	command.Register(reg, command.Definition{
		Name:        "shutdown",
		Description: "Shuts the bot down",
		Usage: `
			Usage:
				{command_prefix}shutdown

			Disconnects the bot and exits.
		`,
		Handler: signalHandler(command.ErrTerminate),
	}, owner...)
}

// ownerOnly puts inner closest to the handler and the owner check outermost.
func ownerOnly(mws []cmd.Middleware, inner ...cmd.Middleware) []cmd.Middleware {
	out := make([]cmd.Middleware, 0, len(inner)+len(mws)+1)
	out = append(out, inner...)
	out = append(out, mws...)
	return append(out, middleware.WithOwnerOnly())
}

func (a *admin) joinServer(ctx context.Context, req *command.Request) (*command.Reply, error) {
	url := fmt.Sprintf("https://discord.com/oauth2/authorize?client_id=%s&scope=bot&permissions=%d",
		req.Platform.Self().ID, a.invitePerms)
	return &command.Reply{Content: "Click here to add me to a server: <" + url + ">", DeleteAfter: time.Minute}, nil
}

func signalHandler(sig command.Signal) command.Handler {
	return func(ctx context.Context, req *command.Request) (*command.Reply, error) {
		_, _ = platform.SafeSend(req.Platform, req.ChannelID, ":wave:")
		return nil, sig
	}
}
