package middleware

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/ainnie/internal/command"
	"github.com/keshon/ainnie/internal/platform"
	"github.com/keshon/ainnie/pkg/cmd"
)

var PermissionNames = map[int64]string{
	discordgo.PermissionAdministrator:      "Administrator",
	discordgo.PermissionViewChannel:        "View Channel",
	discordgo.PermissionSendMessages:       "Send Messages",
	discordgo.PermissionManageMessages:     "Manage Messages",
	discordgo.PermissionAttachFiles:        "Attach Files",
	discordgo.PermissionReadMessageHistory: "Read Message History",
	discordgo.PermissionChangeNickname:     "Change Nickname",
	discordgo.PermissionManageNicknames:    "Manage Nicknames",
}

// PermissionName returns the display name of a permission bit.
func PermissionName(p int64) string {
	if name := PermissionNames[p]; name != "" {
		return name
	}
	return fmt.Sprintf("0x%x", p)
}

// WithBotPermission fails the command unless the bot holds every listed
// permission in the origin channel.
func WithBotPermission(required ...int64) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			req, ok := command.RequestFrom(inv)
			if !ok || req.IsPrivate() || req.Platform == nil {
				return c.Run(ctx, inv)
			}

			perms, err := req.Platform.Permissions(req.Platform.Self().ID, req.ChannelID)
			if err != nil {
				return fmt.Errorf("get bot permissions: %w", err)
			}

			var missing []string
			for _, p := range required {
				if !platform.HasPermission(perms, p) {
					missing = append(missing, PermissionName(p))
				}
			}
			if len(missing) > 0 {
				return command.NewPermissionsError(
					fmt.Sprintf("I need the following permissions to do that: `%s`", strings.Join(missing, "`, `")),
					20*time.Second,
				)
			}
			return c.Run(ctx, inv)
		})
	}
}
