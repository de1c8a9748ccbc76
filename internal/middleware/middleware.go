// Package middleware holds cmd.Middleware shared by prefix commands.
package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/keshon/ainnie/internal/command"
	"github.com/keshon/ainnie/internal/storage"
	"github.com/keshon/ainnie/pkg/cmd"
)

// WithOwnerOnly rejects everyone but the configured owner.
func WithOwnerOnly() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			req, ok := command.RequestFrom(inv)
			if !ok || !req.IsOwner() {
				return command.NewPermissionsError("Only the owner can use this command", 30*time.Second)
			}
			return c.Run(ctx, inv)
		})
	}
}

// WithCommandLogger records every successful guild invocation in the
// command history.
func WithCommandLogger(st *storage.Storage) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			err := c.Run(ctx, inv)
			if err != nil || st == nil {
				return err
			}

			req, ok := command.RequestFrom(inv)
			if !ok || req.IsPrivate() {
				return nil
			}

			rec := storage.CommandHistoryRecord{
				GuildID:   req.GuildID,
				ChannelID: req.ChannelID,
				UserID:    req.AuthorID,
				Username:  req.AuthorName,
				Command:   c.Name(),
				Param:     strings.Join(inv.Args, " "),
				Datetime:  time.Now(),
			}
			if rec.Username == "" && req.Author != nil {
				rec.Username = req.Author.Username
			}
			if e := st.AppendCommandToHistory(req.GuildID, rec); e != nil {
				log.Warn().Err(e).Str("command", c.Name()).Msg("Failed to log command")
			}
			return nil
		})
	}
}
