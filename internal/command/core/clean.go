package core

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/keshon/ainnie/internal/command"
	"github.com/keshon/ainnie/internal/platform"
	"github.com/keshon/ainnie/pkg/cmd"
)

const (
	maxCleanRange = 1000
	bulkLimit     = 100
	bulkMaxAge    = 14 * 24 * time.Hour
)

// deleteInterval spaces out single deletions to stay under the rate limit.
var deleteInterval = 210 * time.Millisecond

func registerClean(reg *cmd.Registry, mws ...cmd.Middleware) {
	command.Register(reg, command.Definition{
		Name:        "clean",
		Description: "Removes messages the bot has posted",
		Usage: `
			Usage:
				{command_prefix}clean [range]

			Removes up to [range] messages the bot has posted in chat. Default: 50, Max: 1000
		`,
		Params:  []cmd.Param{cmd.Optional("range", "50")},
		Handler: runClean,
	}, mws...)
}

type cleaner struct {
	client    platform.Client
	prefix    string
	selfID    string
	authorID  string
	deleteAll bool
}

// isCommandInvoke reports whether content looks like a command for prefix.
func isCommandInvoke(content, prefix string) bool {
	if !strings.HasPrefix(content, prefix) {
		return false
	}
	rest := content[len(prefix):]
	return rest != "" && !strings.ContainsAny(rest[:1], " \t\n")
}

func (c *cleaner) matches(m *discordgo.Message) bool {
	if m.Author == nil {
		return false
	}
	if isCommandInvoke(m.Content, c.prefix) {
		return c.deleteAll || m.Author.ID == c.authorID
	}
	return m.Author.ID == c.selfID
}

func runClean(ctx context.Context, req *command.Request) (*command.Reply, error) {
	searchRange, err := strconv.Atoi(req.Arg("range"))
	if err != nil || searchRange < 1 {
		return &command.Reply{
			Content:     "enter a number.  NUMBER.  That means digits.  `15`.  Etc.",
			Mention:     true,
			DeleteAfter: 8 * time.Second,
		}, nil
	}
	searchRange = min(searchRange, maxCleanRange)

	client := req.Platform
	_ = platform.SafeDelete(client, req.ChannelID, req.MessageID)

	authorPerms, _ := client.Permissions(req.AuthorID, req.ChannelID)
	c := &cleaner{
		client:    client,
		prefix:    req.Prefix,
		selfID:    client.Self().ID,
		authorID:  req.AuthorID,
		deleteAll: req.IsOwner() || platform.HasPermission(authorPerms, discordgo.PermissionManageMessages),
	}

	history, err := c.history(req.ChannelID, req.MessageID, searchRange)
	if err != nil {
		return nil, command.NewCommandError("Unable to read the channel history: "+err.Error(), 20*time.Second)
	}

	var deleted int
	botPerms, _ := client.Permissions(c.selfID, req.ChannelID)
	if client.Self().Bot && platform.HasPermission(botPerms, discordgo.PermissionManageMessages) {
		deleted = c.bulk(req.ChannelID, history)
	} else {
		deleted = c.oneByOne(ctx, req.ChannelID, history)
	}

	noun := "messages"
	if deleted == 1 {
		noun = "message"
	}
	return command.Say(fmt.Sprintf("Cleaned up %d %s.", deleted, noun), 15*time.Second), nil
}

// history returns up to limit messages posted before beforeID, newest first.
func (c *cleaner) history(channelID, beforeID string, limit int) ([]*discordgo.Message, error) {
	var out []*discordgo.Message
	for len(out) < limit {
		page, err := c.client.History(channelID, min(bulkLimit, limit-len(out)), beforeID)
		if err != nil {
			return out, err
		}
		if len(page) == 0 {
			break
		}
		out = append(out, page...)
		beforeID = page[len(page)-1].ID
	}
	return out, nil
}

func (c *cleaner) bulk(channelID string, history []*discordgo.Message) int {
	cutoff := time.Now().Add(-bulkMaxAge)

	var ids []string
	for _, m := range history {
		if c.matches(m) && (m.Timestamp.IsZero() || m.Timestamp.After(cutoff)) {
			ids = append(ids, m.ID)
		}
	}

	deleted := 0
	for start := 0; start < len(ids); start += bulkLimit {
		chunk := ids[start:min(start+bulkLimit, len(ids))]

		var err error
		if len(chunk) == 1 {
			err = platform.SafeDelete(c.client, channelID, chunk[0])
		} else {
			err = c.client.BulkDelete(channelID, chunk)
		}
		if err != nil {
			log.Warn().Err(err).Str("channel", channelID).Msg("Bulk delete failed")
			break
		}
		deleted += len(chunk)
	}
	return deleted
}

func (c *cleaner) oneByOne(ctx context.Context, channelID string, history []*discordgo.Message) int {
	deleted := 0
	deleteInvokes := true

	for _, m := range history {
		if m.Author == nil {
			continue
		}

		if m.Author.ID == c.selfID {
			if err := platform.SafeDelete(c.client, channelID, m.ID); err == nil {
				deleted++
			}
			if !sleep(ctx, deleteInterval) {
				break
			}
			continue
		}

		if deleteInvokes && isCommandInvoke(m.Content, c.prefix) && (c.deleteAll || m.Author.ID == c.authorID) {
			err := c.client.DeleteMessage(channelID, m.ID)
			switch {
			case err == nil:
				deleted++
			case platform.IsForbidden(err):
				deleteInvokes = false
			}
			if !sleep(ctx, deleteInterval) {
				break
			}
		}
	}
	return deleted
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
