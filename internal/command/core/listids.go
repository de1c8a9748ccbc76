package core

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/ainnie/internal/command"
	"github.com/keshon/ainnie/internal/platform"
	"github.com/keshon/ainnie/pkg/cmd"
	"github.com/keshon/ainnie/pkg/util"
)

var idCategories = []string{"channels", "roles", "users"}

func registerListIDs(reg *cmd.Registry, mws ...cmd.Middleware) {
	command.Register(reg, command.Definition{
		Name:        "listids",
		Description: "Lists the ids for various things",
		Usage: `
			Usage:
				{command_prefix}listids [categories]

			Lists the ids for various things.  Categories are:
			   all, users, roles, channels
		`,
		Params:  []cmd.Param{cmd.Optional("cat", "all")},
		Needs:   command.NeedGuild | command.NeedAuthor,
		Handler: runListIDs,
	}, mws...)
}

func wantedCategories(req *command.Request) ([]string, bool) {
	raw := strings.ToLower(req.Rest("cat"))
	raw = strings.NewReplacer(",", " ").Replace(raw)
	fields := strings.Fields(raw)
	if len(fields) == 0 || (len(fields) == 1 && fields[0] == "all") {
		return idCategories, true
	}

	wanted := map[string]bool{}
	for _, f := range fields {
		valid := false
		for _, c := range idCategories {
			if f == c {
				valid = true
			}
		}
		if !valid {
			return nil, false
		}
		wanted[f] = true
	}

	var out []string
	for _, c := range idCategories {
		if wanted[c] {
			out = append(out, c)
		}
	}
	return out, true
}

func runListIDs(ctx context.Context, req *command.Request) (*command.Reply, error) {
	if req.Guild == nil {
		return nil, command.NewCommandError("This command only works in a server.", 20*time.Second)
	}

	cats, ok := wantedCategories(req)
	if !ok {
		return &command.Reply{
			Content:     "Valid categories: `channels` `roles` `users`",
			Mention:     true,
			DeleteAfter: 25 * time.Second,
		}, nil
	}

	client := req.Platform
	var (
		mu       sync.Mutex
		sections = map[string][]string{}
	)
	err := util.Parallel(ctx, cats, len(cats), func(ctx context.Context, cat string) error {
		section, err := listCategory(client, req.GuildID, cat)
		if err != nil {
			return err
		}
		mu.Lock()
		sections[cat] = section
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, command.NewCommandError("Unable to list ids: "+err.Error(), 20*time.Second)
	}

	lines := []string{fmt.Sprintf("Your ID: %s", req.AuthorID)}
	for _, cat := range cats {
		lines = append(lines, sections[cat]...)
	}

	dm, err := client.DMChannel(req.AuthorID)
	if err != nil {
		return nil, command.NewCommandError("I can't message you privately.", 20*time.Second)
	}
	name := fmt.Sprintf("%s-ids-%s.txt", strings.ReplaceAll(req.Guild.Name, " ", "_"), strings.Join(cats, "-"))
	body := bytes.NewBufferString(strings.Join(lines, "\n"))
	if _, err := client.SendFile(dm.ID, name, body); err != nil {
		return nil, command.NewCommandError("I can't message you privately.", 20*time.Second)
	}

	return command.Say(":mailbox_with_mail:", 20*time.Second), nil
}

func listCategory(client platform.Client, guildID, cat string) ([]string, error) {
	var lines []string
	switch cat {
	case "users":
		members, err := client.Members(guildID)
		if err != nil {
			return nil, fmt.Errorf("members: %w", err)
		}
		lines = append(lines, "\nUser IDs:")
		for _, m := range members {
			if m.User != nil {
				lines = append(lines, fmt.Sprintf("%s: %s", m.User.Username, m.User.ID))
			}
		}
	case "roles":
		roles, err := client.Roles(guildID)
		if err != nil {
			return nil, fmt.Errorf("roles: %w", err)
		}
		lines = append(lines, "\nRole IDs:")
		for _, r := range roles {
			lines = append(lines, fmt.Sprintf("%s: %s", r.Name, r.ID))
		}
	case "channels":
		channels, err := client.Channels(guildID)
		if err != nil {
			return nil, fmt.Errorf("channels: %w", err)
		}
		lines = append(lines, "\nText Channel IDs:")
		for _, ch := range channels {
			if ch.Type == discordgo.ChannelTypeGuildText {
				lines = append(lines, fmt.Sprintf("%s: %s", ch.Name, ch.ID))
			}
		}
	}
	return lines, nil
}
