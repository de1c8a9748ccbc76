package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/keshon/ainnie/internal/command"
	"github.com/keshon/ainnie/internal/storage"
	"github.com/keshon/ainnie/pkg/cmd"
	"github.com/keshon/ainnie/pkg/util"
)

// statsHistory is how many recent commands stats lists.
const statsHistory = 5

func registerStats(reg *cmd.Registry, st *storage.Storage, mws ...cmd.Middleware) {
	command.Register(reg, command.Definition{
		Name:        "stats",
		Description: "Shows what Ainnie has been up to in this server",
		Usage: `
			Usage:
				{command_prefix}stats

			Shows command counters, recent commands and pending reminders.
		`,
		Needs: command.NeedState,
		Handler: func(ctx context.Context, req *command.Request) (*command.Reply, error) {
			return runStats(req, st), nil
		},
	}, mws...)
}

func runStats(req *command.Request, st *storage.Storage) *command.Reply {
	var b strings.Builder
	b.WriteString("```\n")

	s := req.State
	fmt.Fprintf(&b, "Commands this session: %d\n", s.Handled)
	if s.LastCommand != "" {
		fmt.Fprintf(&b, "Last command: %s%s (%s ago)\n", req.Prefix, s.LastCommand, time.Since(s.LastAt).Round(time.Second))
	}

	if st != nil && req.GuildID != "" {
		if total, err := st.CommandsTotal(req.GuildID); err == nil {
			fmt.Fprintf(&b, "Commands all time: %d\n", total)
		} else {
			log.Warn().Err(err).Str("guild", req.GuildID).Msg("Failed to read command total")
		}

		history, err := st.FetchCommandHistory(req.GuildID)
		if err != nil {
			log.Warn().Err(err).Str("guild", req.GuildID).Msg("Failed to read command history")
		}
		if len(history) > 0 {
			b.WriteString("\nRecent:\n")
			start := max(0, len(history)-statsHistory)
			for _, h := range history[start:] {
				line := req.Prefix + h.Command
				if h.Param != "" {
					line += " " + h.Param
				}
				fmt.Fprintf(&b, "  %s by %s at %s\n", line, h.Username, util.FormatDate(h.Datetime.UTC(), "YYYY-MM-DD hh:mm"))
			}
		}
	}

	if req.Scheduler != nil {
		fmt.Fprintf(&b, "\nPending jobs: %d\n", len(req.Scheduler.List()))
	}

	b.WriteString("```")
	return command.Say(b.String(), 30*time.Second)
}
