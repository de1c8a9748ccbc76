package core

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/keshon/ainnie/internal/command"
	"github.com/keshon/ainnie/internal/platform"
	"github.com/keshon/ainnie/pkg/cmd"
)

const maxTimer = 7 * 24 * time.Hour

func registerTimer(reg *cmd.Registry, mws ...cmd.Middleware) {
	command.Register(reg, command.Definition{
		Name:        "timer",
		Description: "Sets a timer",
		Usage: `
			Usage:
				{command_prefix}timer [seconds] [reminder]

			Sets a timer for a user with the option of setting a reminder text.
		`,
		Params:  []cmd.Param{cmd.Required("seconds")},
		Handler: runTimer,
	}, mws...)
}

func runTimer(ctx context.Context, req *command.Request) (*command.Reply, error) {
	seconds, err := strconv.Atoi(req.Arg("seconds"))
	if err != nil || seconds < 0 || seconds > int(maxTimer/time.Second) {
		return command.Say(fmt.Sprintf(
			"That's not what I expected. The format is `%stimer [seconds] [optional reminder message].`", req.Prefix),
			20*time.Second), nil
	}

	reminder := strings.Join(req.Leftover, " ")
	expired := fmt.Sprintf("<@%s>, your timer for %d seconds has expired!", req.AuthorID, seconds)
	confirm := fmt.Sprintf("you have set a timer for %d seconds!", seconds)
	if reminder != "" {
		expired += fmt.Sprintf(" I was instructed to remind you about `%s`!", reminder)
		confirm = fmt.Sprintf("I will remind you about `%s` in %d seconds!", reminder, seconds)
	}

	client, channelID := req.Platform, req.ChannelID
	_, err = req.Scheduler.After("timer:"+channelID+":"+req.MessageID, time.Duration(seconds)*time.Second, func(ctx context.Context) error {
		_, err := platform.SafeSend(client, channelID, expired)
		return err
	})
	if err != nil {
		return nil, command.NewCommandError("I can't set timers right now.", 20*time.Second)
	}

	return &command.Reply{Content: confirm, Mention: true}, nil
}
