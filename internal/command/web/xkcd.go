package web

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strconv"

	"github.com/keshon/ainnie/internal/command"
	"github.com/keshon/ainnie/pkg/cmd"
)

// Comic is the subset of the xkcd JSON interface the command uses.
type Comic struct {
	Num       int    `json:"num"`
	SafeTitle string `json:"safe_title"`
	Title     string `json:"title"`
	Img       string `json:"img"`
	Alt       string `json:"alt"`
}

func (f *fetcher) comic(ctx context.Context, num int) (*Comic, error) {
	u := f.src.XKCD + "/info.0.json"
	if num > 0 {
		u = fmt.Sprintf("%s/%d/info.0.json", f.src.XKCD, num)
	}

	body, err := f.client.Get(ctx, u)
	if err != nil {
		return nil, err
	}
	var c Comic
	if err := json.Unmarshal(body, &c); err != nil {
		return nil, fmt.Errorf("decode comic: %w", err)
	}
	return &c, nil
}

func (f *fetcher) registerXKCD(reg *cmd.Registry, mws ...cmd.Middleware) {
	command.Register(reg, command.Definition{
		Name:        "xkcd",
		Description: "Queries an XKCD comic",
		Usage: `
			Usage:
				{command_prefix}xkcd

			Queries a random XKCD comic.
			Do {command_prefix}xkcd <number> to pick a specific comic.
		`,
		Params: []cmd.Param{cmd.Optional("number", "")},
		Handler: func(ctx context.Context, req *command.Request) (*command.Reply, error) {
			latest, err := f.comic(ctx, 0)
			if err == nil && latest.Num < 1 {
				err = fmt.Errorf("latest comic has number %d", latest.Num)
			}
			if err != nil {
				return nil, command.NewExtractionError("I couldn't reach xkcd.", err, replyExpire)
			}

			num := rand.Intn(latest.Num) + 1
			if arg := req.Arg("number"); arg != "" {
				n, err := strconv.Atoi(arg)
				if err != nil {
					return command.Say("You have to put a number!", replyExpire), nil
				}
				if n < 1 || n > latest.Num {
					return command.Say(fmt.Sprintf("It has to be between 1 and %d!", latest.Num), replyExpire), nil
				}
				num = n
			}

			c := latest
			if num != latest.Num {
				if c, err = f.comic(ctx, num); err != nil {
					return nil, command.NewExtractionError(fmt.Sprintf("I couldn't get comic %d.", num), err, replyExpire)
				}
			}

			title := c.SafeTitle
			if title == "" {
				title = c.Title
			}
			return command.Say(fmt.Sprintf(":mag:**%s**\n%s\n%s", title, c.Img, c.Alt), replyExpire), nil
		},
	}, mws...)
}
