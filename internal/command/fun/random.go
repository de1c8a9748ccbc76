package fun

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/keshon/ainnie/internal/command"
	"github.com/keshon/ainnie/pkg/cmd"
)

const (
	defaultSides = 6
	maxSides     = 1000
)

// Roll rolls a die described by arg. Anything that is not a number of at
// least one side falls back to a six-sided die; more than maxSides is capped.
// The returned notice explains a correction and is empty otherwise.
func Roll(arg string) (result int, notice string) {
	sides, err := strconv.Atoi(strings.TrimSpace(arg))
	switch {
	case err != nil || sides < 1:
		return intn(defaultSides) + 1, fmt.Sprintf("I don't know what you wanted to roll. I rolled a %d-sided die instead\n", defaultSides)
	case sides > maxSides:
		return intn(maxSides) + 1, fmt.Sprintf("Too many sides. I rolled a %d-sided die instead\n", maxSides)
	default:
		return intn(sides) + 1, ""
	}
}

// splitChoices splits text on ';' and drops empty options.
func splitChoices(text string) []string {
	var out []string
	for _, c := range strings.Split(text, ";") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func registerRandom(reg *cmd.Registry, mws ...cmd.Middleware) {
	command.Register(reg, command.Definition{
		Name:        "roll",
		Description: "Roll a die",
		Usage: `
			Usage:
				{command_prefix}roll #

			Makes Ainnie roll a #-sided die (defaults to 6 if no number given)
		`,
		Params: []cmd.Param{cmd.Optional("sides", strconv.Itoa(defaultSides))},
		Handler: func(ctx context.Context, req *command.Request) (*command.Reply, error) {
			// "roll 3 4" is malformed, not a 3-sided roll.
			result, notice := Roll(req.Rest("sides"))
			return command.Say(fmt.Sprintf("%sI rolled a **%d**", notice, result), replyExpire), nil
		},
	}, mws...)

	command.Register(reg, command.Definition{
		Name:        "coinflip",
		Description: "Flip a coin",
		Usage: `
			Usage:
				{command_prefix}coinflip

			Makes Ainnie flip a coin
		`,
		Handler: func(ctx context.Context, req *command.Request) (*command.Reply, error) {
			return command.Say(fmt.Sprintf("I flipped a **%s**", pick([]string{"heads", "tails"})), replyExpire), nil
		},
	}, mws...)

	command.Register(reg, command.Definition{
		Name:        "choice",
		Description: "Choose one of several options",
		Usage: `
			Usage:
				{command_prefix}choice choice1;choice2;choice3

			Makes Ainnie choose one of the choices
		`,
		Params: []cmd.Param{cmd.Required("choices")},
		Handler: func(ctx context.Context, req *command.Request) (*command.Reply, error) {
			choices := splitChoices(req.Rest("choices"))
			if len(choices) == 0 {
				return command.Say("I don't see any choices to make", replyExpire), nil
			}
			return command.Say(fmt.Sprintf("I choose **%s**", pick(choices)), replyExpire), nil
		},
	}, mws...)
}
