package fun

import (
	"context"

	"github.com/keshon/ainnie/internal/command"
	"github.com/keshon/ainnie/pkg/cmd"
)

var eightBallAnswers = []string{
	"It is certain",
	"It is decidedly so",
	"Without a doubt!",
	"Yes, definitely!!",
	"You can count on it!",
	"As I see it yes",
	"Most likely",
	"Outlook good",
	"Yes",
	"Signs point to yes",
	"Reply hazy try again",
	"Ask again later",
	"I don't want to tell you now",
	"I can't predict now",
	"Concentrate and ask again",
	"Don't count on it",
	"My reply is no",
	"My sources say no",
	"Outlook not so good",
	"Very doubtful",
}

var tsundereLines = []string{
	"H-hmph!",
	"Don't misunderstand, it's not like I like you or anything...",
	"Are you stupid!?",
	"I'm just here because I had nothing else to do!",
	"T-Tch! S-Shut up!",
	"N-No, it's not like I did it for you! I did it because I had freetime, that's all!",
	"...T-Thanks...",
	"Can you be any more clueless!?!",
	"Hey! It's a privilege to even be able to talk to me! You should be honored!",
}

var kiyuImages = []string{
	"http://i.imgur.com/BKXcEwg.jpg",
	"http://i.imgur.com/JHqiFfB.png",
	"http://i.imgur.com/3LjvnPo.png",
	"http://i.imgur.com/Z92nQ9c.jpg",
	"http://i.imgur.com/4sZUiXB.jpg",
	"http://i.imgur.com/zAIGrpT.jpg",
	"http://i.imgur.com/3BPIzGH.jpg",
	"http://i.imgur.com/TquSU8v.jpg",
	"http://i.imgur.com/YdPGfmS.jpg",
}

var honkImages = []string{
	"http://i.imgur.com/RCQzkty.jpg",
	"http://i.imgur.com/6aNrpHm.jpg",
	"http://i.imgur.com/8mxN6cf.png",
	"http://i.imgur.com/OaQGQQR.jpg",
	"http://i.imgur.com/bq6HUX4.gif",
	"http://i.imgur.com/t6EJLkl.png",
	"http://i.imgur.com/hYo1tN9.jpg",
	"http://i.imgur.com/ReHutTA.jpg",
	"http://i.imgur.com/jW1oo2Y.png",
	"http://i.imgur.com/rWJYJWI.jpg",
	"http://i.imgur.com/kcAhZYE.png",
	"http://i.imgur.com/Yi5WEYO.jpg",
}

// fromTable answers with prefix followed by a random entry of list.
func fromTable(prefix string, list []string) command.Handler {
	return func(ctx context.Context, req *command.Request) (*command.Reply, error) {
		return command.Say(prefix+pick(list), replyExpire), nil
	}
}

func registerTables(reg *cmd.Registry, mws ...cmd.Middleware) {
	command.Register(reg, command.Definition{
		Name:        "8ball",
		Description: "Ask Ainnie a yes or no question",
		Usage: `
			Usage:
				{command_prefix}8ball

			Ask Ainnie a yes or no question
		`,
		Handler: fromTable("", eightBallAnswers),
	}, mws...)

	command.Register(reg, command.Definition{
		Name:        "dot",
		Description: "Makes Ainnie send a dot",
		Usage: `
			Usage:
				{command_prefix}dot

			Makes Ainnie send a dot
		`,
		Handler: func(ctx context.Context, req *command.Request) (*command.Reply, error) {
			return command.Say(".", replyExpire), nil
		},
	}, mws...)

	command.Register(reg, command.Definition{
		Name:        "tsun",
		Description: "Makes Ainnie be tsundere",
		Usage: `
			Usage:
				{command_prefix}tsun

			Makes Ainnie be tsundere
		`,
		Handler: fromTable("", tsundereLines),
	}, mws...)

	command.Register(reg, command.Definition{
		Name:        "kiyu",
		Description: "Kiyu pictures!",
		Usage: `
			Usage:
				{command_prefix}kiyu

			Kiyu pictures!
		`,
		Handler: fromTable("I'm not Kiyukii-Bot\n", kiyuImages),
	}, mws...)

	command.Register(reg, command.Definition{
		Name:        "honk",
		Description: "Makes Ainnie honk",
		Usage: `
			Usage:
				{command_prefix}honk

			Makes Ainnie send a honk
		`,
		Handler: fromTable("Honk honk!\n", honkImages),
	}, mws...)
}
