// Package command defines what a prefix command is: its definition, the
// request it receives, the reply it returns and the errors it may raise.
package command

import (
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/ainnie/internal/permissions"
	"github.com/keshon/ainnie/internal/platform"
	"github.com/keshon/ainnie/pkg/cmd"
	"github.com/keshon/ainnie/pkg/jobmgr"
)

// Need is a request field a command asks the router to fill.
type Need uint

const (
	NeedMessage Need = 1 << iota
	NeedChannel
	NeedAuthor
	NeedGuild
	NeedState
	NeedPermissions
	NeedUserMentions
	NeedChannelMentions
)

// Has reports whether n includes every bit of other.
func (n Need) Has(other Need) bool {
	return n&other == other
}

// GuildState is what the router tracks per guild. Handlers only ever see a
// copy.
type GuildState struct {
	Handled      int
	LastCommand  string
	LastAuthorID string
	LastAt       time.Time
}

// Request is the context of one command invocation. Identifiers, arguments
// and services are always set; the other fields only when the definition
// declares the matching Need.
type Request struct {
	GuildID    string // empty in private messages
	ChannelID  string
	AuthorID   string
	AuthorName string
	MessageID  string

	Prefix   string
	Keyword  string
	Args     map[string]string
	Leftover []string

	Message         *discordgo.Message
	Channel         *discordgo.Channel
	Author          *discordgo.User
	Guild           *discordgo.Guild
	State           GuildState
	Permissions     *permissions.Group
	UserMentions    []*discordgo.Member
	ChannelMentions []*discordgo.Channel

	OwnerID   string
	Platform  platform.Client
	Scheduler *jobmgr.Manager
	Registry  *cmd.Registry

	// Result is the reply produced by the handler.
	Result *Reply
}

// Arg returns the bound value of a positional parameter.
func (r *Request) Arg(name string) string {
	return r.Args[name]
}

// Rest joins the named argument and the leftover tokens with spaces.
func (r *Request) Rest(name string) string {
	parts := make([]string, 0, len(r.Leftover)+1)
	if v := r.Args[name]; v != "" {
		parts = append(parts, v)
	}
	parts = append(parts, r.Leftover...)
	return strings.Join(parts, " ")
}

// IsOwner reports whether the author is the configured owner.
func (r *Request) IsOwner() bool {
	return r.OwnerID != "" && r.AuthorID == r.OwnerID
}

// IsPrivate reports whether the command was sent in a private message.
func (r *Request) IsPrivate() bool {
	return r.GuildID == ""
}

// Reply is what a handler wants sent back to the origin channel.
type Reply struct {
	Content     string
	Mention     bool
	DeleteAfter time.Duration // 0 keeps the message
}

// Render formats the reply for the given author.
func (r *Reply) Render(authorID string) string {
	if r.Mention {
		return "<@" + authorID + ">, " + r.Content
	}
	return r.Content
}

// Say is a reply that deletes itself after the given delay.
func Say(content string, deleteAfter time.Duration) *Reply {
	return &Reply{Content: content, DeleteAfter: deleteAfter}
}
