// Package router turns inbound chat messages into command invocations.
package router

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/keshon/ainnie/internal/command"
	"github.com/keshon/ainnie/internal/config"
	"github.com/keshon/ainnie/internal/permissions"
	"github.com/keshon/ainnie/internal/platform"
	"github.com/keshon/ainnie/pkg/cmd"
	"github.com/keshon/ainnie/pkg/jobmgr"
)

const (
	usageExpire          = 60 * time.Second
	permissionDenyExpire = 20 * time.Second
)

var channelMention = regexp.MustCompile(`<#(\d+)>`)

// Responder answers messages that mention the bot outside of a command.
type Responder interface {
	Respond(ctx context.Context, key, author, text string) (string, error)
}

// Router dispatches messages to registered commands. It is safe for
// concurrent use.
type Router struct {
	cfg    *config.Config
	reg    *cmd.Registry
	client platform.Client
	perms  *permissions.Permissions
	jobs   *jobmgr.Manager
	chat   Responder

	mu     sync.Mutex
	guilds map[string]*command.GuildState
}

// New creates a Router. chat may be nil to disable the mention path.
func New(cfg *config.Config, reg *cmd.Registry, client platform.Client, perms *permissions.Permissions, jobs *jobmgr.Manager, chat Responder) *Router {
	return &Router{
		cfg:    cfg,
		reg:    reg,
		client: client,
		perms:  perms,
		jobs:   jobs,
		chat:   chat,
		guilds: make(map[string]*command.GuildState),
	}
}

// Dispatch handles one inbound message. It only returns an error for a
// command.Signal raised by a command.
func (r *Router) Dispatch(ctx context.Context, m *discordgo.Message) error {
	if m == nil || m.Author == nil {
		return nil
	}

	content := strings.TrimSpace(m.Content)
	prefix := r.cfg.CommandPrefix
	isCommand := strings.HasPrefix(content, prefix)

	if m.Author.ID == r.client.Self().ID {
		if isCommand {
			log.Info().Str("content", content).Msg("Ignoring command from myself")
		}
		return nil
	}
	if m.Author.Bot {
		return nil
	}

	if !isCommand {
		r.handleChat(ctx, m, content)
		return nil
	}

	private := m.GuildID == ""
	if !private && !r.cfg.IsBound(m.ChannelID) {
		return nil
	}

	fields := strings.Fields(content)
	keyword := strings.ToLower(strings.TrimPrefix(fields[0], prefix))
	args := fields[1:]
	if keyword == "" {
		return nil
	}

	c := r.reg.Get(keyword)
	def, ok := command.Lookup(c)
	if !ok {
		return nil
	}

	isOwner := m.Author.ID == r.cfg.OwnerID
	if private && !(isOwner && def.AllowDM) {
		r.send(m, "You cannot use this bot in private messages.", 0, false)
		return nil
	}

	log.Info().
		Str("user_id", m.Author.ID).
		Str("user", m.Author.Username).
		Str("guild", m.GuildID).
		Str("content", content).
		Msg("[Command]")

	err := r.run(ctx, m, c, def, keyword, args, isOwner)
	if err == nil {
		return nil
	}

	var sig command.Signal
	if errors.As(err, &sig) {
		return sig
	}

	var ue command.UserError
	if errors.As(err, &ue) {
		log.Warn().Err(err).Str("command", keyword).Msg("Command failed")
		r.send(m, codeBlock(ue.UserMessage()), ue.ExpireIn(), true)
		return nil
	}

	ev := log.Error().Err(err).Str("command", keyword)
	detail := err.Error()
	var pe *panicError
	if errors.As(err, &pe) {
		ev = ev.Str("stack", pe.stack)
		detail += "\n" + pe.stack
	}
	ev.Msg("Command crashed")
	if r.cfg.DebugMode {
		r.send(m, fitCodeBlock(detail), 0, false)
	}
	return nil
}

func (r *Router) run(ctx context.Context, m *discordgo.Message, c cmd.Command, def *command.Definition, keyword string, args []string, isOwner bool) error {
	binding := cmd.Bind(def.Params, args)

	group := r.permissionsFor(m)
	if !isOwner {
		if !group.Whitelisted(keyword) {
			return command.NewPermissionsError(
				fmt.Sprintf("This command is not enabled for your group (%s).", group.Name), permissionDenyExpire)
		}
		if group.Blacklisted(keyword) {
			return command.NewPermissionsError(
				fmt.Sprintf("This command is disabled for your group (%s).", group.Name), permissionDenyExpire)
		}
	}

	if !binding.Complete() {
		r.send(m, codeBlock(def.UsageText(r.cfg.CommandPrefix)), usageExpire, false)
		return nil
	}

	req := r.buildRequest(m, def, keyword, binding, group)
	r.record(m.GuildID, keyword, m.Author.ID)

	if err := invoke(ctx, c, &cmd.Invocation{Args: args, Data: req}); err != nil {
		return err
	}

	if req.Result != nil {
		r.send(m, req.Result.Render(m.Author.ID), req.Result.DeleteAfter, true)
	}
	return nil
}

func (r *Router) buildRequest(m *discordgo.Message, def *command.Definition, keyword string, b cmd.Binding, group *permissions.Group) *command.Request {
	req := &command.Request{
		GuildID:    m.GuildID,
		ChannelID:  m.ChannelID,
		AuthorID:   m.Author.ID,
		AuthorName: m.Author.Username,
		MessageID:  m.ID,
		Prefix:     r.cfg.CommandPrefix,
		Keyword:    keyword,
		Args:       b.Values,
		Leftover:   b.Leftover,
		OwnerID:    r.cfg.OwnerID,
		Platform:   r.client,
		Scheduler:  r.jobs,
		Registry:   r.reg,
	}

	needs := def.Needs
	if needs.Has(command.NeedMessage) {
		req.Message = m
	}
	if needs.Has(command.NeedAuthor) {
		req.Author = m.Author
	}
	if needs.Has(command.NeedPermissions) {
		req.Permissions = group
	}
	if needs.Has(command.NeedChannel) {
		if ch, err := r.client.Channel(m.ChannelID); err == nil {
			req.Channel = ch
		}
	}
	if needs.Has(command.NeedGuild) && m.GuildID != "" {
		if g, err := r.client.Guild(m.GuildID); err == nil {
			req.Guild = g
		}
	}
	if needs.Has(command.NeedState) {
		req.State = r.State(m.GuildID)
	}
	if needs.Has(command.NeedUserMentions) && m.GuildID != "" {
		for _, u := range m.Mentions {
			if member, err := r.client.Member(m.GuildID, u.ID); err == nil {
				req.UserMentions = append(req.UserMentions, member)
			}
		}
	}
	if needs.Has(command.NeedChannelMentions) && m.GuildID != "" {
		for _, match := range channelMention.FindAllStringSubmatch(m.Content, -1) {
			if ch, err := r.client.Channel(match[1]); err == nil {
				req.ChannelMentions = append(req.ChannelMentions, ch)
			}
		}
	}
	return req
}

func (r *Router) permissionsFor(m *discordgo.Message) *permissions.Group {
	var roles []string
	switch {
	case m.Member != nil:
		roles = m.Member.Roles
	case m.GuildID != "":
		if member, err := r.client.Member(m.GuildID, m.Author.ID); err == nil {
			roles = member.Roles
		}
	}
	return r.perms.ForUser(m.Author.ID, roles)
}

// State returns a copy of the state tracked for a guild.
func (r *Router) State(guildID string) command.GuildState {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.guilds[guildID]; ok {
		return *s
	}
	return command.GuildState{}
}

func (r *Router) record(guildID, keyword, authorID string) {
	if guildID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.guilds[guildID]
	if !ok {
		s = &command.GuildState{}
		r.guilds[guildID] = s
	}
	s.Handled++
	s.LastCommand = keyword
	s.LastAuthorID = authorID
	s.LastAt = time.Now()
}

// send posts content to the origin channel of m. When expire is positive and
// message deletion is enabled the sent message is removed after expire. When
// alsoDelete is set and invoking messages are cleaned up, m goes too.
func (r *Router) send(m *discordgo.Message, content string, expire time.Duration, alsoDelete bool) {
	sent, err := platform.SafeSend(r.client, m.ChannelID, content)
	if err != nil {
		log.Error().Err(err).Str("channel", m.ChannelID).Msg("Failed to send message")
		return
	}
	if !r.cfg.DeleteMessages {
		return
	}
	if sent != nil && expire > 0 {
		r.DeleteAfter(sent.ChannelID, sent.ID, expire)
	}
	if alsoDelete && r.cfg.DeleteInvoking {
		r.DeleteAfter(m.ChannelID, m.ID, expire)
	}
}

// DeleteAfter schedules the deletion of a message. Failures are logged and
// never retried.
func (r *Router) DeleteAfter(channelID, messageID string, delay time.Duration) {
	_, err := r.jobs.After("delete:"+channelID+":"+messageID, delay, func(ctx context.Context) error {
		return platform.SafeDelete(r.client, channelID, messageID)
	})
	if err != nil && !errors.Is(err, jobmgr.ErrClosed) {
		log.Debug().Err(err).Str("message", messageID).Msg("Deletion not scheduled")
	}
}

type panicError struct {
	value any
	stack string
}

func (e *panicError) Error() string { return fmt.Sprintf("panic: %v", e.value) }

func invoke(ctx context.Context, c cmd.Command, inv *cmd.Invocation) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &panicError{value: p, stack: string(debug.Stack())}
		}
	}()
	return c.Run(ctx, inv)
}

func codeBlock(s string) string {
	return "```\n" + s + "\n```"
}

// fitCodeBlock trims s so the fenced block stays within one message.
func fitCodeBlock(s string) string {
	room := platform.MessageLimit - len(codeBlock(""))
	if r := []rune(s); len(r) > room {
		s = string(r[:room])
	}
	return codeBlock(s)
}
