package platform

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/bwmarrin/discordgo"
)

// Discord implements Client on a discordgo session, preferring the state
// cache for lookups.
type Discord struct {
	s *discordgo.Session
}

func NewDiscord(s *discordgo.Session) *Discord {
	return &Discord{s: s}
}

func (d *Discord) Session() *discordgo.Session { return d.s }

func (d *Discord) Self() *discordgo.User {
	if d.s.State != nil && d.s.State.User != nil {
		return d.s.State.User
	}
	return &discordgo.User{}
}

func (d *Discord) SendMessage(channelID, content string) (*discordgo.Message, error) {
	return d.s.ChannelMessageSend(channelID, content)
}

func (d *Discord) EditMessage(channelID, messageID, content string) (*discordgo.Message, error) {
	return d.s.ChannelMessageEdit(channelID, messageID, content)
}

func (d *Discord) DeleteMessage(channelID, messageID string) error {
	return d.s.ChannelMessageDelete(channelID, messageID)
}

func (d *Discord) BulkDelete(channelID string, messageIDs []string) error {
	return d.s.ChannelMessagesBulkDelete(channelID, messageIDs)
}

// History returns up to limit messages before beforeID, newest first. The
// platform caps a single page at 100.
func (d *Discord) History(channelID string, limit int, beforeID string) ([]*discordgo.Message, error) {
	if limit > 100 {
		limit = 100
	}
	return d.s.ChannelMessages(channelID, limit, beforeID, "", "")
}

func (d *Discord) Typing(channelID string) error {
	return d.s.ChannelTyping(channelID)
}

func (d *Discord) SendFile(channelID, name string, r io.Reader) (*discordgo.Message, error) {
	return d.s.ChannelFileSend(channelID, name, r)
}

func (d *Discord) DMChannel(userID string) (*discordgo.Channel, error) {
	return d.s.UserChannelCreate(userID)
}

func (d *Discord) Channel(channelID string) (*discordgo.Channel, error) {
	if ch, err := d.s.State.Channel(channelID); err == nil {
		return ch, nil
	}
	return d.s.Channel(channelID)
}

func (d *Discord) Guild(guildID string) (*discordgo.Guild, error) {
	if g, err := d.s.State.Guild(guildID); err == nil {
		return g, nil
	}
	return d.s.Guild(guildID)
}

func (d *Discord) Member(guildID, userID string) (*discordgo.Member, error) {
	if m, err := d.s.State.Member(guildID, userID); err == nil {
		return m, nil
	}
	return d.s.GuildMember(guildID, userID)
}

func (d *Discord) Roles(guildID string) ([]*discordgo.Role, error) {
	return d.s.GuildRoles(guildID)
}

func (d *Discord) Channels(guildID string) ([]*discordgo.Channel, error) {
	return d.s.GuildChannels(guildID)
}

// Members pages through the whole member list.
func (d *Discord) Members(guildID string) ([]*discordgo.Member, error) {
	var (
		all   []*discordgo.Member
		after string
	)
	for {
		page, err := d.s.GuildMembers(guildID, after, 1000)
		if err != nil {
			return all, err
		}
		all = append(all, page...)
		if len(page) < 1000 {
			return all, nil
		}
		after = page[len(page)-1].User.ID
	}
}

func (d *Discord) Permissions(userID, channelID string) (int64, error) {
	return d.s.UserChannelPermissions(userID, channelID)
}

func (d *Discord) SetGame(name string) error {
	return d.s.UpdateGameStatus(0, name)
}

func (d *Discord) SetNickname(guildID, nick string) error {
	return d.s.GuildMemberNickname(guildID, "@me", nick)
}

type profileUpdate struct {
	Username string `json:"username,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

// UpdateProfile changes the bot's username and/or avatar (a data URI).
// Empty values are left unchanged.
func (d *Discord) UpdateProfile(username, avatar string) (*discordgo.User, error) {
	body, err := d.s.RequestWithBucketID("PATCH", discordgo.EndpointUser("@me"),
		profileUpdate{Username: username, Avatar: avatar}, discordgo.EndpointUsers)
	if err != nil {
		return nil, err
	}

	var u discordgo.User
	if err := json.Unmarshal(body, &u); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if d.s.State != nil && d.s.State.User != nil {
		d.s.State.User.Username = u.Username
		d.s.State.User.Avatar = u.Avatar
	}
	return &u, nil
}
