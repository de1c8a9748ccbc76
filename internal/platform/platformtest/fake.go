// Package platformtest provides an in-memory platform.Client for tests.
package platformtest

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/ainnie/internal/platform"
)

// Sent is a message or file sent through the fake.
type Sent struct {
	ChannelID string
	Content   string
	File      string
	FileBody  string
}

// Fake records every call. Set the exported fields to shape its behaviour
// before use.
type Fake struct {
	mu sync.Mutex
	id int

	User         *discordgo.User
	ChannelsByID map[string]*discordgo.Channel
	GuildsByID   map[string]*discordgo.Guild
	MembersByID  map[string]*discordgo.Member // key guildID/userID
	RolesList    []*discordgo.Role
	Perms        map[string]int64                // key userID/channelID
	Messages     map[string][]*discordgo.Message // channel history, newest first

	SendErr   error
	DeleteErr error

	Sent     []Sent
	Edited   []Sent
	Deleted  []string // channelID/messageID
	Bulk     [][]string
	Typed    []string
	Game     string
	Nick     string
	Profile  []string
	DMOpened []string
}

// New returns a fake whose own user has the given ID.
func New(selfID string) *Fake {
	return &Fake{
		User:         &discordgo.User{ID: selfID, Username: "bot", Bot: true},
		ChannelsByID: map[string]*discordgo.Channel{},
		GuildsByID:   map[string]*discordgo.Guild{},
		MembersByID:  map[string]*discordgo.Member{},
		Perms:        map[string]int64{},
		Messages:     map[string][]*discordgo.Message{},
	}
}

var _ platform.Client = (*Fake)(nil)

func (f *Fake) nextID() string {
	f.id++
	return fmt.Sprintf("m%d", f.id)
}

func (f *Fake) Self() *discordgo.User { return f.User }

func (f *Fake) SendMessage(channelID, content string) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SendErr != nil {
		return nil, f.SendErr
	}
	f.Sent = append(f.Sent, Sent{ChannelID: channelID, Content: content})
	return &discordgo.Message{ID: f.nextID(), ChannelID: channelID, Content: content, Author: f.User}, nil
}

func (f *Fake) EditMessage(channelID, messageID, content string) (*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Edited = append(f.Edited, Sent{ChannelID: channelID, Content: content})
	return &discordgo.Message{ID: messageID, ChannelID: channelID, Content: content}, nil
}

func (f *Fake) DeleteMessage(channelID, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	f.Deleted = append(f.Deleted, channelID+"/"+messageID)
	return nil
}

func (f *Fake) BulkDelete(channelID string, messageIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Bulk = append(f.Bulk, append([]string{}, messageIDs...))
	return nil
}

func (f *Fake) History(channelID string, limit int, beforeID string) ([]*discordgo.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	all := f.Messages[channelID]
	start := 0
	if beforeID != "" {
		start = len(all)
		for i, m := range all {
			if m.ID == beforeID {
				start = i + 1
				break
			}
		}
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (f *Fake) Typing(channelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Typed = append(f.Typed, channelID)
	return nil
}

func (f *Fake) SendFile(channelID, name string, r io.Reader) (*discordgo.Message, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SendErr != nil {
		return nil, f.SendErr
	}
	f.Sent = append(f.Sent, Sent{ChannelID: channelID, File: name, FileBody: string(body)})
	return &discordgo.Message{ID: f.nextID(), ChannelID: channelID}, nil
}

func (f *Fake) DMChannel(userID string) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DMOpened = append(f.DMOpened, userID)
	return &discordgo.Channel{ID: "dm-" + userID, Type: discordgo.ChannelTypeDM}, nil
}

func (f *Fake) Channel(channelID string) (*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ch, ok := f.ChannelsByID[channelID]; ok {
		return ch, nil
	}
	return nil, platform.ErrNotFound
}

func (f *Fake) Guild(guildID string) (*discordgo.Guild, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if g, ok := f.GuildsByID[guildID]; ok {
		return g, nil
	}
	return nil, platform.ErrNotFound
}

func (f *Fake) Member(guildID, userID string) (*discordgo.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.MembersByID[guildID+"/"+userID]; ok {
		return m, nil
	}
	return nil, platform.ErrNotFound
}

func (f *Fake) Roles(guildID string) ([]*discordgo.Role, error) {
	return f.RolesList, nil
}

func (f *Fake) Channels(guildID string) ([]*discordgo.Channel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*discordgo.Channel
	for _, ch := range f.ChannelsByID {
		if ch.GuildID == guildID {
			out = append(out, ch)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *Fake) Members(guildID string) ([]*discordgo.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*discordgo.Member
	for _, m := range f.MembersByID {
		if m.GuildID == guildID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].User.ID < out[j].User.ID })
	return out, nil
}

func (f *Fake) Permissions(userID, channelID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Perms[userID+"/"+channelID], nil
}

func (f *Fake) SetGame(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Game = name
	return nil
}

func (f *Fake) SetNickname(guildID, nick string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Nick = nick
	return nil
}

func (f *Fake) UpdateProfile(username, avatar string) (*discordgo.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Profile = append(f.Profile, username+"|"+avatar)
	if username != "" {
		f.User.Username = username
	}
	return f.User, nil
}

// SentContents returns the text of every sent message.
func (f *Fake) SentContents() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.Sent))
	for _, s := range f.Sent {
		out = append(out, s.Content)
	}
	return out
}

// DeletedIDs returns a copy of the deletions recorded so far.
func (f *Fake) DeletedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.Deleted...)
}
