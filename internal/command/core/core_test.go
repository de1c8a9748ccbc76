package core

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/ainnie/internal/command"
	"github.com/keshon/ainnie/internal/permissions"
	"github.com/keshon/ainnie/internal/platform/platformtest"
	"github.com/keshon/ainnie/internal/storage"
	"github.com/keshon/ainnie/pkg/cmd"
	"github.com/keshon/ainnie/pkg/jobmgr"
)

type harness struct {
	reg  *cmd.Registry
	fake *platformtest.Fake
	jobs *jobmgr.Manager
	st   *storage.Storage
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	st, err := storage.New(filepath.Join(t.TempDir(), "datastore.json"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	h := &harness{
		reg:  cmd.NewRegistry(),
		fake: platformtest.New("bot"),
		jobs: jobmgr.NewManager(nil),
		st:   st,
	}
	t.Cleanup(h.jobs.Close)
	Register(h.reg, st)
	return h
}

func (h *harness) request(args map[string]string, leftover ...string) *command.Request {
	return &command.Request{
		GuildID:   "g1",
		ChannelID: "c1",
		AuthorID:  "u1",
		MessageID: "inv",
		Prefix:    "!",
		Args:      args,
		Leftover:  leftover,
		OwnerID:   "owner",
		Platform:  h.fake,
		Scheduler: h.jobs,
		Registry:  h.reg,
	}
}

func (h *harness) run(t *testing.T, name string, req *command.Request) *command.Reply {
	t.Helper()
	c := h.reg.Get(name)
	require.NotNil(t, c, name)
	req.Keyword = name
	require.NoError(t, c.Run(context.Background(), &cmd.Invocation{Data: req}))
	return req.Result
}

func TestHelpListsCommandsWithoutItself(t *testing.T) {
	h := newHarness(t)

	reply := h.run(t, "help", h.request(map[string]string{"command": ""}))
	require.NotNil(t, reply)
	assert.True(t, reply.Mention)
	assert.Equal(t, time.Minute, reply.DeleteAfter)
	assert.True(t, strings.HasPrefix(reply.Content, "my commands are\n```"))
	assert.Contains(t, reply.Content, "!clean, !game, !listids, !perms, !stats, !timer")
	assert.NotContains(t, reply.Content, "!help")
	assert.True(t, strings.HasSuffix(reply.Content, "\n\n@me to talk to me!```"))
}

func TestHelpForOneCommand(t *testing.T) {
	h := newHarness(t)

	reply := h.run(t, "help", h.request(map[string]string{"command": "TIMER"}))
	require.NotNil(t, reply)
	assert.Contains(t, reply.Content, "!timer [seconds] [reminder]")
	assert.True(t, strings.HasPrefix(reply.Content, "```\n"))
	assert.Equal(t, time.Minute, reply.DeleteAfter)

	reply = h.run(t, "help", h.request(map[string]string{"command": "nope"}))
	assert.Equal(t, "No such command", reply.Content)
	assert.Equal(t, 10*time.Second, reply.DeleteAfter)
}

func TestTimerRejectsBadInput(t *testing.T) {
	h := newHarness(t)

	for _, arg := range []string{"abc", "-1", "604801", "18446744074"} {
		reply := h.run(t, "timer", h.request(map[string]string{"seconds": arg}))
		assert.Equal(t, "That's not what I expected. The format is `!timer [seconds] [optional reminder message].`", reply.Content, arg)
		assert.Equal(t, 20*time.Second, reply.DeleteAfter)
	}
	assert.Empty(t, h.jobs.List())
}

func TestTimerFiresReminder(t *testing.T) {
	h := newHarness(t)

	reply := h.run(t, "timer", h.request(map[string]string{"seconds": "0"}, "feed", "the", "cat"))
	assert.True(t, reply.Mention)
	assert.Equal(t, "I will remind you about `feed the cat` in 0 seconds!", reply.Content)

	h.jobs.Wait()
	assert.Equal(t, []string{"<@u1>, your timer for 0 seconds has expired! I was instructed to remind you about `feed the cat`!"}, h.fake.SentContents())
}

func TestTimerIsPendingUntilDue(t *testing.T) {
	h := newHarness(t)

	reply := h.run(t, "timer", h.request(map[string]string{"seconds": "60"}))
	assert.Equal(t, "you have set a timer for 60 seconds!", reply.Content)
	assert.Equal(t, []string{"timer:c1:inv"}, h.jobs.List())
	assert.Empty(t, h.fake.SentContents())
}

func TestGameSetsAndClears(t *testing.T) {
	h := newHarness(t)

	reply := h.run(t, "game", h.request(nil, "with", "yarn"))
	assert.Equal(t, "I am now playing with yarn", reply.Content)
	assert.Equal(t, "with yarn", h.fake.Game)

	reply = h.run(t, "game", h.request(nil))
	assert.Equal(t, "I am no longer playing", reply.Content)
	assert.Empty(t, h.fake.Game)
}

func msg(id, authorID, content string) *discordgo.Message {
	return &discordgo.Message{ID: id, ChannelID: "c1", Content: content, Author: &discordgo.User{ID: authorID}}
}

func seedHistory(h *harness) {
	h.fake.Messages["c1"] = []*discordgo.Message{
		msg("inv", "u1", "!clean"),
		msg("a", "bot", "hello"),
		msg("b", "u1", "!roll 6"),
		msg("c", "u2", "!roll 20"),
		msg("d", "u1", "! not a command"),
		msg("e", "u2", "just chatting"),
		msg("f", "bot", "old reply"),
	}
}

func TestIsCommandInvoke(t *testing.T) {
	assert.True(t, isCommandInvoke("!roll", "!"))
	assert.False(t, isCommandInvoke("! roll", "!"))
	assert.False(t, isCommandInvoke("!", "!"))
	assert.False(t, isCommandInvoke("roll", "!"))
}

func TestCleanOneByOneOnlyOwnInvokes(t *testing.T) {
	old := deleteInterval
	deleteInterval = 0
	t.Cleanup(func() { deleteInterval = old })

	h := newHarness(t)
	seedHistory(h)

	reply := h.run(t, "clean", h.request(map[string]string{"range": "50"}))
	assert.Equal(t, "Cleaned up 3 messages.", reply.Content)
	assert.Equal(t, 15*time.Second, reply.DeleteAfter)
	assert.Equal(t, []string{"c1/inv", "c1/a", "c1/b", "c1/f"}, h.fake.DeletedIDs())
	assert.Empty(t, h.fake.Bulk)
}

func TestCleanBulkWithManageMessages(t *testing.T) {
	h := newHarness(t)
	seedHistory(h)
	h.fake.Perms["bot/c1"] = discordgo.PermissionManageMessages
	h.fake.Perms["u1/c1"] = discordgo.PermissionManageMessages

	reply := h.run(t, "clean", h.request(map[string]string{"range": "50"}))
	assert.Equal(t, "Cleaned up 4 messages.", reply.Content)
	require.Len(t, h.fake.Bulk, 1)
	assert.Equal(t, []string{"a", "b", "c", "f"}, h.fake.Bulk[0])
}

func TestCleanBulkSkipsOldMessages(t *testing.T) {
	h := newHarness(t)
	h.fake.Perms["bot/c1"] = discordgo.PermissionManageMessages
	old := msg("a", "bot", "ancient")
	old.Timestamp = time.Now().Add(-15 * 24 * time.Hour)
	h.fake.Messages["c1"] = []*discordgo.Message{msg("inv", "u1", "!clean"), old, msg("b", "bot", "fresh")}

	reply := h.run(t, "clean", h.request(map[string]string{"range": "50"}))
	assert.Equal(t, "Cleaned up 1 message.", reply.Content)
	assert.Empty(t, h.fake.Bulk)
	assert.Equal(t, []string{"c1/inv", "c1/b"}, h.fake.DeletedIDs())
}

func TestCleanRespectsRange(t *testing.T) {
	old := deleteInterval
	deleteInterval = 0
	t.Cleanup(func() { deleteInterval = old })

	h := newHarness(t)
	seedHistory(h)

	reply := h.run(t, "clean", h.request(map[string]string{"range": "2"}))
	assert.Equal(t, "Cleaned up 2 messages.", reply.Content)
}

func TestCleanRejectsNonNumbers(t *testing.T) {
	h := newHarness(t)

	for _, arg := range []string{"lots", "0"} {
		reply := h.run(t, "clean", h.request(map[string]string{"range": arg}))
		assert.True(t, reply.Mention)
		assert.Equal(t, "enter a number.  NUMBER.  That means digits.  `15`.  Etc.", reply.Content)
		assert.Equal(t, 8*time.Second, reply.DeleteAfter)
	}
	assert.Empty(t, h.fake.DeletedIDs())
}

func seedGuild(h *harness) *discordgo.Guild {
	g := &discordgo.Guild{ID: "g1", Name: "Cat Club"}
	h.fake.GuildsByID["g1"] = g
	h.fake.ChannelsByID["c1"] = &discordgo.Channel{ID: "c1", GuildID: "g1", Name: "general", Type: discordgo.ChannelTypeGuildText}
	h.fake.ChannelsByID["c2"] = &discordgo.Channel{ID: "c2", GuildID: "g1", Name: "voice", Type: discordgo.ChannelTypeGuildVoice}
	h.fake.MembersByID["g1/u1"] = &discordgo.Member{GuildID: "g1", User: &discordgo.User{ID: "u1", Username: "alice"}}
	h.fake.RolesList = []*discordgo.Role{{ID: "r1", Name: "mods"}}
	return g
}

func TestListIDsSendsFile(t *testing.T) {
	h := newHarness(t)
	req := h.request(map[string]string{"cat": "all"})
	req.Guild = seedGuild(h)

	reply := h.run(t, "listids", req)
	assert.Equal(t, ":mailbox_with_mail:", reply.Content)
	assert.Equal(t, 20*time.Second, reply.DeleteAfter)

	require.Len(t, h.fake.Sent, 1)
	sent := h.fake.Sent[0]
	assert.Equal(t, "dm-u1", sent.ChannelID)
	assert.Equal(t, "Cat_Club-ids-channels-roles-users.txt", sent.File)
	assert.Equal(t, strings.Join([]string{
		"Your ID: u1",
		"\nText Channel IDs:",
		"general: c1",
		"\nRole IDs:",
		"mods: r1",
		"\nUser IDs:",
		"alice: u1",
	}, "\n"), sent.FileBody)
}

func TestListIDsSingleCategory(t *testing.T) {
	h := newHarness(t)
	req := h.request(map[string]string{"cat": "roles"})
	req.Guild = seedGuild(h)

	h.run(t, "listids", req)
	require.Len(t, h.fake.Sent, 1)
	assert.Equal(t, "Your ID: u1\n\nRole IDs:\nmods: r1", h.fake.Sent[0].FileBody)
}

func TestListIDsInvalidCategory(t *testing.T) {
	h := newHarness(t)
	req := h.request(map[string]string{"cat": "emojis"})
	req.Guild = seedGuild(h)

	reply := h.run(t, "listids", req)
	assert.True(t, reply.Mention)
	assert.Equal(t, "Valid categories: `channels` `roles` `users`", reply.Content)
	assert.Equal(t, 25*time.Second, reply.DeleteAfter)
	assert.Empty(t, h.fake.Sent)
}

func TestPermsDirectMessagesGroup(t *testing.T) {
	h := newHarness(t)
	req := h.request(nil)
	req.Guild = seedGuild(h)
	req.Permissions = &permissions.Group{Name: "Mods", CommandBlacklist: []string{"say"}}

	reply := h.run(t, "perms", req)
	assert.Equal(t, ":mailbox_with_mail:", reply.Content)
	assert.Equal(t, []string{"u1"}, h.fake.DMOpened)
	require.Len(t, h.fake.Sent, 1)
	assert.Equal(t, "dm-u1", h.fake.Sent[0].ChannelID)
	assert.Equal(t, "Command permissions in Cat Club\n\n```\nname: Mods\ncommand_blacklist: say\n```", h.fake.Sent[0].Content)
}

func TestStatsReportsCountersAndHistory(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.st.AppendCommandToHistory("g1", storage.CommandHistoryRecord{
		GuildID: "g1", Username: "alice", Command: "roll", Param: "20", Datetime: time.Now(),
	}))

	req := h.request(nil)
	req.State = command.GuildState{Handled: 3, LastCommand: "roll", LastAuthorID: "u1", LastAt: time.Now()}

	reply := h.run(t, "stats", req)
	assert.Equal(t, 30*time.Second, reply.DeleteAfter)
	assert.Contains(t, reply.Content, "Commands this session: 3")
	assert.Contains(t, reply.Content, "Last command: !roll")
	assert.Contains(t, reply.Content, "Commands all time: 1")
	assert.Contains(t, reply.Content, "!roll 20 by alice")
	assert.Contains(t, reply.Content, "Pending jobs: 0")
}
