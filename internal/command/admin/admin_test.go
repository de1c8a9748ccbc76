package admin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/ainnie/internal/command"
	"github.com/keshon/ainnie/internal/platform/platformtest"
	"github.com/keshon/ainnie/pkg/cmd"
	"github.com/keshon/ainnie/pkg/httpfetch"
)

// 1x1 transparent PNG.
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89,
}

type harness struct {
	reg  *cmd.Registry
	fake *platformtest.Fake
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{reg: cmd.NewRegistry(), fake: platformtest.New("bot")}
	Register(h.reg, httpfetch.New(5*time.Second, 50), 2048)
	return h
}

func (h *harness) run(name, authorID string, args map[string]string, leftover ...string) (*command.Request, error) {
	req := &command.Request{
		GuildID:   "g1",
		ChannelID: "c1",
		AuthorID:  authorID,
		MessageID: "inv",
		Prefix:    "!",
		Keyword:   name,
		Args:      args,
		Leftover:  leftover,
		OwnerID:   "owner",
		Platform:  h.fake,
		Message:   &discordgo.Message{ID: "inv", ChannelID: "c1"},
	}
	err := h.reg.Get(name).Run(context.Background(), &cmd.Invocation{Data: req})
	return req, err
}

func TestEverythingIsOwnerOnly(t *testing.T) {
	h := newHarness(t)

	for _, name := range []string{"setname", "setnick", "setavatar", "joinserver", "restart", "shutdown"} {
		_, err := h.run(name, "u1", map[string]string{"name": "x", "nick": "x", "url": ""})
		var perr *command.PermissionsError
		require.ErrorAs(t, err, &perr, name)
		assert.Equal(t, "Only the owner can use this command", perr.UserMessage())
		assert.Equal(t, 30*time.Second, perr.ExpireIn())
	}
	assert.Empty(t, h.fake.Profile)
	assert.Empty(t, h.fake.Sent)
}

func TestSetName(t *testing.T) {
	h := newHarness(t)

	req, err := h.run("setname", "owner", map[string]string{"name": "Ainnie"}, "Two")
	require.NoError(t, err)
	assert.Equal(t, ":ok_hand:", req.Result.Content)
	assert.Equal(t, []string{"Ainnie Two|"}, h.fake.Profile)
}

func TestSetNickNeedsPermission(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("setnick", "owner", map[string]string{"nick": "ainz"})
	var perr *command.PermissionsError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "I need the following permissions to do that: `Change Nickname`", perr.UserMessage())

	h.fake.Perms["bot/c1"] = discordgo.PermissionChangeNickname
	req, err := h.run("setnick", "owner", map[string]string{"nick": "ainz"})
	require.NoError(t, err)
	assert.Equal(t, ":ok_hand:", req.Result.Content)
	assert.Equal(t, "ainz", h.fake.Nick)
}

func TestSetAvatarFromURLAndAttachment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/a.png" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(pngBytes)
	}))
	defer srv.Close()

	h := newHarness(t)

	req, err := h.run("setavatar", "owner", map[string]string{"url": "<" + srv.URL + "/a.png>"})
	require.NoError(t, err)
	assert.Equal(t, ":ok_hand:", req.Result.Content)
	require.Len(t, h.fake.Profile, 1)
	assert.True(t, strings.HasPrefix(h.fake.Profile[0], "|data:image/png;base64,"), h.fake.Profile[0])

	req = &command.Request{
		ChannelID: "c1", GuildID: "g1", AuthorID: "owner", OwnerID: "owner", Prefix: "!",
		Args:     map[string]string{"url": ""},
		Platform: h.fake,
		Message: &discordgo.Message{Attachments: []*discordgo.MessageAttachment{
			{URL: srv.URL + "/a.png"},
		}},
	}
	require.NoError(t, h.reg.Get("setavatar").Run(context.Background(), &cmd.Invocation{Data: req}))
	assert.Len(t, h.fake.Profile, 2)
}

func TestSetAvatarFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	h := newHarness(t)

	_, err := h.run("setavatar", "owner", map[string]string{"url": srv.URL + "/missing.png"})
	var cerr *command.CommandError
	require.ErrorAs(t, err, &cerr)
	assert.True(t, strings.HasPrefix(cerr.UserMessage(), "Unable to change avatar: "), cerr.UserMessage())
	assert.Empty(t, h.fake.Profile)
}

func TestSetAvatarWithoutImage(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("setavatar", "owner", map[string]string{"url": ""})
	var herr *command.HelpfulError
	require.ErrorAs(t, err, &herr)
	assert.Contains(t, herr.UserMessage(), "You did not give me an image.")
}

func TestJoinServer(t *testing.T) {
	h := newHarness(t)

	req, err := h.run("joinserver", "owner", nil)
	require.NoError(t, err)
	assert.Contains(t, req.Result.Content, "https://discord.com/oauth2/authorize?client_id=bot&scope=bot&permissions=2048")

	def, ok := command.Lookup(h.reg.Get("joinserver"))
	require.True(t, ok)
	assert.True(t, def.AllowDM)
}

func TestRestartAndShutdownSignal(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("restart", "owner", nil)
	assert.True(t, errors.Is(err, command.ErrRestart))

	_, err = h.run("shutdown", "owner", nil)
	assert.True(t, errors.Is(err, command.ErrTerminate))

	assert.Equal(t, []string{":wave:", ":wave:"}, h.fake.SentContents())
}
