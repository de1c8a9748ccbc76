package admin

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/keshon/ainnie/internal/command"
)

const avatarTimeout = 10 * time.Second

func (a *admin) setName(ctx context.Context, req *command.Request) (*command.Reply, error) {
	name := req.Rest("name")
	if _, err := req.Platform.UpdateProfile(name, ""); err != nil {
		return nil, command.NewCommandError("Failed to change name. Did you change names too many times?  "+
			"Remember name changes are limited to twice per hour.", replyExpire)
	}
	return command.Say(":ok_hand:", replyExpire), nil
}

func (a *admin) setNick(ctx context.Context, req *command.Request) (*command.Reply, error) {
	if req.IsPrivate() {
		return nil, command.NewCommandError("Nicknames only exist in servers.", replyExpire)
	}
	if err := req.Platform.SetNickname(req.GuildID, req.Rest("nick")); err != nil {
		return nil, command.NewCommandError("Unable to change my nickname: "+err.Error(), replyExpire)
	}
	return command.Say(":ok_hand:", replyExpire), nil
}

func (a *admin) setAvatar(ctx context.Context, req *command.Request) (*command.Reply, error) {
	url := req.Arg("url")
	if url == "" && req.Message != nil && len(req.Message.Attachments) > 0 {
		url = req.Message.Attachments[0].URL
	}
	url = strings.Trim(url, "<>")
	if url == "" {
		return nil, command.NewHelpfulError("You did not give me an image.",
			"Attach a picture or pass its url to "+req.Prefix+"setavatar.", replyExpire)
	}

	ctx, cancel := context.WithTimeout(ctx, avatarTimeout)
	defer cancel()

	body, err := a.client.Get(ctx, url)
	if err != nil {
		return nil, command.NewCommandError(fmt.Sprintf("Unable to change avatar: %s", err), replyExpire)
	}

	if _, err := req.Platform.UpdateProfile("", dataURI(body)); err != nil {
		return nil, command.NewCommandError(fmt.Sprintf("Unable to change avatar: %s", err), replyExpire)
	}
	return command.Say(":ok_hand:", replyExpire), nil
}

// dataURI encodes an image the way the profile endpoint expects it.
func dataURI(body []byte) string {
	mime := http.DetectContentType(body)
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(body)
}
