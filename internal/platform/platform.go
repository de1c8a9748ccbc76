// Package platform is the narrow chat-platform surface the router and command
// handlers talk to, with a discordgo implementation.
package platform

import (
	"errors"
	"io"
	"net/http"

	"github.com/bwmarrin/discordgo"
)

// MessageLimit is the maximum length of a message body.
const MessageLimit = 2000

var (
	ErrForbidden = errors.New("forbidden")
	ErrNotFound  = errors.New("not found")
)

// Client is everything the bot needs from the chat platform.
type Client interface {
	Self() *discordgo.User

	SendMessage(channelID, content string) (*discordgo.Message, error)
	EditMessage(channelID, messageID, content string) (*discordgo.Message, error)
	DeleteMessage(channelID, messageID string) error
	BulkDelete(channelID string, messageIDs []string) error
	History(channelID string, limit int, beforeID string) ([]*discordgo.Message, error)
	Typing(channelID string) error
	SendFile(channelID, name string, r io.Reader) (*discordgo.Message, error)
	DMChannel(userID string) (*discordgo.Channel, error)

	Channel(channelID string) (*discordgo.Channel, error)
	Guild(guildID string) (*discordgo.Guild, error)
	Member(guildID, userID string) (*discordgo.Member, error)
	Roles(guildID string) ([]*discordgo.Role, error)
	Channels(guildID string) ([]*discordgo.Channel, error)
	Members(guildID string) ([]*discordgo.Member, error)
	Permissions(userID, channelID string) (int64, error)

	SetGame(name string) error
	SetNickname(guildID, nick string) error
	UpdateProfile(username, avatar string) (*discordgo.User, error)
}

// IsForbidden reports whether err is a permission failure from the platform.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden) || restStatus(err) == http.StatusForbidden
}

// IsNotFound reports whether err says the target no longer exists.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || restStatus(err) == http.StatusNotFound
}

func restStatus(err error) int {
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Response != nil {
		return rest.Response.StatusCode
	}
	return 0
}

// HasPermission reports whether perms includes perm, honouring Administrator.
func HasPermission(perms, perm int64) bool {
	return perms&discordgo.PermissionAdministrator != 0 || perms&perm == perm
}
