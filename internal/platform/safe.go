package platform

import (
	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// Truncate shortens content to fit in one message.
func Truncate(content string) string {
	r := []rune(content)
	if len(r) <= MessageLimit {
		return content
	}
	return string(r[:MessageLimit-3]) + "..."
}

// SafeSend sends content and swallows forbidden or not-found failures, which
// return a nil message and a nil error.
func SafeSend(c Client, channelID, content string) (*discordgo.Message, error) {
	msg, err := c.SendMessage(channelID, Truncate(content))
	if err != nil {
		if IsForbidden(err) || IsNotFound(err) {
			log.Warn().Err(err).Str("channel", channelID).Msg("Cannot send message")
			return nil, nil
		}
		return nil, err
	}
	return msg, nil
}

// SafeDelete deletes a message and swallows forbidden or not-found failures.
func SafeDelete(c Client, channelID, messageID string) error {
	err := c.DeleteMessage(channelID, messageID)
	if err != nil {
		if IsForbidden(err) || IsNotFound(err) {
			log.Debug().Err(err).Str("channel", channelID).Str("message", messageID).Msg("Cannot delete message")
			return nil
		}
		return err
	}
	return nil
}

// SafeEdit edits a message and swallows not-found failures.
func SafeEdit(c Client, channelID, messageID, content string) (*discordgo.Message, error) {
	msg, err := c.EditMessage(channelID, messageID, Truncate(content))
	if err != nil {
		if IsNotFound(err) {
			log.Debug().Err(err).Str("message", messageID).Msg("Cannot edit message")
			return nil, nil
		}
		return nil, err
	}
	return msg, nil
}
