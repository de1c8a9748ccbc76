package router

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/keshon/ainnie/internal/platform"
)

const typingInterval = 8 * time.Second

// chatMention returns the mention tokens that route a message to the
// responder.
func (r *Router) chatMention() []string {
	id := r.cfg.ChatMentionID
	if id == "" {
		id = r.client.Self().ID
	}
	return []string{"<@" + id + ">", "<@!" + id + ">"}
}

func (r *Router) handleChat(ctx context.Context, m *discordgo.Message, content string) {
	if r.chat == nil {
		return
	}

	mentioned := false
	for _, token := range r.chatMention() {
		if strings.Contains(content, token) {
			content = strings.ReplaceAll(content, token, "")
			mentioned = true
		}
	}
	if !mentioned {
		return
	}
	if !r.permissionsFor(m).ChatAllowed() {
		return
	}

	text := strings.TrimSpace(content)
	log.Info().Str("user", m.Author.Username).Str("channel", m.ChannelID).Str("text", text).Msg("[Chat]")

	done := make(chan struct{})
	go keepTyping(r.client, m.ChannelID, done)
	reply, err := r.chat.Respond(ctx, m.ChannelID, m.Author.Username, text)
	close(done)

	if err != nil {
		log.Warn().Err(err).Str("channel", m.ChannelID).Msg("Chat responder failed")
		return
	}
	if _, err := platform.SafeSend(r.client, m.ChannelID, "<@"+m.Author.ID+"> "+reply); err != nil {
		log.Error().Err(err).Str("channel", m.ChannelID).Msg("Failed to send chat reply")
	}
}

func keepTyping(c platform.Client, channelID string, done <-chan struct{}) {
	_ = c.Typing(channelID)
	ticker := time.NewTicker(typingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			_ = c.Typing(channelID)
		}
	}
}
