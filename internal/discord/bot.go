// Package discord runs the bot on a discordgo gateway session.
package discord

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/keshon/ainnie/internal/ai"
	"github.com/keshon/ainnie/internal/command"
	"github.com/keshon/ainnie/internal/command/web"
	"github.com/keshon/ainnie/internal/config"
	"github.com/keshon/ainnie/internal/permissions"
	"github.com/keshon/ainnie/internal/platform"
	"github.com/keshon/ainnie/internal/router"
	"github.com/keshon/ainnie/internal/storage"
	"github.com/keshon/ainnie/pkg/httpfetch"
	"github.com/keshon/ainnie/pkg/jobmgr"
)

const intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsDirectMessages |
	discordgo.IntentsMessageContent

// Bot owns one gateway session and everything scheduled on it.
type Bot struct {
	cfg     *config.Config
	dg      *discordgo.Session
	router  *router.Router
	jobs    *jobmgr.Manager
	storage *storage.Storage
	events  chan SystemEvent

	// ctx is the Run context, set before the session opens.
	ctx context.Context
}

// New prepares a bot. The session is not opened until Run. st may be nil.
func New(cfg *config.Config, st *storage.Storage) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	dg.Identify.Intents = intents

	perms, err := permissions.Load(cfg.PermissionsPath, cfg.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("load permissions: %w", err)
	}

	fetch := httpfetch.New(cfg.HTTPTimeout, cfg.HTTPRate)

	var chat router.Responder
	if cfg.AIProvider != "" {
		provider, err := ai.NewProvider(cfg.AIProvider, fetch)
		if err != nil {
			return nil, fmt.Errorf("chat provider: %w", err)
		}
		persona, err := ai.LoadPersona(cfg.AIPromptPath)
		if err != nil {
			return nil, fmt.Errorf("chat persona: %w", err)
		}
		chat = ai.NewResponder(provider, persona)
	}

	jobs := jobmgr.NewManager(func(s string) {
		if strings.HasPrefix(s, "error:") {
			log.Warn().Str("job", s).Msg("Scheduled job failed")
		}
	})

	b := &Bot{
		cfg:     cfg,
		dg:      dg,
		jobs:    jobs,
		storage: st,
		events:  make(chan SystemEvent, systemEventBuffer),
		ctx:     context.Background(),
	}
	reg := NewRegistry(cfg, st, fetch, web.DefaultSources)
	b.router = router.New(cfg, reg, platform.NewDiscord(dg), perms, jobs, chat)

	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onMessageCreate)
	dg.AddHandler(b.onGuildCreate)
	return b, nil
}

// Run opens the session and blocks until ctx is done or a command asks for a
// restart or shutdown. It returns command.ErrRestart or command.ErrTerminate
// in the latter case and nil in the former.
func (b *Bot) Run(ctx context.Context) error {
	b.ctx = ctx
	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer b.shutdown()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutdown signal received. Cleaning up...")
		return nil
	case evt := <-b.events:
		log.Info().Str("signal", string(evt.Signal)).Str("user", evt.UserID).Msg("Control signal received")
		return evt.Signal
	}
}

func (b *Bot) shutdown() {
	if n := b.jobs.StopAll(); n > 0 {
		log.Info().Int("jobs", n).Msg("Cancelled pending jobs")
	}
	b.jobs.Close()
	if err := b.dg.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close session")
	}
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	self := r.User
	if self == nil {
		log.Warn().Msg("Ready event without user")
		return
	}

	log.Info().Msgf("Connected! %s#%s (%s)", self.Username, self.Discriminator, self.ID)
	log.Info().Msgf("Owner: %s", b.cfg.OwnerID)
	if len(b.cfg.BoundChannels) > 0 {
		log.Info().Msgf("Bound to text channels: %s", strings.Join(b.cfg.BoundChannels, ", "))
	} else {
		log.Info().Msg("Not bound to any text channels")
	}
	log.Info().Msgf("Command prefix: %s", b.cfg.CommandPrefix)
	log.Info().Msgf("Delete Messages: %s", config.Enabled(b.cfg.DeleteMessages))
	if b.cfg.DeleteMessages {
		log.Info().Msgf("  Delete Invoking: %s", config.Enabled(b.cfg.DeleteInvoking))
	}
	log.Info().Msgf("Debug Mode: %s", config.Enabled(b.cfg.DebugMode))
	log.Info().Int("guilds", len(r.Guilds)).Msg("Discord bot is running")
}

func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if g.Guild == nil || g.Unavailable {
		return
	}
	log.Debug().Str("guild", g.ID).Str("name", g.Name).Msg("Guild available")
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m == nil || m.Message == nil {
		return
	}

	err := b.router.Dispatch(b.ctx, m.Message)

	var sig command.Signal
	if errors.As(err, &sig) {
		evt := SystemEvent{Signal: sig, GuildID: m.GuildID}
		if m.Author != nil {
			evt.UserID = m.Author.ID
		}
		b.publish(evt)
	}
}
