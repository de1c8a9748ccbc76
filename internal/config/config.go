// /internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds everything the bot reads from the environment.
type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN" validate:"required"`
	OwnerID      string `env:"OWNER_ID" validate:"required,numeric"`

	CommandPrefix  string   `env:"COMMAND_PREFIX" envDefault:"!" validate:"required"`
	BoundChannels  []string `env:"BOUND_CHANNELS" envSeparator:"," validate:"dive,numeric"`
	DeleteMessages bool     `env:"DELETE_MESSAGES" envDefault:"true"`
	DeleteInvoking bool     `env:"DELETE_INVOKING" envDefault:"false"`
	DebugMode      bool     `env:"DEBUG_MODE" envDefault:"false"`

	// ChatMentionID is the user ID whose mention routes a message to the chat
	// responder. Empty means the bot's own ID.
	ChatMentionID string `env:"CHAT_MENTION_ID" validate:"omitempty,numeric"`

	PermissionsPath string `env:"PERMISSIONS_PATH" envDefault:"config/permissions.toml"`
	StoragePath     string `env:"STORAGE_PATH" envDefault:"data/datastore.json"`

	AIProvider   string `env:"AI_PROVIDER" envDefault:"pollinations"`
	AIPromptPath string `env:"AI_PROMPT_PATH" envDefault:"config/persona.md"`

	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"15s" validate:"min=1s,max=2m"`
	HTTPRate    float64       `env:"HTTP_RATE" envDefault:"5" validate:"gt=0,max=100"`

	InvitePermissions int64 `env:"INVITE_PERMISSIONS" envDefault:"3148864" validate:"gte=0"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=trace debug info warn error"`
	LogFile  string `env:"LOG_FILE"`
}

// Load reads an optional .env file, parses the environment and validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, falling back to system environment variables")
	}
	return Parse(env.Options{})
}

// Parse builds a Config from the environment described by opts. Tests pass an
// explicit Environment map.
func Parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if strings.ContainsAny(cfg.CommandPrefix, " \t\n") {
		return nil, fmt.Errorf("invalid config: COMMAND_PREFIX must not contain whitespace")
	}

	// Deleting the invoking message only makes sense when replies are cleaned up too.
	cfg.DeleteInvoking = cfg.DeleteInvoking && cfg.DeleteMessages

	if err := validator.New().Struct(&cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, fmt.Errorf("invalid config: %s", verrs[0].Namespace()+" "+verrs[0].Tag())
		}
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// IsBound reports whether commands are accepted in channelID.
func (c *Config) IsBound(channelID string) bool {
	if len(c.BoundChannels) == 0 {
		return true
	}
	for _, id := range c.BoundChannels {
		if id == channelID {
			return true
		}
	}
	return false
}

// Enabled renders a flag for the startup banner.
func Enabled(b bool) string {
	if b {
		return "Enabled"
	}
	return "Disabled"
}
