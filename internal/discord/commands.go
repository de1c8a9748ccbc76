package discord

import (
	"github.com/keshon/ainnie/internal/command/admin"
	"github.com/keshon/ainnie/internal/command/core"
	"github.com/keshon/ainnie/internal/command/fun"
	"github.com/keshon/ainnie/internal/command/web"
	"github.com/keshon/ainnie/internal/config"
	"github.com/keshon/ainnie/internal/middleware"
	"github.com/keshon/ainnie/internal/storage"
	"github.com/keshon/ainnie/pkg/cmd"
	"github.com/keshon/ainnie/pkg/httpfetch"
)

// NewRegistry registers every prefix command the bot knows. st may be nil.
func NewRegistry(cfg *config.Config, st *storage.Storage, client *httpfetch.Client, src web.Sources) *cmd.Registry {
	reg := cmd.NewRegistry()
	logged := middleware.WithCommandLogger(st)

	fun.Register(reg, logged)
	web.Register(reg, client, src, logged)
	core.Register(reg, st, logged)
	admin.Register(reg, client, cfg.InvitePermissions, logged)

	return reg
}
