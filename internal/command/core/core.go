// Package core holds the bot's housekeeping commands: help, timers, presence,
// channel cleanup and introspection.
package core

import (
	"github.com/keshon/ainnie/internal/storage"
	"github.com/keshon/ainnie/pkg/cmd"
)

// Register adds every command of the package to reg. st may be nil, in
// which case stats only reports in-memory counters.
func Register(reg *cmd.Registry, st *storage.Storage, mws ...cmd.Middleware) {
	registerHelp(reg, mws...)
	registerTimer(reg, mws...)
	registerGame(reg, mws...)
	registerClean(reg, mws...)
	registerListIDs(reg, mws...)
	registerPerms(reg, mws...)
	registerStats(reg, st, mws...)
}
