// Package fun holds the commands that answer from local tables or dice.
package fun

import (
	"math/rand"
	"time"

	"github.com/keshon/ainnie/pkg/cmd"
)

const replyExpire = 20 * time.Second

// intn returns a number in [0, n). Tests replace it.
var intn = rand.Intn

func pick(list []string) string {
	return list[intn(len(list))]
}

// Register adds every command of the package to reg.
func Register(reg *cmd.Registry, mws ...cmd.Middleware) {
	registerTables(reg, mws...)
	registerRandom(reg, mws...)
	registerSay(reg, mws...)
}
