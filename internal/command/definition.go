package command

import (
	"context"
	"fmt"

	"github.com/keshon/ainnie/pkg/cmd"
)

// Handler runs a command. A nil reply sends nothing.
type Handler func(ctx context.Context, req *Request) (*Reply, error)

// Definition describes a prefix command.
type Definition struct {
	Name        string
	Description string
	Usage       string // may contain cmd.PrefixPlaceholder; generated from Params when empty
	Params      []cmd.Param
	Needs       Need
	AllowDM     bool // only honoured for the owner
	Handler     Handler
}

// Adapter adapts a Definition to cmd.Command so it can live in the registry
// and be wrapped by middleware.
type Adapter struct {
	Def Definition
}

func (a *Adapter) Name() string        { return a.Def.Name }
func (a *Adapter) Description() string { return a.Def.Description }

// Run expects inv.Data to be a *Request and stores the handler's reply in it.
func (a *Adapter) Run(ctx context.Context, inv *cmd.Invocation) error {
	req, ok := inv.Data.(*Request)
	if !ok {
		return fmt.Errorf("command %s: unexpected invocation data %T", a.Def.Name, inv.Data)
	}
	reply, err := a.Def.Handler(ctx, req)
	if err != nil {
		return err
	}
	req.Result = reply
	return nil
}

// Lookup returns the definition underneath a possibly wrapped command.
func Lookup(c cmd.Command) (*Definition, bool) {
	if c == nil {
		return nil, false
	}
	a, ok := cmd.Root(c).(*Adapter)
	if !ok {
		return nil, false
	}
	return &a.Def, true
}

// UsageText renders the usage block of the definition for prefix.
func (d *Definition) UsageText(prefix string) string {
	return cmd.Usage(prefix, d.Name, d.Usage, d.Params)
}

// Register adds def to reg with the given middleware applied.
func Register(reg *cmd.Registry, def Definition, mws ...cmd.Middleware) {
	reg.Register(cmd.Apply(&Adapter{Def: def}, mws...))
}

// RequestFrom extracts the request from an invocation. Middleware uses it.
func RequestFrom(inv *cmd.Invocation) (*Request, bool) {
	req, ok := inv.Data.(*Request)
	return req, ok
}
