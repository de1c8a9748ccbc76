// Package permissions loads permission groups and resolves the group that
// applies to a message author.
package permissions

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog/log"
)

// DefaultGroupName names the group used when no other group matches.
const DefaultGroupName = "Default"

// OwnerGroupName names the unrestricted group granted to the owner.
const OwnerGroupName = "Owner (auto)"

// Group is a named set of command rules.
type Group struct {
	Name             string   `toml:"-"`
	CommandWhitelist []string `toml:"command_whitelist"`
	CommandBlacklist []string `toml:"command_blacklist"`
	UserList         []string `toml:"user_list"`
	GrantToRoles     []string `toml:"grant_to_roles"`
	AllowChat        *bool    `toml:"allow_chat"`
}

// Whitelisted reports whether the whitelist is empty or contains keyword.
func (g *Group) Whitelisted(keyword string) bool {
	return len(g.CommandWhitelist) == 0 || slices.Contains(g.CommandWhitelist, keyword)
}

// Blacklisted reports whether the blacklist contains keyword.
func (g *Group) Blacklisted(keyword string) bool {
	return slices.Contains(g.CommandBlacklist, keyword)
}

// ChatAllowed reports whether members may talk to the chat responder.
func (g *Group) ChatAllowed() bool {
	return g.AllowChat == nil || *g.AllowChat
}

// Lines renders the non-empty rules of the group, one per line.
func (g *Group) Lines() []string {
	var out []string
	add := func(label string, v []string) {
		if len(v) > 0 {
			out = append(out, fmt.Sprintf("%s: %s", label, strings.Join(v, ", ")))
		}
	}
	out = append(out, "name: "+g.Name)
	add("command_whitelist", g.CommandWhitelist)
	add("command_blacklist", g.CommandBlacklist)
	add("grant_to_roles", g.GrantToRoles)
	if !g.ChatAllowed() {
		out = append(out, "allow_chat: false")
	}
	return out
}

type file struct {
	Default Group            `toml:"default"`
	Groups  map[string]Group `toml:"groups"`
}

// Permissions holds every configured group. It is read-only after Load.
type Permissions struct {
	def    *Group
	owner  *Group
	groups []*Group
	grant  []string
}

// Load reads the permission file at path. A missing file yields a single
// unrestricted default group. grantAll lists user IDs that always get the
// unrestricted owner group.
func Load(path string, grantAll ...string) (*Permissions, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("path", path).Msg("Permissions file not found, using an unrestricted default group")
		return Parse("", grantAll...)
	}
	if err != nil {
		return nil, fmt.Errorf("read permissions: %w", err)
	}
	return Parse(string(data), grantAll...)
}

// Parse builds Permissions from TOML text.
func Parse(text string, grantAll ...string) (*Permissions, error) {
	var f file
	if _, err := toml.Decode(text, &f); err != nil {
		return nil, fmt.Errorf("decode permissions: %w", err)
	}

	p := &Permissions{grant: grantAll}

	def := f.Default
	def.Name = DefaultGroupName
	p.def = &def
	p.owner = &Group{Name: OwnerGroupName, UserList: grantAll}

	names := make([]string, 0, len(f.Groups))
	for name := range f.Groups {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		g := f.Groups[name]
		g.Name = name
		g.CommandWhitelist = lower(g.CommandWhitelist)
		g.CommandBlacklist = lower(g.CommandBlacklist)
		p.groups = append(p.groups, &g)
	}
	p.def.CommandWhitelist = lower(p.def.CommandWhitelist)
	p.def.CommandBlacklist = lower(p.def.CommandBlacklist)

	return p, nil
}

// ForUser resolves the group of a user: the owner group for granted IDs, then
// the first group listing the user, then the first group granted to one of
// the user's roles, then the default group.
func (p *Permissions) ForUser(userID string, roleIDs []string) *Group {
	if slices.Contains(p.grant, userID) {
		return p.owner
	}
	for _, g := range p.groups {
		if slices.Contains(g.UserList, userID) {
			return g
		}
	}
	for _, g := range p.groups {
		for _, r := range roleIDs {
			if slices.Contains(g.GrantToRoles, r) {
				return g
			}
		}
	}
	return p.def
}

// Groups returns the configured groups, sorted by name, without the default.
func (p *Permissions) Groups() []*Group {
	return p.groups
}

func lower(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
