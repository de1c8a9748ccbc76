// Package web holds the commands that answer with content fetched from
// third-party sites.
package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/keshon/ainnie/pkg/cmd"
	"github.com/keshon/ainnie/pkg/httpfetch"
)

const replyExpire = 20 * time.Second

// Sources are the base URLs the commands fetch from.
type Sources struct {
	Urban   string
	XKCD    string
	Penguin string
	Cat     string
}

// DefaultSources points at the public sites.
var DefaultSources = Sources{
	Urban:   "https://www.urbandictionary.com",
	XKCD:    "https://xkcd.com",
	Penguin: "http://penguin.wtf",
	Cat:     "https://thecatapi.com",
}

type fetcher struct {
	client *httpfetch.Client
	src    Sources
}

// Register adds every command of the package to reg.
func Register(reg *cmd.Registry, client *httpfetch.Client, src Sources, mws ...cmd.Middleware) {
	f := &fetcher{client: client, src: src}
	f.registerUrban(reg, mws...)
	f.registerXKCD(reg, mws...)
	f.registerPenguin(reg, mws...)
	f.registerCat(reg, mws...)
}

func isStatus(err error, code int) bool {
	var se *httpfetch.StatusError
	return errors.As(err, &se) && se.StatusCode() == code
}

func notFound(err error) bool {
	return isStatus(err, http.StatusNotFound)
}
