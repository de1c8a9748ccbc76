package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/ainnie/internal/command"
	"github.com/keshon/ainnie/pkg/cmd"
	"github.com/keshon/ainnie/pkg/httpfetch"
)

const urbanPage = `<html><body>
<div class="def-panel">
  <div class="meaning">A <a href="/define.php?term=bird">bird</a> that cannot fly.<br>Lives on ice.</div>
  <div class="example">The penguin waddled.</div>
  <div class="contributor">by pingu April 1, 2010</div>
</div>
<div class="meaning">second definition</div>
</body></html>`

const catXML = `<?xml version="1.0"?>
<response><data><images><image>
  <url>http://25.media.tumblr.com/cat.gif</url><id>abc</id>
</image></images></data></response>`

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/define.php", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("term") {
		case "penguin bird":
			fmt.Fprint(w, urbanPage)
		case "empty":
			fmt.Fprint(w, "<html><body>nothing</body></html>")
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("/info.0.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"num": 3000, "safe_title": "Latest", "img": "https://imgs.xkcd.com/latest.png", "alt": "newest"}`)
	})
	mux.HandleFunc("/353/info.0.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"num": 353, "safe_title": "Python", "img": "https://imgs.xkcd.com/python.png", "alt": "I wrote 20 short programs in Python yesterday."}`)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, "<html><head><style>p{}</style></head><body><p>Penguins huddle to keep warm.</p></body></html>")
	})
	mux.HandleFunc("/api/images/get", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "xml", r.URL.Query().Get("format"))
		fmt.Fprint(w, catXML)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newRegistry(t *testing.T, base string) *cmd.Registry {
	t.Helper()
	reg := cmd.NewRegistry()
	Register(reg, httpfetch.New(2*time.Second, 50), Sources{Urban: base, XKCD: base, Penguin: base, Cat: base})
	return reg
}

func run(t *testing.T, reg *cmd.Registry, name string, args map[string]string, leftover ...string) (*command.Reply, error) {
	t.Helper()
	c := reg.Get(name)
	require.NotNil(t, c, name)
	req := &command.Request{Args: args, Leftover: leftover}
	err := c.Run(context.Background(), &cmd.Invocation{Data: req})
	return req.Result, err
}

func TestParseUrban(t *testing.T) {
	d, ok := ParseUrban([]byte(urbanPage))
	require.True(t, ok)
	assert.Equal(t, "A bird that cannot fly.\nLives on ice.", d.Meaning)
	assert.Equal(t, "The penguin waddled.", d.Example)
	assert.Equal(t, "by pingu April 1, 2010", d.Contributor)

	_, ok = ParseUrban([]byte("<html></html>"))
	assert.False(t, ok)
}

func TestParseUrbanTruncatesMeaning(t *testing.T) {
	page := `<div class="meaning">` + strings.Repeat("a", 1500) + `</div><div class="example">e</div><div class="contributor">c</div>`
	d, ok := ParseUrban([]byte(page))
	require.True(t, ok)
	assert.Equal(t, strings.Repeat("a", 1000)+"...", d.Meaning)
}

func TestUrban(t *testing.T) {
	reg := newRegistry(t, newServer(t).URL)

	reply, err := run(t, reg, "urban", map[string]string{"phrase": "penguin"}, "bird")
	require.NoError(t, err)
	assert.Equal(t, ":mag:**penguin bird**: \nA bird that cannot fly.\nLives on ice.\n\n**Example**: \nThe penguin waddled.\n\n**~by pingu April 1, 2010**", reply.Content)
	assert.Equal(t, 20*time.Second, reply.DeleteAfter)

	for _, term := range []string{"empty", "missing"} {
		reply, err = run(t, reg, "urban", map[string]string{"phrase": term})
		require.NoError(t, err)
		assert.Equal(t, urbanMissing, reply.Content)
	}
}

func TestXKCD(t *testing.T) {
	reg := newRegistry(t, newServer(t).URL)

	reply, err := run(t, reg, "xkcd", map[string]string{"number": "353"})
	require.NoError(t, err)
	assert.Equal(t, ":mag:**Python**\nhttps://imgs.xkcd.com/python.png\nI wrote 20 short programs in Python yesterday.", reply.Content)

	reply, err = run(t, reg, "xkcd", map[string]string{"number": "3000"})
	require.NoError(t, err)
	assert.Equal(t, ":mag:**Latest**\nhttps://imgs.xkcd.com/latest.png\nnewest", reply.Content)

	reply, err = run(t, reg, "xkcd", map[string]string{"number": "abc"})
	require.NoError(t, err)
	assert.Equal(t, "You have to put a number!", reply.Content)

	for _, n := range []string{"0", "-3", "3001"} {
		reply, err = run(t, reg, "xkcd", map[string]string{"number": n})
		require.NoError(t, err)
		assert.Equal(t, "It has to be between 1 and 3000!", reply.Content)
	}
}

func TestXKCDUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := run(t, newRegistry(t, srv.URL), "xkcd", map[string]string{"number": "1"})
	var xe *command.ExtractionError
	require.True(t, errors.As(err, &xe))
	assert.Equal(t, "I couldn't reach xkcd.", xe.UserMessage())
}

func TestPenguin(t *testing.T) {
	reg := newRegistry(t, newServer(t).URL)

	reply, err := run(t, reg, "penguin", nil)
	require.NoError(t, err)
	assert.Equal(t, "Pingu pingu!\nPenguins huddle to keep warm.", reply.Content)
}

func TestCat(t *testing.T) {
	reg := newRegistry(t, newServer(t).URL)

	reply, err := run(t, reg, "cat", nil)
	require.NoError(t, err)
	assert.Equal(t, "Nyaa〜\nhttp://25.media.tumblr.com/cat.gif", reply.Content)
}

func TestCatFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	reply, err := run(t, newRegistry(t, srv.URL), "cat", nil)
	require.NoError(t, err)
	assert.Equal(t, noCats, reply.Content)

	_, ok := ParseCat([]byte("<response><data/></response>"))
	assert.False(t, ok)
}
