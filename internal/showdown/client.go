// Package showdown implements a client for the Pokemon Showdown simulator
// protocol: the websocket transport, the pipe-delimited message stream, and
// a per-room battle tracker that feeds the learning loop.
package showdown

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/alejimart06/Pokemon-Showdown-RL-Bot/internal/dex"
)

// Message is one protocol line attributed to its room. Lines outside any
// room (login, popups) carry an empty Room.
type Message struct {
	Room string
	Line string
}

// Client is a websocket client for one Showdown account.
type Client struct {
	serverURL string
	loginURL  string
	username  string
	password  string

	conn     *websocket.Conn
	httpC    *http.Client
	messages chan Message
	loggedIn chan struct{}
	once     sync.Once

	mu     sync.Mutex
	closed bool
}

// NewClient creates a client for the given simulator and login endpoints.
func NewClient(serverURL, loginURL, username, password string) *Client {
	return &Client{
		serverURL: serverURL,
		loginURL:  loginURL,
		username:  username,
		password:  password,
		httpC:     &http.Client{Timeout: 30 * time.Second},
		messages:  make(chan Message, 256),
		loggedIn:  make(chan struct{}),
	}
}

// Username returns the account name.
func (c *Client) Username() string { return c.username }

// Connect dials the simulator and starts the read loop. The login handshake
// (challstr exchange) runs automatically; use WaitLogin to block on it.
func (c *Client) Connect() error {
	conn, _, err := websocket.DefaultDialer.Dial(c.serverURL, nil)
	if err != nil {
		return fmt.Errorf("ws dial %s: %w", c.serverURL, err)
	}
	c.conn = conn
	go c.readLoop()
	return nil
}

// WaitLogin blocks until the server confirms the name registration.
func (c *Client) WaitLogin(timeout time.Duration) error {
	select {
	case <-c.loggedIn:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("login as %s timed out after %s", c.username, timeout)
	}
}

// Messages returns the stream of incoming protocol lines. The channel is
// closed when the connection drops.
func (c *Client) Messages() <-chan Message { return c.messages }

// Send writes a raw command into a room. An empty room targets the lobby.
func (c *Client) Send(room, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("connection closed")
	}
	return c.conn.WriteMessage(websocket.TextMessage, []byte(room+"|"+text))
}

// Search queues for a ladder battle in the given format.
func (c *Client) Search(format string) error {
	return c.Send("", "/search "+format)
}

// CancelSearch leaves the matchmaking queue.
func (c *Client) CancelSearch() error {
	return c.Send("", "/cancelsearch")
}

// Challenge sends a direct challenge to a user.
func (c *Client) Challenge(user, format string) error {
	return c.Send("", "/challenge "+user+", "+format)
}

// AcceptChallenge accepts a pending challenge from a user.
func (c *Client) AcceptChallenge(user string) error {
	return c.Send("", "/accept "+user)
}

// Choose submits a battle decision ("move 1", "switch 3") for a room.
func (c *Client) Choose(room, choice string, rqid int) error {
	return c.Send(room, fmt.Sprintf("/choose %s|%d", choice, rqid))
}

// Forfeit concedes a battle.
func (c *Client) Forfeit(room string) error {
	return c.Send(room, "/forfeit")
}

// LeaveRoom leaves a room after the battle.
func (c *Client) LeaveRoom(room string) error {
	return c.Send("", "/leave "+room)
}

// Close shuts the connection down.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil && !c.closed {
		c.closed = true
		c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.conn.Close()
	}
}

// readLoop splits incoming frames into room-attributed lines. A frame may
// open with a ">roomid" header; every line after it belongs to that room.
func (c *Client) readLoop() {
	defer close(c.messages)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			closed := c.closed
			c.mu.Unlock()
			if !closed {
				log.Warn().Err(err).Str("user", c.username).Msg("WS read error")
			}
			return
		}
		room := ""
		for _, line := range strings.Split(string(data), "\n") {
			if line == "" {
				continue
			}
			if strings.HasPrefix(line, ">") {
				room = line[1:]
				continue
			}
			c.dispatch(room, line)
		}
	}
}

func (c *Client) dispatch(room, line string) {
	parts := strings.SplitN(line, "|", 4)
	if len(parts) >= 2 {
		switch parts[1] {
		case "challstr":
			challstr := strings.TrimPrefix(line, "|challstr|")
			go func() {
				if err := c.login(challstr); err != nil {
					log.Error().Err(err).Str("user", c.username).Msg("Login failed")
				}
			}()
			return
		case "updateuser":
			if len(parts) >= 3 && strings.TrimSpace(strings.TrimPrefix(parts[2], " ")) == c.username {
				c.once.Do(func() { close(c.loggedIn) })
			}
			return
		}
	}
	c.messages <- Message{Room: room, Line: line}
}

// login exchanges the server challenge for an assertion and registers the
// name. Accounts without a password use the guest assertion endpoint.
func (c *Client) login(challstr string) error {
	form := url.Values{}
	if c.password == "" {
		form.Set("act", "getassertion")
		form.Set("userid", dex.ToID(c.username))
		form.Set("challstr", challstr)
	} else {
		form.Set("act", "login")
		form.Set("name", c.username)
		form.Set("pass", c.password)
		form.Set("challstr", challstr)
	}

	resp, err := c.httpC.PostForm(c.loginURL, form)
	if err != nil {
		return fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read login response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("login status %d: %s", resp.StatusCode, body)
	}

	assertion := string(body)
	if c.password != "" {
		// Password logins reply with "]" followed by a JSON envelope.
		var payload struct {
			Assertion string `json:"assertion"`
		}
		if err := json.Unmarshal([]byte(strings.TrimPrefix(assertion, "]")), &payload); err != nil {
			return fmt.Errorf("decode login response: %w", err)
		}
		assertion = payload.Assertion
	}
	if assertion == "" || strings.HasPrefix(assertion, ";") {
		return fmt.Errorf("login rejected for %s", c.username)
	}

	log.Debug().Str("user", c.username).Msg("Login assertion obtained")
	return c.Send("", "/trn "+c.username+",0,"+assertion)
}
