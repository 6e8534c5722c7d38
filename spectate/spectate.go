// Package spectate pushes each archived turn to a live viewer over a
// websocket. Writes are synchronous and bounded by a deadline so a slow
// viewer can cost at most that much of a tick.
package spectate

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Vinatorul/Coders-Of-The-Caribbean/store"
)

const (
	TypeTurn = "turn"
	TypeEnd  = "end"
)

// Envelope is the message sent for every event.
type Envelope struct {
	Type string         `json:"type"`
	Turn *store.TurnRow `json:"turn,omitempty"`
}

// DefaultWriteTimeout bounds one publish when Config leaves it unset. It is
// about half the default turn budget, so a stalled viewer cannot push the
// agent past its deadline but ordinary network jitter does not drop the feed.
const DefaultWriteTimeout = 25 * time.Millisecond

type Config struct {
	URL            string
	ConnectTimeout time.Duration
	WriteTimeout   time.Duration
}

type Publisher struct {
	conn         *websocket.Conn
	writeTimeout time.Duration
}

func Dial(ctx context.Context, cfg Config) (*Publisher, error) {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 2 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	dialer := websocket.Dialer{HandshakeTimeout: cfg.ConnectTimeout}
	conn, _, err := dialer.DialContext(ctx, cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("spectator dial %s: %w", cfg.URL, err)
	}
	return &Publisher{conn: conn, writeTimeout: cfg.WriteTimeout}, nil
}

// Publish sends one turn. After an error the publisher should be closed.
func (p *Publisher) Publish(row store.TurnRow) error {
	return p.send(Envelope{Type: TypeTurn, Turn: &row})
}

func (p *Publisher) send(env Envelope) error {
	if err := p.conn.SetWriteDeadline(time.Now().Add(p.writeTimeout)); err != nil {
		return err
	}
	if err := p.conn.WriteJSON(env); err != nil {
		return fmt.Errorf("spectator write: %w", err)
	}
	return nil
}

// Close announces the end of the match and closes the connection.
func (p *Publisher) Close() error {
	_ = p.send(Envelope{Type: TypeEnd})
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "match over")
	_ = p.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(p.writeTimeout))
	return p.conn.Close()
}
