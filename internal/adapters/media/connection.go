// Package media hands the issued token to the external real-time media
// provider and tracks the connection lifetime. The provider's media
// wire protocol is its own business; only connect/disconnect is modeled.
package media

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
)

const writeDeadline = 5 * time.Second

type Dialer struct {
	providerURL string
}

func NewDialer(providerURL string) *Dialer {
	return &Dialer{providerURL: providerURL}
}

var _ core.MediaDialer = (*Dialer)(nil)

// Dial opens the provider session authorized by token. The session is
// confirmed once the websocket handshake completes.
func (d *Dialer) Dial(ctx context.Context, token domain.MediaToken) (core.MediaSession, error) {
	u, err := url.Parse(d.providerURL)
	if err != nil {
		return nil, fmt.Errorf("media: bad provider url: %w", err)
	}
	q := u.Query()
	q.Set("access_token", string(token))
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, &core.Failure{Kind: core.FailureNetwork, Op: "media.dial", Err: err}
	}

	s := &Session{conn: conn}
	go s.readPump()
	log.Info().Str("module", "adapters.media").Str("provider", u.Host).Msg("media session connected")
	return s, nil
}

// Session is one live provider connection. Owned by the orchestrator,
// which must Close() it.
type Session struct {
	conn *websocket.Conn

	mu       sync.Mutex
	closed   bool
	onClosed func()
}

// OnClosed registers the disconnect callback. A session that already
// closed fires it immediately, so a provider dropping the connection
// right after the handshake is never missed.
func (s *Session) OnClosed(fn func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		fn()
		return
	}
	s.onClosed = fn
	s.mu.Unlock()
}

func (s *Session) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	_ = s.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	_ = s.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
	_ = s.conn.Close()
}

// readPump drains provider frames until the peer goes away, then fires
// the close callback exactly once.
func (s *Session) readPump() {
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			break
		}
	}

	s.mu.Lock()
	alreadyClosed := s.closed
	s.closed = true
	fn := s.onClosed
	s.mu.Unlock()

	if !alreadyClosed {
		_ = s.conn.Close()
		log.Info().Str("module", "adapters.media").Msg("media session closed by provider")
	}
	if fn != nil {
		fn()
	}
}
