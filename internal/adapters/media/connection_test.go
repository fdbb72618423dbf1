package media_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Huddle/internal/adapters/media"
	"github.com/dkeye/Huddle/internal/core"
)

type provider struct {
	srv      *httptest.Server
	tokens   chan string
	shutdown chan struct{}
}

// newProvider runs a websocket endpoint that records the presented
// access token and holds the connection open until told to drop it.
func newProvider(t *testing.T) *provider {
	t.Helper()
	p := &provider{
		tokens:   make(chan string, 4),
		shutdown: make(chan struct{}),
	}
	upgrader := websocket.Upgrader{}
	p.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.tokens <- r.URL.Query().Get("access_token")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
		<-p.shutdown
		_ = conn.Close()
	}))
	t.Cleanup(p.srv.Close)
	return p
}

func (p *provider) wsURL() string {
	return "ws" + strings.TrimPrefix(p.srv.URL, "http")
}

func TestDialPresentsToken(t *testing.T) {
	p := newProvider(t)
	defer close(p.shutdown)

	sess, err := media.NewDialer(p.wsURL()).Dial(context.Background(), "tok-abc")
	require.NoError(t, err)
	defer sess.Close()

	select {
	case tok := <-p.tokens:
		assert.Equal(t, "tok-abc", tok)
	case <-time.After(time.Second):
		t.Fatal("provider never saw the handshake")
	}
	assert.False(t, sess.IsClosed())
}

func TestDialFailureClassifiedAsNetwork(t *testing.T) {
	_, err := media.NewDialer("ws://127.0.0.1:1/rtc").Dial(context.Background(), "tok")
	require.Error(t, err)
	k, ok := core.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, core.FailureNetwork, k)
}

func TestProviderCloseFiresCallbackOnce(t *testing.T) {
	p := newProvider(t)

	sess, err := media.NewDialer(p.wsURL()).Dial(context.Background(), "tok")
	require.NoError(t, err)

	fired := make(chan struct{}, 4)
	sess.OnClosed(func() { fired <- struct{}{} })

	close(p.shutdown)

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("close callback never fired")
	}
	assert.True(t, sess.IsClosed())

	select {
	case <-fired:
		t.Fatal("close callback fired more than once")
	case <-time.After(50 * time.Millisecond):
	}

	// Closing after the provider already dropped us is a no-op.
	sess.Close()
}

func TestCallbackRegisteredAfterCloseFiresImmediately(t *testing.T) {
	p := newProvider(t)

	sess, err := media.NewDialer(p.wsURL()).Dial(context.Background(), "tok")
	require.NoError(t, err)

	// Provider drops the connection before anyone registers a callback.
	close(p.shutdown)
	require.Eventually(t, sess.IsClosed, time.Second, 5*time.Millisecond)

	fired := false
	sess.OnClosed(func() { fired = true })
	assert.True(t, fired, "late registration must still observe the disconnect")
}

func TestCloseIsIdempotent(t *testing.T) {
	p := newProvider(t)
	defer close(p.shutdown)

	sess, err := media.NewDialer(p.wsURL()).Dial(context.Background(), "tok")
	require.NoError(t, err)

	sess.Close()
	assert.True(t, sess.IsClosed())
	sess.Close()
	assert.True(t, sess.IsClosed())
}

func TestDialRejectsBadURL(t *testing.T) {
	_, err := media.NewDialer("://not-a-url").Dial(context.Background(), "tok")
	require.Error(t, err)
}
