package orch

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Huddle/internal/app"
)

var (
	ErrNotMember = errors.New("connect requires current roster membership")
	ErrNoToken   = errors.New("no media token available")
)

// ConnectMedia transitions MediaIdle → MediaConnecting → MediaConnected.
// A token consumed by an earlier connection is never reused: the
// orchestrator re-issues one before dialing again.
func (o *Orchestrator) ConnectMedia(ctx context.Context) error {
	if err := o.begin("media.connect"); err != nil {
		return err
	}
	defer o.end("media.connect")

	o.mu.Lock()
	if o.mediaState != MediaIdle {
		// Repeated invocation while connecting/connected is a no-op.
		o.mu.Unlock()
		return nil
	}
	user := o.identity.UserID
	username := o.identity.Nickname
	token := o.token
	consumed := o.tokenConsumed
	o.mu.Unlock()

	if !app.IsParticipant(o.roster.Snapshot(), user) {
		o.setNotice("join the room before connecting")
		return ErrNotMember
	}
	if token == "" {
		o.setNotice("media token unavailable")
		return ErrNoToken
	}

	if consumed {
		fresh, err := o.gw.MediaToken(ctx, username, o.slug)
		if err != nil {
			o.setNotice("media token refresh failed: " + err.Error())
			return err
		}
		o.mu.Lock()
		o.token = fresh
		o.tokenConsumed = false
		token = fresh
		o.mu.Unlock()
	}

	o.mu.Lock()
	o.mediaState = MediaConnecting
	o.mu.Unlock()
	o.notify()

	sess, err := o.dialer.Dial(ctx, token)
	if err != nil {
		o.mu.Lock()
		o.mediaState = MediaIdle
		o.mu.Unlock()
		o.setNotice("media connect failed: " + err.Error())
		return err
	}

	o.mu.Lock()
	o.session = sess
	o.tokenConsumed = true
	o.mediaState = MediaConnected
	o.mu.Unlock()
	sess.OnClosed(o.onMediaClosed)
	o.notify()
	log.Info().Str("module", "app.orch").Str("visit", o.visitID).Str("room", string(o.slug)).Msg("media connected")
	return nil
}

// DisconnectMedia is idempotent; the provider close callback performs
// the actual state reset.
func (o *Orchestrator) DisconnectMedia() {
	o.mu.Lock()
	sess := o.session
	o.mu.Unlock()
	if sess != nil {
		sess.Close()
	}
	o.onMediaClosed()
}

// onMediaClosed handles both user-initiated and provider-reported
// disconnects.
func (o *Orchestrator) onMediaClosed() {
	o.mu.Lock()
	changed := o.mediaState != MediaIdle || o.session != nil
	o.session = nil
	o.mediaState = MediaIdle
	o.mu.Unlock()

	if changed {
		o.notify()
		log.Info().Str("module", "app.orch").Str("visit", o.visitID).Str("room", string(o.slug)).Msg("media disconnected")
	}
}
