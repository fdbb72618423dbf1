package orch

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"

	"github.com/dkeye/Huddle/internal/app"
	"github.com/dkeye/Huddle/internal/core"
)

// Start runs the visit entry sequence: local auth check, the room
// fetch, then the roster/state/token/chat fan-out. Only the room fetch
// is fatal; every secondary panel degrades in isolation.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	if o.state != StateIdle {
		o.mu.Unlock()
		return ErrVisitStarted
	}
	o.state = StateAuthChecking
	o.mu.Unlock()
	o.notify()

	id, ok := o.ids.Current()
	if !ok {
		// Terminal redirect, handled by the routing collaborator.
		// No gateway call has been made.
		o.mu.Lock()
		o.state = StateIdle
		o.mu.Unlock()
		o.notify()
		return core.ErrAuthMissing
	}

	visitCtx, cancel := context.WithCancel(ctx)
	o.mu.Lock()
	o.identity = id
	o.visitCtx = visitCtx
	o.cancelVisit = cancel
	o.state = StateLoading
	o.mu.Unlock()
	o.notify()

	room, err := o.gw.Room(visitCtx, o.slug)
	if err != nil {
		o.mu.Lock()
		o.state = StateError
		o.loadErr = err
		o.mu.Unlock()
		o.notify()
		log.Warn().Err(err).Str("module", "app.orch").Str("room", string(o.slug)).Msg("room load failed")
		return err
	}

	o.mu.Lock()
	o.room = room
	o.mu.Unlock()

	// The secondary fetches race concurrently to minimize time to
	// interactive; no all-or-nothing join.
	var wg conc.WaitGroup
	wg.Go(func() { o.loadRoster(visitCtx) })
	wg.Go(func() { o.loadState(visitCtx) })
	wg.Go(func() { o.loadToken(visitCtx) })
	wg.Go(func() { _ = o.chat.Refresh(visitCtx) })
	wg.Wait()

	// A reopened visit can land with the membership still active; keep
	// it marked online without requiring a fresh join.
	if app.IsParticipant(o.roster.Snapshot(), id.UserID) {
		o.startHeartbeat()
	}

	o.mu.Lock()
	o.state = StateReady
	o.mu.Unlock()
	o.notify()
	log.Info().Str("module", "app.orch").Str("visit", o.visitID).Str("room", string(o.slug)).Msg("visit ready")
	return nil
}

func (o *Orchestrator) loadRoster(ctx context.Context) {
	items, err := o.gw.Participants(ctx, o.slug)
	if err != nil {
		log.Warn().Err(err).Str("module", "app.orch").Str("room", string(o.slug)).Msg("roster degraded to empty")
		o.roster.Clear()
		return
	}
	o.roster.Replace(items)
}

func (o *Orchestrator) loadState(ctx context.Context) {
	st, err := o.gw.State(ctx, o.slug)
	if err != nil {
		log.Warn().Err(err).Str("module", "app.orch").Str("room", string(o.slug)).Msg("room state degraded to defaults")
		o.roomState.Clear()
		return
	}
	o.roomState.Replace(st)
}

func (o *Orchestrator) loadToken(ctx context.Context) {
	o.mu.Lock()
	username := o.identity.Nickname
	o.mu.Unlock()

	tok, err := o.gw.MediaToken(ctx, username, o.slug)
	if err != nil {
		log.Warn().Err(err).Str("module", "app.orch").Str("room", string(o.slug)).Msg("media token unavailable, connect disabled")
		return
	}
	o.mu.Lock()
	o.token = tok
	o.tokenConsumed = false
	o.mu.Unlock()
}

// Refresh re-fetches roster and state on demand; drift caused by other
// users is only observed here. A missing token is re-requested too.
func (o *Orchestrator) Refresh(ctx context.Context) {
	o.mu.Lock()
	if o.state != StateReady {
		o.mu.Unlock()
		return
	}
	needToken := o.token == ""
	o.mu.Unlock()

	var wg conc.WaitGroup
	wg.Go(func() { o.loadRoster(ctx) })
	wg.Go(func() { o.loadState(ctx) })
	if needToken {
		wg.Go(func() { o.loadToken(ctx) })
	}
	wg.Wait()
	o.notify()
}
