package orch

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Huddle/internal/app"
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
)

// Join adds the current user to the roster. Re-joining while already a
// member is accepted by the backend and leaves the roster unchanged.
func (o *Orchestrator) Join(ctx context.Context, inviteKey string) error {
	if err := o.begin("join"); err != nil {
		return err
	}
	defer o.end("join")

	o.mu.Lock()
	req := core.JoinRequest{RoomSlug: o.slug, UserID: o.identity.UserID, InviteKey: inviteKey}
	o.mu.Unlock()

	if _, err := o.gw.Join(ctx, req); err != nil {
		o.setNotice("join failed: " + err.Error())
		return err
	}
	o.loadRoster(ctx)
	o.startHeartbeat()
	o.notify()
	log.Info().Str("module", "app.orch").Str("room", string(o.slug)).Int64("user_id", int64(req.UserID)).Msg("joined room")
	return nil
}

// Leave removes the current user and forces any live media session
// back to idle.
func (o *Orchestrator) Leave(ctx context.Context) error {
	if err := o.begin("leave"); err != nil {
		return err
	}
	defer o.end("leave")

	o.mu.Lock()
	user := o.identity.UserID
	o.mu.Unlock()

	if err := o.gw.Leave(ctx, o.slug, user); err != nil {
		o.setNotice("leave failed: " + err.Error())
		return err
	}
	o.stopHeartbeat()
	o.DisconnectMedia()
	o.loadRoster(ctx)
	o.notify()
	log.Info().Str("module", "app.orch").Str("room", string(o.slug)).Int64("user_id", int64(user)).Msg("left room")
	return nil
}

func (o *Orchestrator) SetLocked(ctx context.Context, locked bool) error {
	return o.mutateState(ctx, domain.FieldLock, locked)
}

func (o *Orchestrator) SetMuteAll(ctx context.Context, muteAll bool) error {
	return o.mutateState(ctx, domain.FieldMuteAll, muteAll)
}

func (o *Orchestrator) SetTopic(ctx context.Context, topic string) error {
	return o.mutateState(ctx, domain.FieldTopic, topic)
}

// mutateState is the moderator-only call-through. The role gate here is
// the UI-affordance layer; the server stays authoritative. On any
// failure the local RoomState is left untouched.
func (o *Orchestrator) mutateState(ctx context.Context, field domain.StateField, value any) error {
	action := "state." + string(field)
	if err := o.begin(action); err != nil {
		return err
	}
	defer o.end(action)

	o.mu.Lock()
	user := o.identity.UserID
	o.mu.Unlock()
	if !o.moderator(user) {
		err := &core.Failure{Kind: core.FailurePermission, Op: action, Reason: "moderator_role_required"}
		o.setNotice(err.Error())
		return err
	}

	if _, err := o.gw.SetState(ctx, o.slug, field, value); err != nil {
		o.setNotice("state change failed: " + err.Error())
		return err
	}
	// Re-fetch after write; the read keeps the model authoritative.
	o.loadState(ctx)
	o.notify()
	return nil
}

func (o *Orchestrator) moderator(user domain.UserID) bool {
	return app.IsModerator(o.roster.Snapshot(), user)
}

// Moderation call-throughs, owner/admin-gated. Each refreshes the
// roster so the change is visible immediately.
func (o *Orchestrator) Promote(ctx context.Context, target domain.UserID) error {
	return o.moderate(ctx, "promote", target, o.gw.PromoteAdmin)
}

func (o *Orchestrator) Demote(ctx context.Context, target domain.UserID) error {
	return o.moderate(ctx, "demote", target, o.gw.DemoteAdmin)
}

func (o *Orchestrator) Kick(ctx context.Context, target domain.UserID) error {
	return o.moderate(ctx, "kick", target, o.gw.Kick)
}

func (o *Orchestrator) ForceMute(ctx context.Context, target domain.UserID, muted bool) error {
	wrapped := func(ctx context.Context, slug domain.RoomSlug, actor, target domain.UserID) error {
		return o.gw.ForceMute(ctx, slug, actor, target, muted)
	}
	return o.moderate(ctx, "force_mute", target, wrapped)
}

type moderationCall func(ctx context.Context, slug domain.RoomSlug, actor, target domain.UserID) error

func (o *Orchestrator) moderate(ctx context.Context, action string, target domain.UserID, call moderationCall) error {
	if err := o.begin("moderation." + action); err != nil {
		return err
	}
	defer o.end("moderation." + action)

	o.mu.Lock()
	actor := o.identity.UserID
	o.mu.Unlock()
	if !o.moderator(actor) {
		err := &core.Failure{Kind: core.FailurePermission, Op: "moderation." + action, Reason: "moderator_role_required"}
		o.setNotice(err.Error())
		return err
	}

	if err := call(ctx, o.slug, actor, target); err != nil {
		o.setNotice(action + " failed: " + err.Error())
		return err
	}
	o.loadRoster(ctx)
	o.notify()
	return nil
}

// startHeartbeat keeps the membership marked online while joined. It
// runs under the visit scope, so Close cancels it too.
func (o *Orchestrator) startHeartbeat() {
	o.mu.Lock()
	if o.stopBeat != nil || o.visitCtx == nil {
		o.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(o.visitCtx)
	o.stopBeat = cancel
	user := o.identity.UserID
	period := o.opts.HeartbeatPeriod
	o.mu.Unlock()

	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := o.gw.Heartbeat(ctx, o.slug, user); err != nil {
					log.Warn().Err(err).Str("module", "app.orch").Str("room", string(o.slug)).Msg("heartbeat failed")
				}
			}
		}
	}()
}

func (o *Orchestrator) stopHeartbeat() {
	o.mu.Lock()
	stop := o.stopBeat
	o.stopBeat = nil
	o.mu.Unlock()
	if stop != nil {
		stop()
	}
}
