// Package orch coordinates one room visit: identity check, the
// room/roster/state/token load fan-out, join/leave and moderator
// actions, and the media-session connect/disconnect lifecycle.
package orch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Huddle/internal/app"
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
)

type VisitState int

const (
	StateIdle VisitState = iota
	StateAuthChecking
	StateLoading
	StateReady
	// StateError is terminal for the visit; the only recovery is
	// navigating away.
	StateError
)

func (s VisitState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAuthChecking:
		return "auth_checking"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	}
	return "unknown"
}

type MediaState int

const (
	MediaIdle MediaState = iota
	MediaConnecting
	MediaConnected
)

func (s MediaState) String() string {
	switch s {
	case MediaIdle:
		return "idle"
	case MediaConnecting:
		return "connecting"
	case MediaConnected:
		return "connected"
	}
	return "unknown"
}

var (
	ErrVisitStarted = errors.New("visit already started")
	ErrNotReady     = errors.New("visit not ready")
)

type Options struct {
	HeartbeatPeriod time.Duration
	ChatPageSize    int
}

// Orchestrator exclusively owns Room, Roster, RoomState and MediaToken
// for the lifetime of one room visit. Identity is read-only here.
type Orchestrator struct {
	gw     core.RoomGateway
	ids    core.IdentityProvider
	dialer core.MediaDialer

	slug    domain.RoomSlug
	visitID string
	opts    Options

	roster    *app.Roster
	roomState *app.RoomStateModel
	chat      *app.ChatSession

	mu       sync.Mutex
	state    VisitState
	loadErr  error
	notice   string
	room     domain.Room
	identity domain.Identity

	token         domain.MediaToken
	tokenConsumed bool
	mediaState    MediaState
	session       core.MediaSession

	visitCtx    context.Context
	cancelVisit context.CancelFunc
	stopBeat    context.CancelFunc

	inflight map[string]bool

	subMu sync.Mutex
	subs  map[int]func()
	nextS int
}

func New(gw core.RoomGateway, ids core.IdentityProvider, dialer core.MediaDialer, slug domain.RoomSlug, opts Options) *Orchestrator {
	if opts.HeartbeatPeriod <= 0 {
		opts.HeartbeatPeriod = 30 * time.Second
	}
	o := &Orchestrator{
		gw:        gw,
		ids:       ids,
		dialer:    dialer,
		slug:      slug,
		visitID:   uuid.NewString(),
		opts:      opts,
		roster:    app.NewRoster(),
		roomState: app.NewRoomStateModel(),
		inflight:  make(map[string]bool),
		subs:      make(map[int]func()),
	}
	o.chat = app.NewChatSession(gw, slug, opts.ChatPageSize, func() bool {
		return o.CurrentMediaState() == MediaConnected
	})
	return o
}

// Chat exposes the visit's chat sub-session.
func (o *Orchestrator) Chat() *app.ChatSession { return o.chat }

// Snapshot is the immutable view the UI renders from. Membership and
// role predicates are recomputed from the raw roster on every call.
type Snapshot struct {
	State       VisitState
	Err         error
	Notice      string
	Room        domain.Room
	Identity    domain.Identity
	Roster      []domain.Participant
	RoomState   domain.RoomState
	StateLoaded bool
	MediaState  MediaState

	IsParticipant bool
	IsModerator   bool
	// CanConnect: current roster member holding a non-empty token.
	CanConnect bool
}

func (o *Orchestrator) Snapshot() Snapshot {
	roster := o.roster.Snapshot()

	o.mu.Lock()
	defer o.mu.Unlock()

	isMember := app.IsParticipant(roster, o.identity.UserID)
	return Snapshot{
		State:         o.state,
		Err:           o.loadErr,
		Notice:        o.notice,
		Room:          o.room,
		Identity:      o.identity,
		Roster:        roster,
		RoomState:     o.roomState.Snapshot(),
		StateLoaded:   o.roomState.Loaded(),
		MediaState:    o.mediaState,
		IsParticipant: isMember,
		IsModerator:   app.IsModerator(roster, o.identity.UserID),
		CanConnect:    isMember && o.token != "" && o.mediaState == MediaIdle,
	}
}

func (o *Orchestrator) CurrentMediaState() MediaState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.mediaState
}

// OnChange registers a callback fired after every state transition or
// panel replacement. Returns an unsubscribe func.
func (o *Orchestrator) OnChange(fn func()) func() {
	o.subMu.Lock()
	id := o.nextS
	o.nextS++
	o.subs[id] = fn
	o.subMu.Unlock()
	return func() {
		o.subMu.Lock()
		delete(o.subs, id)
		o.subMu.Unlock()
	}
}

func (o *Orchestrator) notify() {
	o.subMu.Lock()
	fns := make([]func(), 0, len(o.subs))
	for _, fn := range o.subs {
		fns = append(fns, fn)
	}
	o.subMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Notice surfacing: action failures are dismissible, never silent.
func (o *Orchestrator) setNotice(msg string) {
	o.mu.Lock()
	o.notice = msg
	o.mu.Unlock()
	o.notify()
}

func (o *Orchestrator) DismissNotice() { o.setNotice("") }

// begin latches one named mutating action until end releases it, so a
// rapid double invocation cannot issue duplicate requests.
func (o *Orchestrator) begin(action string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateReady {
		return ErrNotReady
	}
	if o.inflight[action] {
		return core.ErrActionInFlight
	}
	o.inflight[action] = true
	return nil
}

func (o *Orchestrator) end(action string) {
	o.mu.Lock()
	delete(o.inflight, action)
	o.mu.Unlock()
}

// Close tears the visit down: cancels outstanding work, stops the
// heartbeat and disconnects any live media session.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	cancel := o.cancelVisit
	stop := o.stopBeat
	sess := o.session
	o.session = nil
	o.mediaState = MediaIdle
	o.mu.Unlock()

	if stop != nil {
		stop()
	}
	if cancel != nil {
		cancel()
	}
	if sess != nil {
		sess.Close()
	}
	log.Info().Str("module", "app.orch").Str("visit", o.visitID).Str("room", string(o.slug)).Msg("visit closed")
}
