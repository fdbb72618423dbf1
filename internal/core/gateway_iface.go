package core

import (
	"context"

	"github.com/dkeye/Huddle/internal/domain"
)

// JoinRequest carries the join-room inputs; InviteKey is only required
// for private rooms the caller does not own.
type JoinRequest struct {
	RoomSlug  domain.RoomSlug
	UserID    domain.UserID
	InviteKey string
}

// CreateRoomRequest mirrors the backend create contract.
type CreateRoomRequest struct {
	Title        string
	IsPrivate    bool
	CreateInvite bool
	CreatedBy    domain.UserID
}

// ICEServer is part of the provider bootstrap config; the media wire
// protocol itself stays opaque.
type ICEServer struct {
	URLs       string `json:"urls"`
	Username   string `json:"username,omitempty"`
	Credential string `json:"credential,omitempty"`
}

// RoomGateway is the typed wrapper around the backend HTTP contract.
// Every call is independently retryable by the caller; implementations
// never retry and surface a *Failure classification instead.
type RoomGateway interface {
	Room(ctx context.Context, slug domain.RoomSlug) (domain.Room, error)
	CreateRoom(ctx context.Context, req CreateRoomRequest) (domain.Room, error)

	Participants(ctx context.Context, slug domain.RoomSlug) ([]domain.Participant, error)
	Join(ctx context.Context, req JoinRequest) (domain.Participant, error)
	Leave(ctx context.Context, slug domain.RoomSlug, user domain.UserID) error
	Heartbeat(ctx context.Context, slug domain.RoomSlug, user domain.UserID) (domain.Participant, error)

	State(ctx context.Context, slug domain.RoomSlug) (domain.RoomState, error)
	SetState(ctx context.Context, slug domain.RoomSlug, field domain.StateField, value any) (domain.RoomState, error)

	MediaToken(ctx context.Context, username string, slug domain.RoomSlug) (domain.MediaToken, error)
	RTCConfig(ctx context.Context) ([]ICEServer, error)

	ChatHistory(ctx context.Context, slug domain.RoomSlug, limit int) ([]domain.ChatMessage, error)
	SendChat(ctx context.Context, slug domain.RoomSlug, user domain.UserID, text string) (domain.ChatMessage, error)

	// Moderation, owner-gated server-side.
	PromoteAdmin(ctx context.Context, slug domain.RoomSlug, actor, target domain.UserID) error
	DemoteAdmin(ctx context.Context, slug domain.RoomSlug, actor, target domain.UserID) error
	ForceMute(ctx context.Context, slug domain.RoomSlug, actor, target domain.UserID, muted bool) error
	Kick(ctx context.Context, slug domain.RoomSlug, actor, target domain.UserID) error
}

// AuthGateway is the slice of the contract the login flow needs.
type AuthGateway interface {
	CreateGuest(ctx context.Context, nickname string) (domain.UserID, error)
	GuestToken(ctx context.Context, user domain.UserID) (string, error)
}
