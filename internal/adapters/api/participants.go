package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
)

type participantList struct {
	Participants []domain.Participant `json:"participants"`
}

func (c *Client) Participants(ctx context.Context, slug domain.RoomSlug) ([]domain.Participant, error) {
	var out participantList
	if err := c.do(ctx, "participants.list", http.MethodGet, "/participants/"+string(slug), nil, &out); err != nil {
		return nil, err
	}
	return out.Participants, nil
}

type joinIn struct {
	RoomSlug  domain.RoomSlug `json:"room_slug" validate:"required"`
	UserID    domain.UserID   `json:"user_id" validate:"required"`
	InviteKey string          `json:"invite_key,omitempty"`
}

func (c *Client) Join(ctx context.Context, req core.JoinRequest) (domain.Participant, error) {
	in := joinIn{RoomSlug: req.RoomSlug, UserID: req.UserID, InviteKey: req.InviteKey}
	if err := validate.Struct(in); err != nil {
		return domain.Participant{}, fmt.Errorf("participants.join: %w", err)
	}
	var out domain.Participant
	err := c.do(ctx, "participants.join", http.MethodPost, "/participants/join", in, &out)
	return out, err
}

type leaveIn struct {
	RoomSlug domain.RoomSlug `json:"room_slug"`
	UserID   domain.UserID   `json:"user_id"`
}

func (c *Client) Leave(ctx context.Context, slug domain.RoomSlug, user domain.UserID) error {
	return c.do(ctx, "participants.leave", http.MethodPost, "/participants/leave", leaveIn{RoomSlug: slug, UserID: user}, nil)
}

func (c *Client) Heartbeat(ctx context.Context, slug domain.RoomSlug, user domain.UserID) (domain.Participant, error) {
	var out domain.Participant
	err := c.do(ctx, "participants.heartbeat", http.MethodPost, "/participants/heartbeat", leaveIn{RoomSlug: slug, UserID: user}, &out)
	return out, err
}
