package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
)

func (c *Client) Room(ctx context.Context, slug domain.RoomSlug) (domain.Room, error) {
	var out domain.Room
	err := c.do(ctx, "room.get", http.MethodGet, "/rooms/"+string(slug), nil, &out)
	return out, err
}

type createRoomIn struct {
	Title        string        `json:"title" validate:"required,max=120"`
	IsPrivate    bool          `json:"is_private"`
	CreateInvite bool          `json:"create_invite"`
	CreatedBy    domain.UserID `json:"created_by" validate:"required"`
}

func (c *Client) CreateRoom(ctx context.Context, req core.CreateRoomRequest) (domain.Room, error) {
	in := createRoomIn{
		Title:        req.Title,
		IsPrivate:    req.IsPrivate,
		CreateInvite: req.CreateInvite,
		CreatedBy:    req.CreatedBy,
	}
	if err := validate.Struct(in); err != nil {
		return domain.Room{}, fmt.Errorf("room.create: %w", err)
	}
	var out domain.Room
	err := c.do(ctx, "room.create", http.MethodPost, "/rooms", in, &out)
	return out, err
}
