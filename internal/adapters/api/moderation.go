package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dkeye/Huddle/internal/domain"
)

type targetUserIn struct {
	UserID domain.UserID `json:"user_id"`
}

type forceMuteIn struct {
	UserID domain.UserID `json:"user_id"`
	Muted  bool          `json:"muted"`
}

func (c *Client) moderate(ctx context.Context, op, action string, slug domain.RoomSlug, actor domain.UserID, in any) error {
	path := fmt.Sprintf("/moderation/%s/%s?actor_user_id=%d", slug, action, actor)
	return c.do(ctx, op, http.MethodPost, path, in, nil)
}

func (c *Client) PromoteAdmin(ctx context.Context, slug domain.RoomSlug, actor, target domain.UserID) error {
	return c.moderate(ctx, "moderation.promote", "promote_admin", slug, actor, targetUserIn{UserID: target})
}

func (c *Client) DemoteAdmin(ctx context.Context, slug domain.RoomSlug, actor, target domain.UserID) error {
	return c.moderate(ctx, "moderation.demote", "demote_admin", slug, actor, targetUserIn{UserID: target})
}

func (c *Client) ForceMute(ctx context.Context, slug domain.RoomSlug, actor, target domain.UserID, muted bool) error {
	return c.moderate(ctx, "moderation.force_mute", "force_mute", slug, actor, forceMuteIn{UserID: target, Muted: muted})
}

func (c *Client) Kick(ctx context.Context, slug domain.RoomSlug, actor, target domain.UserID) error {
	return c.moderate(ctx, "moderation.kick", "kick", slug, actor, targetUserIn{UserID: target})
}
