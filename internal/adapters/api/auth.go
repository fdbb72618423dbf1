package api

import (
	"context"
	"net/http"

	"github.com/dkeye/Huddle/internal/domain"
)

type createUserIn struct {
	Nickname string `json:"nickname"`
}

type userOut struct {
	ID       domain.UserID `json:"id"`
	Nickname string        `json:"nickname"`
}

func (c *Client) CreateGuest(ctx context.Context, nickname string) (domain.UserID, error) {
	if err := domain.ValidateNickname(nickname); err != nil {
		return 0, err
	}
	var out userOut
	if err := c.do(ctx, "users.create", http.MethodPost, "/users", createUserIn{Nickname: nickname}, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

type guestTokenIn struct {
	UserID domain.UserID `json:"user_id"`
}

type guestTokenOut struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func (c *Client) GuestToken(ctx context.Context, user domain.UserID) (string, error) {
	var out guestTokenOut
	if err := c.do(ctx, "auth.guest_token", http.MethodPost, "/auth/token/guest", guestTokenIn{UserID: user}, &out); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}
