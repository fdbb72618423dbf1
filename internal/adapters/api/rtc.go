package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
)

type tokenIn struct {
	Username string `json:"username" validate:"required"`
	RoomName string `json:"room_name" validate:"required"`
}

type tokenOut struct {
	Token string `json:"token"`
}

// MediaToken asks the backend to mint a provider credential bound to
// (username, room). Issued fresh for every (re)connection.
func (c *Client) MediaToken(ctx context.Context, username string, slug domain.RoomSlug) (domain.MediaToken, error) {
	in := tokenIn{Username: username, RoomName: string(slug)}
	if err := validate.Struct(in); err != nil {
		return "", fmt.Errorf("rtc.token: %w", err)
	}
	var out tokenOut
	if err := c.do(ctx, "rtc.token", http.MethodPost, "/rtc/token", in, &out); err != nil {
		return "", err
	}
	return domain.MediaToken(out.Token), nil
}

type rtcConfigOut struct {
	ICEServers []core.ICEServer `json:"iceServers"`
}

func (c *Client) RTCConfig(ctx context.Context) ([]core.ICEServer, error) {
	var out rtcConfigOut
	if err := c.do(ctx, "rtc.config", http.MethodGet, "/rtc/config", nil, &out); err != nil {
		return nil, err
	}
	return out.ICEServers, nil
}
