package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dkeye/Huddle/internal/domain"
)

type chatHistoryOut struct {
	Items   []domain.ChatMessage `json:"items"`
	HasMore bool                 `json:"has_more"`
}

func (c *Client) ChatHistory(ctx context.Context, slug domain.RoomSlug, limit int) ([]domain.ChatMessage, error) {
	var out chatHistoryOut
	path := fmt.Sprintf("/chat/%s?limit=%d", slug, limit)
	if err := c.do(ctx, "chat.history", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

type sendChatIn struct {
	UserID domain.UserID `json:"user_id" validate:"required"`
	Text   string        `json:"text" validate:"required,max=500"`
}

func (c *Client) SendChat(ctx context.Context, slug domain.RoomSlug, user domain.UserID, text string) (domain.ChatMessage, error) {
	if err := domain.ValidateMessageText(text); err != nil {
		return domain.ChatMessage{}, err
	}
	in := sendChatIn{UserID: user, Text: text}
	if err := validate.Struct(in); err != nil {
		return domain.ChatMessage{}, fmt.Errorf("chat.send: %w", err)
	}
	var out domain.ChatMessage
	err := c.do(ctx, "chat.send", http.MethodPost, "/chat/"+string(slug), in, &out)
	return out, err
}
