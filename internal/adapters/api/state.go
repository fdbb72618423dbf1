package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dkeye/Huddle/internal/domain"
)

func (c *Client) State(ctx context.Context, slug domain.RoomSlug) (domain.RoomState, error) {
	var out domain.RoomState
	err := c.do(ctx, "state.get", http.MethodGet, "/state/"+string(slug), nil, &out)
	return out, err
}

type toggleIn struct {
	Value bool `json:"value"`
}

type topicIn struct {
	Topic string `json:"topic"`
}

// SetState mutates one of the moderator-only fields. The field set is
// closed: lock and mute_all take a bool, topic takes a string.
func (c *Client) SetState(ctx context.Context, slug domain.RoomSlug, field domain.StateField, value any) (domain.RoomState, error) {
	op := "state.set." + string(field)
	var in any
	switch field {
	case domain.FieldLock, domain.FieldMuteAll:
		v, ok := value.(bool)
		if !ok {
			return domain.RoomState{}, fmt.Errorf("%s: value must be bool, got %T", op, value)
		}
		in = toggleIn{Value: v}
	case domain.FieldTopic:
		v, ok := value.(string)
		if !ok {
			return domain.RoomState{}, fmt.Errorf("%s: value must be string, got %T", op, value)
		}
		in = topicIn{Topic: v}
	default:
		return domain.RoomState{}, fmt.Errorf("%s: unknown state field", op)
	}

	var out domain.RoomState
	err := c.do(ctx, op, http.MethodPost, "/state/"+string(slug)+"/"+string(field), in, &out)
	return out, err
}
