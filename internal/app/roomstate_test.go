package app_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dkeye/Huddle/internal/app"
	"github.com/dkeye/Huddle/internal/domain"
)

func TestRoomStateModel(t *testing.T) {
	m := app.NewRoomStateModel()
	assert.False(t, m.Loaded())
	assert.Equal(t, domain.RoomState{RaisedHands: []domain.UserID{}}, withEmptyHands(m.Snapshot()))

	m.Replace(domain.RoomState{
		RoomSlug:    "team-standup",
		Topic:       "quarterly goals",
		IsLocked:    true,
		OnlineCount: 4,
		RaisedHands: []domain.UserID{3},
	})
	assert.True(t, m.Loaded())
	snap := m.Snapshot()
	assert.True(t, snap.IsLocked)
	assert.Equal(t, "quarterly goals", snap.Topic)

	// The snapshot owns its raised-hands slice.
	snap.RaisedHands[0] = 99
	assert.Equal(t, domain.UserID(3), m.Snapshot().RaisedHands[0])

	m.Clear()
	assert.False(t, m.Loaded())
	assert.False(t, m.Snapshot().IsLocked)
}

func withEmptyHands(s domain.RoomState) domain.RoomState {
	if s.RaisedHands == nil {
		s.RaisedHands = []domain.UserID{}
	}
	return s
}
