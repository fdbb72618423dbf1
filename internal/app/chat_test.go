package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Huddle/internal/app"
	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
)

type fakeChatGateway struct {
	historyCalls int
	sendCalls    int
	history      []domain.ChatMessage
	historyErr   error
	sendErr      error
	sendEntered  chan struct{}
	sendRelease  chan struct{}
}

func (f *fakeChatGateway) ChatHistory(ctx context.Context, slug domain.RoomSlug, limit int) ([]domain.ChatMessage, error) {
	f.historyCalls++
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	if len(f.history) > limit {
		return f.history[len(f.history)-limit:], nil
	}
	return f.history, nil
}

func (f *fakeChatGateway) SendChat(ctx context.Context, slug domain.RoomSlug, user domain.UserID, text string) (domain.ChatMessage, error) {
	f.sendCalls++
	if f.sendEntered != nil {
		f.sendEntered <- struct{}{}
		<-f.sendRelease
	}
	if f.sendErr != nil {
		return domain.ChatMessage{}, f.sendErr
	}
	m := domain.ChatMessage{
		ID:        domain.MessageID(len(f.history) + 1),
		RoomSlug:  slug,
		UserID:    user,
		Text:      text,
		CreatedAt: time.Now(),
	}
	f.history = append(f.history, m)
	return m, nil
}

func TestChatSendBlankTextMakesNoNetworkCall(t *testing.T) {
	gw := &fakeChatGateway{}
	s := app.NewChatSession(gw, "team-standup", 50, nil)

	assert.ErrorIs(t, s.Send(context.Background(), 1, ""), domain.ErrMessageBlank)
	assert.ErrorIs(t, s.Send(context.Background(), 1, "  \n "), domain.ErrMessageBlank)
	assert.Zero(t, gw.sendCalls)
	assert.Zero(t, gw.historyCalls)
}

func TestChatSendGatedOnMediaConnection(t *testing.T) {
	gw := &fakeChatGateway{}
	connected := false
	s := app.NewChatSession(gw, "team-standup", 50, func() bool { return connected })

	assert.ErrorIs(t, s.Send(context.Background(), 1, "hello"), app.ErrChatDisabled)
	assert.Zero(t, gw.sendCalls)

	connected = true
	require.NoError(t, s.Send(context.Background(), 1, "hello"))
	assert.Equal(t, 1, gw.sendCalls)
}

func TestChatSendDuplicateWhileInFlight(t *testing.T) {
	gw := &fakeChatGateway{
		sendEntered: make(chan struct{}),
		sendRelease: make(chan struct{}),
	}
	s := app.NewChatSession(gw, "team-standup", 50, nil)

	done := make(chan error, 1)
	go func() { done <- s.Send(context.Background(), 1, "first") }()
	<-gw.sendEntered

	assert.ErrorIs(t, s.Send(context.Background(), 1, "again"), core.ErrActionInFlight)

	close(gw.sendRelease)
	require.NoError(t, <-done)
	assert.Equal(t, 1, gw.sendCalls)

	// The latch releases once the first send settles.
	gw.sendEntered = nil
	require.NoError(t, s.Send(context.Background(), 1, "second"))
	assert.Equal(t, 2, gw.sendCalls)
}

func TestChatSendSuccessRefreshesFromServer(t *testing.T) {
	gw := &fakeChatGateway{}
	s := app.NewChatSession(gw, "team-standup", 50, nil)

	require.NoError(t, s.Send(context.Background(), 1, "first"))
	require.NoError(t, s.Send(context.Background(), 2, "second"))

	// One history fetch per successful send: no optimistic append.
	assert.Equal(t, 2, gw.historyCalls)
	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Text)
	assert.Equal(t, "second", msgs[1].Text)
}

func TestChatSendFailureKeepsList(t *testing.T) {
	gw := &fakeChatGateway{
		history: []domain.ChatMessage{{ID: 1, Text: "old", CreatedAt: time.Now()}},
	}
	s := app.NewChatSession(gw, "team-standup", 50, nil)
	require.NoError(t, s.Refresh(context.Background()))

	gw.sendErr = &core.Failure{Kind: core.FailureServer, Op: "chat.send", Status: 500}
	err := s.Send(context.Background(), 1, "new")
	require.Error(t, err)

	k, ok := core.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, core.FailureServer, k)
	require.Len(t, s.Messages(), 1)
	assert.Equal(t, "old", s.Messages()[0].Text)
}

func TestChatRefreshOrdersAndDeduplicates(t *testing.T) {
	base := time.Now()
	gw := &fakeChatGateway{
		history: []domain.ChatMessage{
			{ID: 3, Text: "third", CreatedAt: base.Add(2 * time.Second)},
			{ID: 1, Text: "first", CreatedAt: base},
			{ID: 3, Text: "third", CreatedAt: base.Add(2 * time.Second)},
			{ID: 2, Text: "second", CreatedAt: base.Add(time.Second)},
		},
	}
	s := app.NewChatSession(gw, "team-standup", 50, nil)
	require.NoError(t, s.Refresh(context.Background()))

	msgs := s.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "first", msgs[0].Text)
	assert.Equal(t, "second", msgs[1].Text)
	assert.Equal(t, "third", msgs[2].Text)
}

func TestChatRefreshFailureKeepsPreviousPage(t *testing.T) {
	gw := &fakeChatGateway{
		history: []domain.ChatMessage{{ID: 1, Text: "kept", CreatedAt: time.Now()}},
	}
	s := app.NewChatSession(gw, "team-standup", 50, nil)
	require.NoError(t, s.Refresh(context.Background()))

	gw.historyErr = &core.Failure{Kind: core.FailureNetwork, Op: "chat.history"}
	require.Error(t, s.Refresh(context.Background()))
	require.Len(t, s.Messages(), 1)
	assert.Equal(t, "kept", s.Messages()[0].Text)
}
