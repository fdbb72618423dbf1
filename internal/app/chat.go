package app

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
)

// ErrChatDisabled is returned when a send is attempted outside a live
// media session; chat is part of the session, not a standalone feature.
var ErrChatDisabled = errors.New("chat requires a connected media session")

const DefaultChatPageSize = 50

// ChatGateway is the slice of the backend contract the chat loop needs.
type ChatGateway interface {
	ChatHistory(ctx context.Context, slug domain.RoomSlug, limit int) ([]domain.ChatMessage, error)
	SendChat(ctx context.Context, slug domain.RoomSlug, user domain.UserID, text string) (domain.ChatMessage, error)
}

// ChatSession owns the bounded message list for one room visit.
// Ordering stays authoritative from the server: a successful send
// triggers a re-fetch instead of a local append.
type ChatSession struct {
	gw    ChatGateway
	slug  domain.RoomSlug
	limit int
	// gate reports whether sending is currently allowed.
	gate func() bool

	mu      sync.RWMutex
	msgs    []domain.ChatMessage
	sending bool
}

func NewChatSession(gw ChatGateway, slug domain.RoomSlug, limit int, gate func() bool) *ChatSession {
	if limit <= 0 {
		limit = DefaultChatPageSize
	}
	if gate == nil {
		gate = func() bool { return true }
	}
	return &ChatSession{gw: gw, slug: slug, limit: limit, gate: gate}
}

// Refresh replaces the list with the most recent page, de-duplicated by
// id and ordered by created_at ascending. A failed refresh keeps the
// previous page; the panel degrades, it never blocks anything else.
func (s *ChatSession) Refresh(ctx context.Context) error {
	items, err := s.gw.ChatHistory(ctx, s.slug, s.limit)
	if err != nil {
		log.Warn().Err(err).Str("module", "app.chat").Str("room", string(s.slug)).Msg("chat refresh failed")
		return err
	}

	seen := make(map[domain.MessageID]bool, len(items))
	out := make([]domain.ChatMessage, 0, len(items))
	for _, m := range items {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	s.mu.Lock()
	s.msgs = out
	s.mu.Unlock()
	return nil
}

// Send validates client-side first: blank or over-long text produces no
// network call. A send must settle before the next one is accepted. On
// success the list is re-fetched. On failure the caller's input is
// untouched so the user can retry.
func (s *ChatSession) Send(ctx context.Context, user domain.UserID, text string) error {
	if err := domain.ValidateMessageText(text); err != nil {
		return err
	}
	if !s.gate() {
		return ErrChatDisabled
	}

	s.mu.Lock()
	if s.sending {
		s.mu.Unlock()
		return core.ErrActionInFlight
	}
	s.sending = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.sending = false
		s.mu.Unlock()
	}()
	if _, err := s.gw.SendChat(ctx, s.slug, user, text); err != nil {
		return err
	}
	if err := s.Refresh(ctx); err != nil {
		// The message was accepted; a stale list is refreshable later.
		if _, ok := core.KindOf(err); ok {
			return nil
		}
		return err
	}
	return nil
}

func (s *ChatSession) Messages() []domain.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.ChatMessage(nil), s.msgs...)
}
