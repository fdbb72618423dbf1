// Package app holds the client-side services and projections the
// orchestrator composes: identity, roster, room state and chat.
package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
)

var _ core.IdentityProvider = (*IdentityService)(nil)

// IdentityService is the single owner of the persisted identity.
// Consumers read through Current or Subscribe; only the auth flow
// (Login/Logout) mutates it.
type IdentityService struct {
	store core.IdentityStore
	auth  core.AuthGateway

	mu      sync.RWMutex
	current *domain.Identity
	subs    map[int]func(*domain.Identity)
	nextSub int
}

func NewIdentityService(store core.IdentityStore, auth core.AuthGateway) (*IdentityService, error) {
	s := &IdentityService{
		store: store,
		auth:  auth,
		subs:  make(map[int]func(*domain.Identity)),
	}
	id, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("restore identity: %w", err)
	}
	s.current = id
	if id != nil {
		log.Info().Str("module", "app.identity").Int64("user_id", int64(id.UserID)).Msg("restored identity")
	}
	return s, nil
}

func (s *IdentityService) Current() (domain.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return domain.Identity{}, false
	}
	return *s.current, true
}

// Token is a core TokenSource for the gateway: empty when logged out.
func (s *IdentityService) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.AccessToken
}

// Subscribe registers fn for login/logout changes. fn receives nil on
// logout. The returned func unsubscribes.
func (s *IdentityService) Subscribe(fn func(*domain.Identity)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Login creates a guest user, obtains its bearer token and persists
// the resulting identity.
func (s *IdentityService) Login(ctx context.Context, nickname string) (domain.Identity, error) {
	userID, err := s.auth.CreateGuest(ctx, nickname)
	if err != nil {
		return domain.Identity{}, err
	}
	token, err := s.auth.GuestToken(ctx, userID)
	if err != nil {
		return domain.Identity{}, err
	}

	id := domain.Identity{UserID: userID, Nickname: nickname, Guest: true, AccessToken: token}
	if err := s.store.Save(id); err != nil {
		return domain.Identity{}, err
	}
	s.set(&id)
	log.Info().Str("module", "app.identity").Int64("user_id", int64(userID)).Str("nickname", nickname).Msg("logged in")
	return id, nil
}

func (s *IdentityService) Logout() error {
	if err := s.store.Clear(); err != nil {
		return err
	}
	s.set(nil)
	log.Info().Str("module", "app.identity").Msg("logged out")
	return nil
}

func (s *IdentityService) set(id *domain.Identity) {
	s.mu.Lock()
	s.current = id
	subs := make([]func(*domain.Identity), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(id)
	}
}
